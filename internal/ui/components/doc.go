// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the shared visual components for cohort
// TUI: the header, status bar, feedback banners, and status badges
// composed by every view.
package components
