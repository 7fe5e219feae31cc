// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the cohort command line surface: argument
// parsing and the non-TUI handlers (login, signup, logout, status,
// config). The TUI itself lives in internal/ui.
package cli
