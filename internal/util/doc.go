// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the cohort client.
//
// This package contains the small helpers shared across packages:
// crash-safe file writing for durable session state and width-aware
// string handling for terminal display.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - ReadFileString: Best-effort read where absence is not an error
//
// String Utilities:
//   - TruncateWidth: Display-width truncation with ellipsis
//   - StringWidth, PadRight: Terminal column accounting
//
// # Usage
//
//	// Persist a session key so a watcher never sees a partial write
//	err := util.AtomicWriteFile(path, []byte(token), 0600)
//
//	// Truncate a study name for the status bar
//	display := util.TruncateWidth(name, 40)
package util
