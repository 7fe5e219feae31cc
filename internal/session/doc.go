// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the durable authentication session for cohort.
//
// A session is the triple (token, role, display name). It lives in memory
// in a single Store instance and is persisted under three independent
// files in the session directory (token, userId, name), so it survives
// restarts and is shared by every cohort process of the same user.
//
// # Key Types
//
//   - Store: Single source of truth for session state; all reads and
//     writes go through its setters
//   - Watcher: fsnotify-based reconciliation of external changes made
//     by other cohort processes
//   - Monitor: Periodic token expiry check that forces logout when the
//     credential's exp claim has passed or the token is malformed
//
// # Invariants
//
// Role and display name are only meaningful while a token is present.
// Clearing the token clears all three fields from memory and disk as one
// cascade, and an externally observed removal of the token file triggers
// the same cascade - logout in one process logs out every process.
//
// # Usage
//
//	store, _ := session.NewStore(dir)
//	store.OnTokenChange(client.SetBearer) // keep API auth header in sync
//
//	w, _ := session.NewWatcher(store)
//	go w.Run(ctx)
//
//	mon := session.NewMonitor(store, time.Minute)
//	go mon.Run(ctx)
//
// The expiry check never contacts the server and never refreshes a
// token; it only prevents the UI from presenting stale authenticated
// screens after the credential has expired locally.
package session
