// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists downloaded study artifacts.
//
// Consent archives, metric CSV exports, and rendered chart images
// fetched from the platform are written under the downloads directory
// and recorded in a SQLite ledger so the UI can list, reopen, and prune
// past downloads without rescanning the filesystem.
//
// # Key Types
//
//   - DownloadStore: saves artifact bytes atomically and records them
//     in the ledger.
//   - Record: one ledger row, keyed by study and artifact kind.
//
// # Usage
//
//	store, err := storage.NewDownloadStore()
//	rec, err := store.Save(storage.Record{
//	    StudyID: study.ID,
//	    Kind:    storage.KindConsentArchive,
//	}, "consents.zip", data)
package storage
