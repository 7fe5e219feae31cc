// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/morganforge/cohort-tui/internal/util"
)

// =============================================================================
// CROSS-PROCESS WATCHER
// =============================================================================

// Watcher reconciles session changes made by other cohort processes.
// It watches the session directory with fsnotify; every change to one
// of the three key files is folded back into the Store, and a removal
// of the token file is treated as the cross-process logout signal.
//
// Events caused by this process's own writes also arrive here. That is
// fine: reconciling a value the store already holds is a no-op, and the
// clear cascade is idempotent.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the store's session directory.
func NewWatcher(store *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(store.Dir()); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{store: store, watcher: fw}, nil
}

// Run processes storage events until ctx is cancelled. It is the
// caller's job to run this in a goroutine and cancel it when the
// application shuts down.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case _, ok := <-w.watcher.Errors:
			// Watch errors are non-fatal; the monitor still re-reads
			// durable storage on its own schedule.
			if !ok {
				return nil
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handle maps one filesystem event onto a storage-change notification
// {key, newValue} and applies it to the store.
func (w *Watcher) handle(ev fsnotify.Event) {
	key := filepath.Base(ev.Name)
	if key != KeyToken && key != KeyRole && key != KeyName {
		// Temp files from atomic writes and anything else are noise.
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.store.applyExternal(key, "", false)
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		value, present := util.ReadFileString(ev.Name)
		w.store.applyExternal(key, value, present)
	}
}
