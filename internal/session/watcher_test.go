// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/cohort-tui/internal/model"
)

// startWatcher runs a watcher for store until the test ends.
func startWatcher(t *testing.T, store *Store) {
	t.Helper()
	w, err := NewWatcher(store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	// Give the watch a moment to register before the test mutates files.
	time.Sleep(50 * time.Millisecond)
}

// Logout in one process must log out every process sharing the session
// directory, clearing all three fields rather than just the token.
func TestWatcherCrossProcessLogout(t *testing.T) {
	dir := t.TempDir()

	storeA, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, storeA.Establish("tok", model.RoleOrganizer, "Dr. Reyes"))

	storeB, err := NewStore(dir)
	require.NoError(t, err)
	require.True(t, storeB.Current().Authenticated())
	startWatcher(t, storeB)

	require.NoError(t, storeA.Clear())

	require.Eventually(t, func() bool {
		sess := storeB.Current()
		return sess.Token == "" && sess.Role == "" && sess.DisplayName == ""
	}, 2*time.Second, 10*time.Millisecond, "store B never observed the logout cascade")

	assert.False(t, keyExists(t, dir, KeyRole))
	assert.False(t, keyExists(t, dir, KeyName))
}

func TestWatcherExternalUpdate(t *testing.T) {
	dir := t.TempDir()

	storeA, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, storeA.Establish("tok", model.RoleParticipant, "Ada"))

	storeB, err := NewStore(dir)
	require.NoError(t, err)
	startWatcher(t, storeB)

	require.NoError(t, storeA.SetDisplayName("Ada Lovelace"))

	require.Eventually(t, func() bool {
		return storeB.Current().DisplayName == "Ada Lovelace"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherExternalLogin(t *testing.T) {
	dir := t.TempDir()

	storeB, err := NewStore(dir)
	require.NoError(t, err)
	startWatcher(t, storeB)

	storeA, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, storeA.Establish("tok-new", model.RoleOrganizer, "Dr. Reyes"))

	require.Eventually(t, func() bool {
		sess := storeB.Current()
		return sess.Token == "tok-new" && sess.Role == model.RoleOrganizer
	}, 2*time.Second, 10*time.Millisecond)
}
