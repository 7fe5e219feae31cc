// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/cohort-tui/internal/model"
)

func keyExists(t *testing.T, dir, key string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, key))
	return err == nil
}

func TestNewStoreHydratesAllKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyToken), []byte("tok-1"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyRole), []byte("principal_investigator"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyName), []byte("Dr. Reyes"), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)

	sess := store.Current()
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, model.RoleOrganizer, sess.Role)
	assert.Equal(t, "Dr. Reyes", sess.DisplayName)
	assert.True(t, sess.Authenticated())
}

func TestNewStoreEmptyDir(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	sess := store.Current()
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Role)
	assert.Empty(t, sess.DisplayName)
}

func TestNewStoreIgnoresRoleWithoutToken(t *testing.T) {
	// A role key left behind without a token must not be treated as valid.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyRole), []byte("user"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyName), []byte("Ada"), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)

	sess := store.Current()
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Role)
	assert.Empty(t, sess.DisplayName)
}

func TestEstablish(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Establish("tok-2", model.RoleParticipant, "Ada"))

	sess := store.Current()
	assert.Equal(t, "tok-2", sess.Token)
	assert.Equal(t, model.RoleParticipant, sess.Role)
	assert.Equal(t, "Ada", sess.DisplayName)

	// All three keys persisted.
	assert.True(t, keyExists(t, dir, KeyToken))
	assert.True(t, keyExists(t, dir, KeyRole))
	assert.True(t, keyExists(t, dir, KeyName))

	// A fresh store sees the same session.
	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, sess, reloaded.Current())
}

// Logout must clear token, role, and display name from memory and
// durable storage regardless of prior state.
func TestClearCascade(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Store)
	}{
		{"full session", func(s *Store) {
			s.Establish("tok", model.RoleOrganizer, "Dr. Reyes")
		}},
		{"token only", func(s *Store) {
			s.SetToken("tok")
		}},
		{"already empty", func(s *Store) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store, err := NewStore(dir)
			require.NoError(t, err)
			tt.setup(store)

			require.NoError(t, store.SetToken(""))

			sess := store.Current()
			assert.Empty(t, sess.Token)
			assert.Empty(t, sess.Role)
			assert.Empty(t, sess.DisplayName)
			assert.False(t, keyExists(t, dir, KeyToken))
			assert.False(t, keyExists(t, dir, KeyRole))
			assert.False(t, keyExists(t, dir, KeyName))
		})
	}
}

func TestSetTokenFeedsBearerHook(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	var got []string
	store.OnTokenChange(func(tok string) { got = append(got, tok) })

	// Registration replays the current (empty) token.
	require.Equal(t, []string{""}, got)

	require.NoError(t, store.SetToken("tok-3"))
	require.NoError(t, store.Clear())

	assert.Equal(t, []string{"", "tok-3", ""}, got)
}

func TestOnTokenChangeReplaysHydratedToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyToken), []byte("tok-4"), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)

	var got string
	store.OnTokenChange(func(tok string) { got = tok })
	assert.Equal(t, "tok-4", got)
}

func TestSetRoleAndDisplayName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SetToken("tok"))
	require.NoError(t, store.SetRole(model.RoleParticipant))
	require.NoError(t, store.SetDisplayName("Ada"))

	sess := store.Current()
	assert.Equal(t, model.RoleParticipant, sess.Role)
	assert.Equal(t, "Ada", sess.DisplayName)

	// Clearing is explicit: no value removes the key.
	require.NoError(t, store.SetRole(""))
	assert.False(t, keyExists(t, dir, KeyRole))
	assert.Empty(t, store.Current().Role)
}

func TestOnChangeFires(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	changes := 0
	store.OnChange(func() { changes++ })

	store.SetToken("tok")
	store.SetRole(model.RoleParticipant)
	store.Clear()

	assert.Equal(t, 3, changes)
}
