// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/cohort-tui/internal/model"
)

// makeToken builds an unsigned three-segment token whose payload
// carries the given claims. The signature segment is garbage; the
// monitor never verifies it.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func newTestMonitor(t *testing.T, store *Store) *Monitor {
	t.Helper()
	return NewMonitor(store, time.Minute)
}

func assertCleared(t *testing.T, store *Store) {
	t.Helper()
	sess := store.Current()
	assert.Empty(t, sess.Token)
	assert.Empty(t, sess.Role)
	assert.Empty(t, sess.DisplayName)
	assert.False(t, keyExists(t, store.Dir(), KeyToken))
	assert.False(t, keyExists(t, store.Dir(), KeyRole))
	assert.False(t, keyExists(t, store.Dir(), KeyName))
}

func TestMonitorNoToken(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	mon := newTestMonitor(t, store)
	assert.Equal(t, CheckNoToken, mon.Check())
}

// An expired exp claim forces the full-clear cascade.
func TestMonitorExpiredTokenForcesLogout(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	expired := makeToken(t, map[string]any{"exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, store.Establish(expired, model.RoleParticipant, "Ada"))

	mon := newTestMonitor(t, store)
	var notified []CheckResult
	mon.OnForcedLogout(func(r CheckResult) { notified = append(notified, r) })

	assert.Equal(t, CheckExpired, mon.Check())
	assertCleared(t, store)
	assert.Equal(t, []CheckResult{CheckExpired}, notified)
}

// A token that does not decode is treated exactly like an expired one.
func TestMonitorMalformedTokenForcesLogout(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not a jwt", "definitely-not-a-token"},
		{"two segments", "aGVhZGVy.cGF5bG9hZA"},
		{"payload not base64", "aGVhZGVy.!!!.c2ln"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, store.Establish(tt.token, model.RoleOrganizer, "Dr. Reyes"))

			mon := newTestMonitor(t, store)
			assert.Equal(t, CheckMalformed, mon.Check())
			assertCleared(t, store)
		})
	}
}

func TestMonitorMissingOrBadExpClaim(t *testing.T) {
	for _, tc := range []struct {
		name   string
		claims map[string]any
	}{
		{"missing exp", map[string]any{"sub": "participant-1"}},
		{"non-numeric exp", map[string]any{"exp": "tomorrow"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewStore(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, store.Establish(makeToken(t, tc.claims), model.RoleParticipant, "Ada"))

			mon := newTestMonitor(t, store)
			assert.Equal(t, CheckMalformed, mon.Check())
			assertCleared(t, store)
		})
	}
}

// A token with exp in the future leaves the session untouched.
func TestMonitorValidTokenUntouched(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	valid := makeToken(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, store.Establish(valid, model.RoleParticipant, "Ada"))
	before := store.Current()

	mon := newTestMonitor(t, store)
	var notified bool
	mon.OnForcedLogout(func(CheckResult) { notified = true })

	assert.Equal(t, CheckValid, mon.Check())
	assert.Equal(t, before, store.Current())
	assert.False(t, notified)
}

// The monitor judges what is actually on disk, not the in-memory copy,
// so a token swapped in by another process is checked as stored.
func TestMonitorReadsDurableStorage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	valid := makeToken(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, store.Establish(valid, model.RoleParticipant, "Ada"))

	// Another process replaces the stored token with an expired one.
	expired := makeToken(t, map[string]any{"exp": time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), KeyToken), []byte(expired), 0600))

	mon := newTestMonitor(t, store)
	assert.Equal(t, CheckExpired, mon.Check())
	assertCleared(t, store)
}

// Expiry boundary: exp exactly now counts as expired.
func TestMonitorBoundary(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	tok := makeToken(t, map[string]any{"exp": now.Unix()})
	require.NoError(t, store.Establish(tok, model.RoleParticipant, "Ada"))

	mon := newTestMonitor(t, store)
	mon.now = func() time.Time { return now }

	assert.Equal(t, CheckExpired, mon.Check())
}
