// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"

	"github.com/morganforge/cohort-tui/internal/util"
)

// =============================================================================
// TOKEN EXPIRY MONITOR
// =============================================================================

// DefaultPollInterval is how often the monitor re-checks the stored
// token. A tunable constant, not a contract.
const DefaultPollInterval = 60 * time.Second

// CheckResult describes the outcome of one expiry check.
type CheckResult int

const (
	// CheckNoToken means no token is stored; nothing to do.
	CheckNoToken CheckResult = iota
	// CheckValid means the token's exp claim is in the future.
	CheckValid
	// CheckExpired means the exp claim has passed; logout was forced.
	CheckExpired
	// CheckMalformed means the token failed to decode; logout was forced.
	CheckMalformed
)

// Monitor proactively ends sessions whose credential has outlived its
// validity, independent of any API call failing. It never contacts the
// server and never refreshes a token.
type Monitor struct {
	store    *Store
	interval time.Duration

	// onForcedLogout is told why the session ended so the UI can ask
	// the user to re-authenticate.
	onForcedLogout func(result CheckResult)

	// now is swappable for tests.
	now func() time.Time
}

// NewMonitor creates a monitor for the given store. A non-positive
// interval falls back to DefaultPollInterval.
func NewMonitor(store *Store, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// OnForcedLogout registers a hook fired when a check forces logout.
func (m *Monitor) OnForcedLogout(fn func(result CheckResult)) {
	m.onForcedLogout = fn
}

// Check performs one expiry check against durable storage. The token is
// read from disk rather than memory so that a token swapped in by
// another process is judged on what is actually stored.
//
// Decoding deliberately skips signature verification: the client has no
// key material, and the check is advisory - its only job is to stop the
// UI from presenting stale authenticated screens. A token that fails to
// decode at all is treated exactly like an expired one.
func (m *Monitor) Check() CheckResult {
	raw, ok := util.ReadFileString(filepath.Join(m.store.Dir(), KeyToken))
	if !ok {
		return CheckNoToken
	}

	exp, err := decodeExpiry(raw)
	if err != nil {
		m.forceLogout(CheckMalformed)
		return CheckMalformed
	}
	if exp.UnixMilli() <= m.now().UnixMilli() {
		m.forceLogout(CheckExpired)
		return CheckExpired
	}
	return CheckValid
}

// Run checks once immediately, then on every interval tick, until ctx
// is cancelled. The ticker is released on return so a torn-down UI
// scope never leaks a recurring timer.
func (m *Monitor) Run(ctx context.Context) {
	m.Check()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// forceLogout runs the full-clear cascade and notifies the UI.
func (m *Monitor) forceLogout(result CheckResult) {
	m.store.Clear()
	if m.onForcedLogout != nil {
		m.onForcedLogout(result)
	}
}

// TokenExpiry extracts the exp claim from a stored token without
// verifying it. Used for display; the monitor uses the same decoding
// for enforcement.
func TokenExpiry(raw string) (time.Time, error) {
	return decodeExpiry(raw)
}

// decodeExpiry extracts the exp claim (Unix seconds) from the token's
// payload segment without verifying any signature. Malformed structure,
// a missing claim, or a non-numeric value are all errors.
func decodeExpiry(raw string) (time.Time, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return exp.Time, nil
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent on every monitor poll interval.
type TickMsg struct {
	Time time.Time
}

// ExpiredMsg indicates a check forced logout while the TUI was running.
type ExpiredMsg struct {
	Result CheckResult
}

// TickCmd returns a command that ticks after the monitor interval.
func (m *Monitor) TickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick runs one check and schedules the next tick. The root model
// calls this for every TickMsg; an ExpiredMsg is emitted when the check
// ended the session.
func (m *Monitor) HandleTick() tea.Cmd {
	result := m.Check()

	cmds := []tea.Cmd{m.TickCmd()}
	if result == CheckExpired || result == CheckMalformed {
		cmds = append(cmds, func() tea.Msg {
			return ExpiredMsg{Result: result}
		})
	}
	return tea.Batch(cmds...)
}
