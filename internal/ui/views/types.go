// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views implements the navigable screens of cohort TUI. Each
// view is a bubbletea model; cross-view effects (navigation, login,
// logout) surface as messages the app root handles.
package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/session"
	"github.com/morganforge/cohort-tui/internal/storage"
	"github.com/morganforge/cohort-tui/internal/ui/styles"
)

// requestTimeout bounds every API call issued from a view.
const requestTimeout = 30 * time.Second

// View is one navigable screen.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	Title() string
}

// Deps are the shared dependencies handed to every view.
type Deps struct {
	Client    *api.Client
	Store     *session.Store
	Downloads *storage.DownloadStore
	Theme     *styles.Theme
}

// =============================================================================
// CROSS-VIEW MESSAGES
// =============================================================================

// NavigateMsg asks the app root to switch to another route.
type NavigateMsg struct {
	Route router.RouteID
}

// AuthenticatedMsg carries a successful login or signup result; the app
// root establishes the session and re-resolves the index.
type AuthenticatedMsg struct {
	Result api.AuthResult
}

// LogoutMsg asks the app root to clear the session.
type LogoutMsg struct{}

// ErrMsg carries a failed command's error back into a view.
type ErrMsg struct {
	Err error
}

// StudySelectedMsg carries the study a list view chose so the app root
// can seed the destination view with it.
type StudySelectedMsg struct {
	Study model.Study
}

// ParticipantSelectedMsg carries the participant an organizer picked
// from a study roster, together with the study, so the app root can
// seed the participant details view.
type ParticipantSelectedMsg struct {
	Study       model.Study
	Participant model.Participant
}

// Navigate builds a navigation command.
func Navigate(route router.RouteID) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

// SelectStudy builds a study selection command.
func SelectStudy(s model.Study) tea.Cmd {
	return func() tea.Msg { return StudySelectedMsg{Study: s} }
}

// SelectParticipant builds a participant selection command.
func SelectParticipant(s model.Study, p model.Participant) tea.Cmd {
	return func() tea.Msg { return ParticipantSelectedMsg{Study: s, Participant: p} }
}

// apiCtx returns a bounded context for one API call.
func apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
