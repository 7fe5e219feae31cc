// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app contains the root bubbletea model. It owns routing: every
// screen change goes through route resolution against the current
// session, so a view is only ever shown to a session the guards accept.
package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/session"
	"github.com/morganforge/cohort-tui/internal/ui/components"
	"github.com/morganforge/cohort-tui/internal/ui/views"
)

// resolveHops bounds redirect chains during navigation. The route tree
// is two gates deep, so anything longer indicates a cycle.
const resolveHops = 4

// SessionChangedMsg is delivered from outside the bubbletea loop when
// durable session storage changes, including changes made by another
// process.
type SessionChangedMsg struct{}

// App is the root model. It resolves routes, constructs views, and
// relays session lifecycle events into navigation.
type App struct {
	deps    views.Deps
	monitor *session.Monitor
	env     string

	route router.RouteID
	view  views.View

	// Selections carried between a list view and its detail view.
	selectedStudy       *model.Study
	selectedParticipant *model.Participant

	// notice is a transient banner shown above the active view, e.g.
	// after a forced logout.
	notice string
}

// New constructs the root model. env is the environment tag shown in
// the status bar.
func New(deps views.Deps, monitor *session.Monitor, env string) *App {
	return &App{deps: deps, monitor: monitor, env: env}
}

func (a *App) snapshot() router.Snapshot {
	sess := a.deps.Store.Current()
	return router.Snapshot{Token: sess.Token, Role: sess.Role}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.monitor.TickCmd(), a.navigate(router.RouteIndex))
}

// navigate resolves id against the current session, following
// redirects, then swaps in the destination view.
func (a *App) navigate(id router.RouteID) tea.Cmd {
	snap := a.snapshot()
	for i := 0; i < resolveHops; i++ {
		decision := router.Resolve(snap, id)
		if decision.Action == router.ActionRender {
			break
		}
		id = decision.Target
	}

	a.route = id
	a.view = a.buildView(id, snap)
	return a.view.Init()
}

// buildView constructs the view for a resolved route. Detail routes
// need a selection; without one they fall back to their parent list.
func (a *App) buildView(id router.RouteID, snap router.Snapshot) views.View {
	switch id {
	case router.RouteLogin:
		return views.NewLoginView(a.deps)
	case router.RouteSignup:
		return views.NewSignupView(a.deps)

	case router.RouteParticipantHome:
		return views.NewHomeView(a.deps, a.greeting(), snap, router.RouteParticipantHome)
	case router.RouteMyStudies:
		return views.NewMyStudiesView(a.deps)
	case router.RouteJoinStudy:
		return views.NewJoinStudyView(a.deps)
	case router.RouteMyData:
		return views.NewMyDataView(a.deps)
	case router.RouteMySettings, router.RouteOrganizerSettings:
		return views.NewSettingsView(a.deps)

	case router.RouteOrganizerHome:
		return views.NewHomeView(a.deps, a.greeting(), snap, router.RouteOrganizerHome)
	case router.RouteStudies:
		return views.NewOrganizerStudiesView(a.deps)
	case router.RouteCreateStudy:
		return views.NewCreateStudyView(a.deps)
	case router.RouteStudyDetails:
		if a.selectedStudy == nil {
			a.route = router.RouteStudies
			return views.NewOrganizerStudiesView(a.deps)
		}
		return views.NewStudyDetailsView(a.deps, *a.selectedStudy)
	case router.RouteParticipantDetails:
		if a.selectedStudy == nil || a.selectedParticipant == nil {
			a.route = router.RouteStudies
			return views.NewOrganizerStudiesView(a.deps)
		}
		return views.NewParticipantDetailsView(a.deps, *a.selectedStudy, *a.selectedParticipant)
	}

	return views.NewNotFoundView(a.deps)
}

func (a *App) greeting() string {
	name := a.deps.Store.Current().DisplayName
	if name == "" {
		return "Welcome"
	}
	return "Welcome, " + name
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.deps.Theme.Resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case session.TickMsg:
		return a, a.monitor.HandleTick()

	case session.ExpiredMsg:
		a.notice = "Your session expired. Please log in again."
		return a, a.navigate(router.RouteIndex)

	case SessionChangedMsg:
		// Re-check the current route; if the guards still accept it the
		// active view stays untouched.
		decision := router.Resolve(a.snapshot(), a.route)
		if decision.Action == router.ActionRender {
			return a, nil
		}
		if !a.snapshot().Authenticated() && a.notice == "" {
			a.notice = "You were signed out."
		}
		return a, a.navigate(a.route)

	case views.NavigateMsg:
		a.notice = ""
		return a, a.navigate(msg.Route)

	case views.AuthenticatedMsg:
		a.notice = ""
		if err := a.deps.Store.Establish(msg.Result.Token, msg.Result.Role, msg.Result.Name); err != nil {
			a.notice = "Could not persist your session: " + err.Error()
		}
		return a, a.navigate(router.RouteIndex)

	case views.LogoutMsg:
		a.deps.Store.Clear()
		return a, a.navigate(router.RouteIndex)

	case views.StudySelectedMsg:
		study := msg.Study
		a.selectedStudy = &study
		a.selectedParticipant = nil
		return a, nil

	case views.ParticipantSelectedMsg:
		study := msg.Study
		p := msg.Participant
		a.selectedStudy = &study
		a.selectedParticipant = &p
		return a, nil
	}

	if a.view == nil {
		return a, nil
	}
	next, cmd := a.view.Update(msg)
	a.view = next
	return a, cmd
}

func (a *App) View() string {
	if a.view == nil {
		return ""
	}

	th := a.deps.Theme
	sess := a.deps.Store.Current()

	var b strings.Builder
	b.WriteString(components.Header(th, a.view.Title(), sess.Role, sess.DisplayName))
	b.WriteString("\n")
	if a.notice != "" {
		b.WriteString(components.InfoBanner(th, a.notice))
		b.WriteString("\n")
	}
	b.WriteString(a.view.View())
	b.WriteString("\n")
	b.WriteString(components.StatusBar(th, a.env, components.DefaultShortcuts))
	return b.String()
}
