// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/router"
)

// HomeView is a role-scoped landing menu. The entries are derived from
// the route tree for the current session, so the menu always matches
// what the guards would allow.
type HomeView struct {
	deps Deps

	heading string
	entries []router.Route
	cursor  int
}

// NewHomeView builds the landing menu from the reachable route set.
func NewHomeView(deps Deps, heading string, snap router.Snapshot, home router.RouteID) *HomeView {
	var entries []router.Route
	for _, r := range router.Routes(snap) {
		// The menu lists destinations reachable without a selection;
		// detail screens are entered from their parent lists.
		switch r.ID {
		case router.RouteIndex, router.RouteLogin, router.RouteSignup, router.RouteNotFound,
			router.RouteStudyDetails, router.RouteParticipantDetails, home:
			continue
		}
		entries = append(entries, r)
	}
	return &HomeView{deps: deps, heading: heading, entries: entries}
}

func (v *HomeView) Title() string { return "Home" }

func (v *HomeView) Init() tea.Cmd { return nil }

func (v *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.entries)-1 {
				v.cursor++
			}
		case "enter":
			if len(v.entries) > 0 {
				return v, Navigate(v.entries[v.cursor].ID)
			}
		}
	}
	return v, nil
}

func (v *HomeView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render(v.heading))
	b.WriteString("\n")

	for i, e := range v.entries {
		if i == v.cursor {
			b.WriteString(th.ListItemSelected.Render() + e.Title + "\n")
		} else {
			b.WriteString(th.ListItem.Render(e.Title) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("enter to open"))
	return th.Content.Render(b.String())
}
