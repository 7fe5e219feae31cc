// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/router"
)

// NotFoundView is the catch-all screen for unknown routes.
type NotFoundView struct {
	deps Deps
}

// NewNotFoundView constructs the catch-all screen.
func NewNotFoundView(deps Deps) *NotFoundView {
	return &NotFoundView{deps: deps}
}

func (v *NotFoundView) Title() string { return "Not Found" }

func (v *NotFoundView) Init() tea.Cmd { return nil }

func (v *NotFoundView) Update(msg tea.Msg) (View, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return v, Navigate(router.RouteIndex)
	}
	return v, nil
}

func (v *NotFoundView) View() string {
	th := v.deps.Theme
	var b strings.Builder
	b.WriteString(th.SectionTitle.Render("Nothing here"))
	b.WriteString("\n")
	b.WriteString(th.Hint.Render("That screen does not exist. Press any key to go home."))
	return th.Content.Render(b.String())
}
