// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for cohort TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/ui/styles"
	"github.com/morganforge/cohort-tui/internal/util"
)

// Header renders the application header: brand, current view title,
// and the signed-in identity with its role badge.
func Header(th *styles.Theme, title string, role model.Role, displayName string) string {
	brand := th.HeaderTitle.Render("Cohort")
	sub := th.HeaderSubtitle.Render(" | " + title)
	left := brand + sub

	right := ""
	if role.Valid() {
		name := displayName
		if name == "" {
			name = "signed in"
		}
		right = util.TruncateWidth(name, 24) + " " + th.RoleBadge.Render(role.Display())
	}

	gap := th.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return th.Header.Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}
