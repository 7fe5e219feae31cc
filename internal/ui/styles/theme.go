// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects
// the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	RoleBadge      lipgloss.Style

	// ==========================================================================
	// CONTENT STYLES
	// ==========================================================================

	Content      lipgloss.Style
	SectionTitle lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Hint         lipgloss.Style

	// ==========================================================================
	// LIST STYLES
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	// ==========================================================================
	// STATUS BADGES
	// ==========================================================================

	BadgeOngoing    lipgloss.Style
	BadgeNotStarted lipgloss.Style
	BadgeCompleted  lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormTitle    lipgloss.Style
	FieldLabel   lipgloss.Style
	FieldError   lipgloss.Style
	ButtonActive lipgloss.Style
	ButtonIdle   lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	ErrorBanner   lipgloss.Style
	InfoBanner    lipgloss.Style
	SuccessBanner lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// New constructs a theme sized to the given terminal dimensions.
func New(width, height int) *Theme {
	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
		Width:        width,
		Height:       height,
	}

	t.Header = lipgloss.NewStyle().
		Background(TealDeep).
		Foreground(TextInverse).
		Padding(0, 1).
		Width(width)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(TextInverse)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(TextInverse).Faint(true)
	t.RoleBadge = lipgloss.NewStyle().
		Background(Indigo).
		Foreground(TextInverse).
		Padding(0, 1).
		Bold(true)

	t.Content = lipgloss.NewStyle().Padding(1, 2)
	t.SectionTitle = lipgloss.NewStyle().Bold(true).Foreground(Teal).MarginBottom(1)
	t.Label = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Value = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Hint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.ListItem = lipgloss.NewStyle().Padding(0, 2)
	t.ListItemSelected = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(Teal).
		Bold(true).
		SetString("> ")

	t.BadgeOngoing = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.BadgeNotStarted = lipgloss.NewStyle().Foreground(Amber)
	t.BadgeCompleted = lipgloss.NewStyle().Foreground(Slate)

	t.FormTitle = lipgloss.NewStyle().Bold(true).Foreground(Teal).MarginBottom(1)
	t.FieldLabel = lipgloss.NewStyle().Foreground(TextSecondary).Width(22)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose)
	t.ButtonActive = lipgloss.NewStyle().
		Background(Teal).
		Foreground(TextInverse).
		Padding(0, 3).
		Bold(true)
	t.ButtonIdle = lipgloss.NewStyle().
		Background(Overlay).
		Foreground(TextSecondary).
		Padding(0, 3)

	t.ErrorBanner = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Foreground(Rose).
		Padding(0, 1)
	t.InfoBanner = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.SuccessBanner = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Foreground(Emerald).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1).
		Width(width)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	return t
}

// Resize updates the width-dependent styles in place.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
	t.Header = t.Header.Width(width)
	t.StatusBar = t.StatusBar.Width(width)
}
