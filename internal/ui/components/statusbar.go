// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/morganforge/cohort-tui/internal/ui/styles"
)

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown on every view.
var DefaultShortcuts = []Shortcut{
	{Key: "tab", Desc: "next field"},
	{Key: "esc", Desc: "back"},
	{Key: "ctrl+c", Desc: "quit"},
}

// StatusBar renders the bottom bar: an environment tag on the left and
// key hints on the right.
func StatusBar(th *styles.Theme, env string, shortcuts []Shortcut) string {
	if len(shortcuts) == 0 {
		shortcuts = DefaultShortcuts
	}

	var hints []string
	for _, s := range shortcuts {
		hints = append(hints, th.ShortcutKey.Render(s.Key)+" "+th.ShortcutDesc.Render(s.Desc))
	}

	line := env
	if line != "" {
		line += "  "
	}
	line += strings.Join(hints, "  ")
	return th.StatusBar.Render(line)
}
