// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/morganforge/cohort-tui/internal/ui/styles"
)

// ErrorBanner renders a bordered error message, empty input included.
func ErrorBanner(th *styles.Theme, msg string) string {
	if msg == "" {
		return ""
	}
	return th.ErrorBanner.Render("! " + msg)
}

// InfoBanner renders a neutral notice.
func InfoBanner(th *styles.Theme, msg string) string {
	if msg == "" {
		return ""
	}
	return th.InfoBanner.Render(msg)
}

// SuccessBanner renders a confirmation notice.
func SuccessBanner(th *styles.Theme, msg string) string {
	if msg == "" {
		return ""
	}
	return th.SuccessBanner.Render("+ " + msg)
}
