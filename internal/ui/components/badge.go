// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/ui/styles"
)

// StatusBadge renders a study lifecycle status with its semantic color.
func StatusBadge(th *styles.Theme, status model.StudyStatus) string {
	switch status {
	case model.StatusOngoing:
		return th.BadgeOngoing.Render("ongoing")
	case model.StatusNotStarted:
		return th.BadgeNotStarted.Render("not started")
	case model.StatusCompleted:
		return th.BadgeCompleted.Render("completed")
	default:
		return th.BadgeCompleted.Render("unknown")
	}
}
