// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-48 * time.Hour)
	after := now.Add(48 * time.Hour)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  StudyStatus
	}{
		{"not started", after, after.Add(time.Hour), StatusNotStarted},
		{"ongoing", before, after, StatusOngoing},
		{"completed", before.Add(-time.Hour), before, StatusCompleted},
		{"zero start", time.Time{}, after, StatusUndefined},
		{"zero end", before, time.Time{}, StatusUndefined},
		{"starts exactly now", now, after, StatusOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.start, tt.end, now); got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	if !RoleParticipant.Valid() || !RoleOrganizer.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("admin").Valid() {
		t.Error("unknown role must not be valid")
	}

	if RoleOrganizer.Other() != RoleParticipant {
		t.Error("organizer's other role must be participant")
	}
	if RoleParticipant.Other() != RoleOrganizer {
		t.Error("participant's other role must be organizer")
	}
	// Unknown roles are treated as "not organizer".
	if Role("").Other() != RoleOrganizer {
		t.Error("absent role maps to the participant side")
	}

	if RoleOrganizer.Display() != "Principal Investigator" {
		t.Errorf("got %q", RoleOrganizer.Display())
	}
}
