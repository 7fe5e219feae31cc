// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/ui/styles"
)

func TestSignedConsentEmbedsSignatureAndConsentText(t *testing.T) {
	study := model.Study{
		Name:            "Sleep Study",
		Code:            "SLP01",
		InformedConsent: "# Consent\n\nYou agree to share heartrate data.",
	}
	signedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	encoded := signedConsent(study, "Ada Lovelace", signedAt)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	doc := string(raw)
	assert.Contains(t, doc, study.InformedConsent)
	assert.Contains(t, doc, "Signed by: Ada Lovelace")
	assert.Contains(t, doc, "SLP01")
	assert.Contains(t, doc, "2025-06-01T12:00:00Z")
}

func TestSlugMetric(t *testing.T) {
	assert.Equal(t, "heartrate", slugMetric("Heartrate"))
	assert.Equal(t, "acceleration_xyz", slugMetric("Acceleration (XYZ)"))
	assert.Equal(t, "acceleration_vector", slugMetric("Acceleration (vector)"))
	// Separator runs collapse and edges trim.
	assert.Equal(t, "heart_rate_v2", slugMetric("  Heart -- Rate (v2) "))
}

func TestHomeMenuMatchesRoleRoutes(t *testing.T) {
	deps := Deps{Theme: styles.New(80, 24)}

	snap := router.Snapshot{Token: "t", Role: model.RoleOrganizer}
	home := NewHomeView(deps, "Welcome", snap, router.RouteOrganizerHome)

	var ids []router.RouteID
	for _, e := range home.entries {
		ids = append(ids, e.ID)
	}

	// Entry plumbing and selection-dependent detail screens stay out.
	assert.NotContains(t, ids, router.RouteOrganizerHome)
	assert.NotContains(t, ids, router.RouteLogin)
	assert.NotContains(t, ids, router.RouteStudyDetails)
	assert.NotContains(t, ids, router.RouteParticipantDetails)

	// The other role's destinations never appear.
	assert.NotContains(t, ids, router.RouteMyStudies)

	assert.Contains(t, ids, router.RouteStudies)
	assert.Contains(t, ids, router.RouteCreateStudy)
	assert.Contains(t, ids, router.RouteOrganizerSettings)
}

func TestHomeMenuRendersSelection(t *testing.T) {
	deps := Deps{Theme: styles.New(80, 24)}
	snap := router.Snapshot{Token: "t", Role: model.RoleParticipant}
	home := NewHomeView(deps, "Welcome", snap, router.RouteParticipantHome)

	out := home.View()
	assert.True(t, strings.Contains(out, "My Studies"))
	assert.True(t, strings.Contains(out, "Join Study"))
}
