// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// =============================================================================
// STUDY STATUS
// =============================================================================

// StudyStatus describes where a study sits in its lifecycle.
type StudyStatus string

const (
	StatusNotStarted StudyStatus = "not_started"
	StatusOngoing    StudyStatus = "ongoing"
	StatusCompleted  StudyStatus = "completed"
	StatusUndefined  StudyStatus = "undefined"
)

// DeriveStatus computes a study's status from its start and end dates
// relative to now. Zero dates yield StatusUndefined.
func DeriveStatus(start, end, now time.Time) StudyStatus {
	if start.IsZero() || end.IsZero() {
		return StatusUndefined
	}
	switch {
	case now.Before(start):
		return StatusNotStarted
	case now.After(end):
		return StatusCompleted
	default:
		return StatusOngoing
	}
}

// =============================================================================
// STUDY TYPES
// =============================================================================

// Metric is a recorded data stream within a study.
type Metric struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StudyOverview is a participant's listing record for a joined study.
// Status is assigned server-side; DerivedStatus recomputes it locally
// when the record is stale.
type StudyOverview struct {
	ID          string      `json:"study_id"`
	Name        string      `json:"study_name"`
	Description string      `json:"description"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Status      StudyStatus `json:"status"`
}

// DerivedStatus recomputes the overview's lifecycle status as of now.
func (s StudyOverview) DerivedStatus() StudyStatus {
	return DeriveStatus(s.StartDate, s.EndDate, time.Now())
}

// Study is the full study record, as fetched by code or by ID.
// InclusionCriteria and InformedConsent are markdown documents authored
// by the organizer; the client renders them but never interprets them.
type Study struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"` // short join identifier
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	OrganizerName     string    `json:"organizer_name"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Duration          string    `json:"duration"` // ISO-8601, days+hours only
	InclusionCriteria string    `json:"inclusion_criteria"` // markdown
	InformedConsent   string    `json:"informed_consent"`   // markdown
	Metrics           []Metric  `json:"metrics"`
	NumParticipants   int       `json:"num_participants,omitempty"`
}

// Status derives the study's lifecycle status as of now.
func (s Study) Status() StudyStatus {
	return DeriveStatus(s.StartDate, s.EndDate, time.Now())
}

// =============================================================================
// ENROLLMENT TYPES
// =============================================================================

// Participant is an organizer's view of one enrolled participant.
// SignedConsent is a base64-encoded PDF and is treated as opaque.
type Participant struct {
	ParticipantNum int       `json:"participant_num"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	SignedConsent  string    `json:"signed_informed_consent,omitempty"`
	LastUpdated    int64     `json:"last_updated"` // unix seconds of newest metric sample
}

// UserStudyData is a participant's own enrollment record for a study.
type UserStudyData struct {
	StudyID        string    `json:"study_id"`
	ParticipantNum int       `json:"participant_num"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	SignedConsent  string    `json:"signed_informed_consent,omitempty"`
}

// StudyAndUserData pairs a study with the caller's enrollment in it.
type StudyAndUserData struct {
	Study    Study         `json:"study_data"`
	UserData UserStudyData `json:"user_study_data"`
}
