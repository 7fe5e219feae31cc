// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the kind of authenticated actor. The set is closed:
// the platform knows participants and organizers, nothing else.
type Role string

const (
	// RoleParticipant is a study participant.
	RoleParticipant Role = "user"

	// RoleOrganizer is a study organizer (principal investigator).
	RoleOrganizer Role = "principal_investigator"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleParticipant || r == RoleOrganizer
}

// Other returns the opposite role. Anything that is not the organizer
// role maps to the participant side, matching how the platform routes
// unknown role values.
func (r Role) Other() Role {
	if r == RoleOrganizer {
		return RoleParticipant
	}
	return RoleOrganizer
}

// Display returns the human-readable role name for UI chrome.
func (r Role) Display() string {
	switch r {
	case RoleOrganizer:
		return "Principal Investigator"
	case RoleParticipant:
		return "Participant"
	default:
		return string(r)
	}
}
