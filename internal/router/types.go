// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"github.com/morganforge/cohort-tui/internal/model"
)

// =============================================================================
// ROUTE IDENTIFIERS
// =============================================================================

// RouteID names one navigable destination. The set is closed; unknown
// IDs resolve to RouteNotFound.
type RouteID string

const (
	// Index is the application root; it never renders content of its
	// own - it redirects to login or to the role-appropriate home.
	RouteIndex RouteID = "index"

	// Public entry routes.
	RouteLogin  RouteID = "login"
	RouteSignup RouteID = "signup"

	// Participant routes.
	RouteParticipantHome RouteID = "participant-home"
	RouteMyStudies       RouteID = "my-studies"
	RouteJoinStudy       RouteID = "join-study"
	RouteMyData          RouteID = "my-data"
	RouteMySettings      RouteID = "my-settings"

	// Organizer routes.
	RouteOrganizerHome      RouteID = "organizer-home"
	RouteStudies            RouteID = "studies"
	RouteCreateStudy        RouteID = "create-study"
	RouteStudyDetails       RouteID = "study-details"
	RouteParticipantDetails RouteID = "participant-details"
	RouteOrganizerSettings  RouteID = "organizer-settings"

	// RouteNotFound is the catch-all; it is reachable in every session
	// configuration so no path ever resolves to a blank render.
	RouteNotFound RouteID = "not-found"
)

// Route describes one destination and its gating requirements.
type Route struct {
	ID    RouteID
	Title string

	// RequiresAuth marks the route as inside the authentication gate.
	RequiresAuth bool

	// RequiredRole restricts the route to one role. Empty means any
	// authenticated session. Only meaningful when RequiresAuth is set:
	// the auth gate is an ancestor of every role gate.
	RequiredRole model.Role
}

// routeTable is the static registry of destinations. Which of these
// are reachable is derived per session state, not stored.
var routeTable = map[RouteID]Route{
	RouteIndex:  {ID: RouteIndex, Title: "Home"},
	RouteLogin:  {ID: RouteLogin, Title: "Login"},
	RouteSignup: {ID: RouteSignup, Title: "Sign Up"},

	RouteParticipantHome: {ID: RouteParticipantHome, Title: "Home", RequiresAuth: true, RequiredRole: model.RoleParticipant},
	RouteMyStudies:       {ID: RouteMyStudies, Title: "My Studies", RequiresAuth: true, RequiredRole: model.RoleParticipant},
	RouteJoinStudy:       {ID: RouteJoinStudy, Title: "Join Study", RequiresAuth: true, RequiredRole: model.RoleParticipant},
	RouteMyData:          {ID: RouteMyData, Title: "My Data", RequiresAuth: true, RequiredRole: model.RoleParticipant},
	RouteMySettings:      {ID: RouteMySettings, Title: "Settings", RequiresAuth: true, RequiredRole: model.RoleParticipant},

	RouteOrganizerHome:      {ID: RouteOrganizerHome, Title: "Home", RequiresAuth: true, RequiredRole: model.RoleOrganizer},
	RouteStudies:            {ID: RouteStudies, Title: "Studies", RequiresAuth: true, RequiredRole: model.RoleOrganizer},
	RouteCreateStudy:        {ID: RouteCreateStudy, Title: "Create Study", RequiresAuth: true, RequiredRole: model.RoleOrganizer},
	RouteStudyDetails:       {ID: RouteStudyDetails, Title: "Study Details", RequiresAuth: true, RequiredRole: model.RoleOrganizer},
	RouteParticipantDetails: {ID: RouteParticipantDetails, Title: "Participant", RequiresAuth: true, RequiredRole: model.RoleOrganizer},
	RouteOrganizerSettings:  {ID: RouteOrganizerSettings, Title: "Settings", RequiresAuth: true, RequiredRole: model.RoleOrganizer},

	RouteNotFound: {ID: RouteNotFound, Title: "Not Found"},
}

// Lookup returns the route for id. Unknown IDs yield the catch-all.
func Lookup(id RouteID) Route {
	if r, ok := routeTable[id]; ok {
		return r
	}
	return routeTable[RouteNotFound]
}

// =============================================================================
// DECISIONS
// =============================================================================

// Action is what the caller should do with a resolved route.
type Action int

const (
	// ActionRender means show the route's content.
	ActionRender Action = iota
	// ActionRedirect means navigate to Target instead; the redirect
	// itself is the handling, no error is surfaced.
	ActionRedirect
)

// Decision is the outcome of resolving a route against session state.
type Decision struct {
	Action Action
	Target RouteID
}

// Render is the decision to show the requested content.
func Render() Decision {
	return Decision{Action: ActionRender}
}

// RedirectTo is the decision to navigate elsewhere.
func RedirectTo(id RouteID) Decision {
	return Decision{Action: ActionRedirect, Target: id}
}

// =============================================================================
// SESSION SNAPSHOT
// =============================================================================

// Snapshot is the slice of session state routing depends on.
type Snapshot struct {
	Token string
	Role  model.Role
}

// Authenticated reports whether a token is present.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}
