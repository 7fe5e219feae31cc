// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"github.com/morganforge/cohort-tui/internal/model"
)

// =============================================================================
// ROUTE GUARDS
// =============================================================================

// RequireAuth is the authentication gate: without a token, protected
// content is replaced by a redirect to the public entry route.
func RequireAuth(snap Snapshot) Decision {
	if !snap.Authenticated() {
		return RedirectTo(RouteLogin)
	}
	return Render()
}

// RequireRole is the role gate. It assumes the authentication gate has
// already passed; a mismatched role redirects to the other role's home
// rather than rendering. Because the role set is closed, "not the
// required role" always has exactly one sensible destination.
func RequireRole(snap Snapshot, required model.Role) Decision {
	if snap.Role != required {
		return RedirectTo(HomeFor(snap.Role))
	}
	return Render()
}

// HomeFor maps a role to its home route. Any value that is not the
// organizer role - including absent - lands on the participant side.
func HomeFor(role model.Role) RouteID {
	if role == model.RoleOrganizer {
		return RouteOrganizerHome
	}
	return RouteParticipantHome
}

// =============================================================================
// ROUTE RESOLUTION
// =============================================================================

// Resolve computes the render-or-redirect decision for one route under
// the given session state. Gate order is fixed: catch-all, then the
// authentication gate, then the index redirect, then the role gate. An
// unauthenticated session never reaches a role check.
func Resolve(snap Snapshot, id RouteID) Decision {
	route, known := routeTable[id]
	if !known {
		// Deep links to nothing fall through to a deterministic
		// not-found, never a blank render.
		return RedirectTo(RouteNotFound)
	}

	// The index never shows shared content: it forwards to login or to
	// the role-appropriate home.
	if route.ID == RouteIndex {
		if !snap.Authenticated() {
			return RedirectTo(RouteLogin)
		}
		return RedirectTo(HomeFor(snap.Role))
	}

	if route.RequiresAuth {
		if dec := RequireAuth(snap); dec.Action == ActionRedirect {
			return dec
		}
		if route.RequiredRole != "" {
			return RequireRole(snap, route.RequiredRole)
		}
	}

	return Render()
}

// Routes derives the set of reachable destinations for the session
// state: the full route tree is a function of (token, role), re-derived
// whenever the session changes.
func Routes(snap Snapshot) []Route {
	var out []Route
	for _, id := range routeOrder {
		route := routeTable[id]
		switch {
		case !route.RequiresAuth:
			out = append(out, route)
		case !snap.Authenticated():
			// Protected subtree is unreachable without a token.
		case route.RequiredRole == "" || route.RequiredRole == snap.Role:
			out = append(out, route)
		}
	}
	return out
}

// routeOrder fixes the derivation order so menus are stable.
var routeOrder = []RouteID{
	RouteIndex,
	RouteLogin,
	RouteSignup,
	RouteParticipantHome,
	RouteMyStudies,
	RouteJoinStudy,
	RouteMyData,
	RouteMySettings,
	RouteOrganizerHome,
	RouteStudies,
	RouteCreateStudy,
	RouteStudyDetails,
	RouteParticipantDetails,
	RouteOrganizerSettings,
	RouteNotFound,
}
