// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router derives the navigable route tree from session state.
//
// Routing is a pure function: given (token present?, role) and a route
// ID, Resolve produces a render-or-redirect decision with no side
// effects. The decision is re-derived on every session change rather
// than kept in a mutable registry.
//
// # Gates
//
// Two composable gates protect routes:
//
//   - Authentication gate: no token means a redirect to the login
//     route instead of the protected content.
//   - Role gate: a mismatched role redirects to the *other* role's
//     home. The role set is closed - participant and organizer - so
//     the mapping is a fixed two-way swap.
//
// The authentication gate is always evaluated first; a role gate never
// runs for an unauthenticated session.
//
// # Usage
//
//	dec := router.Resolve(snap, router.RouteCreateStudy)
//	switch dec.Action {
//	case router.ActionRender:
//	    // show the view
//	case router.ActionRedirect:
//	    // navigate to dec.Target instead
//	}
package router
