// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the cohort platform.
//
// The client carries no token of its own at construction. Instead,
// SetBearer is registered as a session token-change hook: every login,
// logout, and forced expiry updates the Authorization header used by
// subsequent requests as a side effect of the session transition. Code
// issuing requests never touches the token directly.
//
// # Key Types
//
//   - Client: pooled HTTP client with retry, backoff, and the bearer
//     hook.
//   - AuthResult: token, role, and display name from login or signup,
//     ready to hand to the session store.
//   - MetricChart: a rendered metric plot (base64 PNG) with summary
//     statistics and an alt-text description.
//
// # Errors
//
// Failures map to sentinel errors (ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrConflict, ErrRateLimited) where the status code has a
// clear meaning, and to *APIError otherwise. Rate limiting and 5xx
// responses are retried with exponential backoff.
package api
