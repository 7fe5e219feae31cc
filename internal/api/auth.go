// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/morganforge/cohort-tui/internal/model"
)

// Account is the authenticated account record returned by the platform.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// AuthResult is the outcome of a successful login or signup: everything
// the session store needs to establish a session.
type AuthResult struct {
	Token string
	Role  model.Role
	Name  string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type authResponse struct {
	Message     string  `json:"message"`
	AccessToken string  `json:"access_token"`
	Data        Account `json:"data"`
}

// Login authenticates against the platform. The role is chosen by the
// caller, not inferred from the token: the platform keeps participant
// and organizer accounts in separate pools and the request names which
// pool to check. Email is lowercased before submission.
func (c *Client) Login(ctx context.Context, email, password string, role model.Role) (AuthResult, error) {
	if !role.Valid() {
		return AuthResult{}, fmt.Errorf("invalid role %q", role)
	}

	req := loginRequest{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
		UserType: string(role),
	}

	var resp authResponse
	if err := c.postJSON(ctx, "/auth/login", req, &resp); err != nil {
		return AuthResult{}, err
	}
	if resp.AccessToken == "" {
		return AuthResult{}, fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	return AuthResult{Token: resp.AccessToken, Role: role, Name: resp.Data.Name}, nil
}

// ParticipantSignup is the registration payload for a participant
// account. Weight, height, and birth date feed metric normalization on
// the platform side.
type ParticipantSignup struct {
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	WeightKg  float64 `json:"weight_in_kg"`
	HeightCm  float64 `json:"height_in_cm"`
	BirthDate string  `json:"birth_date"` // YYYY-MM-DD
}

// OrganizerSignup is the registration payload for an organizer account.
type OrganizerSignup struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupParticipant registers a participant account and returns a
// ready-to-establish session.
func (c *Client) SignupParticipant(ctx context.Context, req ParticipantSignup) (AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var resp authResponse
	if err := c.postJSON(ctx, "/auth/signup/user", req, &resp); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: resp.AccessToken, Role: model.RoleParticipant, Name: resp.Data.Name}, nil
}

// SignupOrganizer registers an organizer account and returns a
// ready-to-establish session.
func (c *Client) SignupOrganizer(ctx context.Context, req OrganizerSignup) (AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var resp authResponse
	if err := c.postJSON(ctx, "/auth/signup/principal_investigator", req, &resp); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: resp.AccessToken, Role: model.RoleOrganizer, Name: resp.Data.Name}, nil
}

// mePath maps a role to its account endpoint; the platform serves
// participant and organizer accounts from distinct prefixes.
func mePath(role model.Role) string {
	if role == model.RoleOrganizer {
		return "/pi/me"
	}
	return "/users/me"
}

// Me fetches the authenticated account for the given role.
func (c *Client) Me(ctx context.Context, role model.Role) (Account, error) {
	var resp struct {
		Data Account `json:"data"`
	}
	if err := c.getJSON(ctx, mePath(role), &resp); err != nil {
		return Account{}, err
	}
	return resp.Data, nil
}

// UpdateMe updates mutable account fields for the given role. Zero
// fields are omitted and left unchanged server-side.
func (c *Client) UpdateMe(ctx context.Context, role model.Role, updates map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, mePath(role), updates)
	return err
}

// DeleteAccount permanently removes the authenticated account.
func (c *Client) DeleteAccount(ctx context.Context, role model.Role) error {
	_, err := c.do(ctx, http.MethodDelete, mePath(role), nil)
	return err
}
