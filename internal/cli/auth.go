// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - login, signup, and logout handlers.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/model"
)

const authTimeout = 30 * time.Second

// HandleLogin signs in and persists the session for the TUI and for
// other cohort processes.
func HandleLogin(args Args) error {
	role, err := ParseRole(args.Role)
	if err != nil {
		return err
	}

	store, client, err := openSession()
	if err != nil {
		return err
	}

	email := args.Email
	if email == "" {
		if email, err = promptLine("Email"); err != nil {
			return err
		}
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	result, err := client.Login(ctx, email, password, role)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := store.Establish(result.Token, result.Role, result.Name); err != nil {
		return fmt.Errorf("login succeeded but the session could not be saved: %w", err)
	}

	if !args.Quiet {
		fmt.Printf("Signed in as %s (%s).\n", result.Name, result.Role.Display())
	}
	return nil
}

// HandleSignup registers an account interactively and signs in.
func HandleSignup(args Args) error {
	role, err := ParseRole(args.Role)
	if err != nil {
		return err
	}

	store, client, err := openSession()
	if err != nil {
		return err
	}

	name, err := promptLine("First name")
	if err != nil {
		return err
	}
	surname, err := promptLine("Surname")
	if err != nil {
		return err
	}
	email := args.Email
	if email == "" {
		if email, err = promptLine("Email"); err != nil {
			return err
		}
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	var result api.AuthResult
	if role == model.RoleOrganizer {
		result, err = client.SignupOrganizer(ctx, api.OrganizerSignup{
			Name: name, Surname: surname, Email: email, Password: password,
		})
	} else {
		var req api.ParticipantSignup
		req.Name, req.Surname, req.Email, req.Password = name, surname, email, password
		if req.WeightKg, err = promptFloat("Weight (kg)"); err != nil {
			return err
		}
		if req.HeightCm, err = promptFloat("Height (cm)"); err != nil {
			return err
		}
		if req.BirthDate, err = promptDate("Birth date (YYYY-MM-DD)"); err != nil {
			return err
		}
		result, err = client.SignupParticipant(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	if result.Token != "" {
		if err := store.Establish(result.Token, result.Role, result.Name); err != nil {
			return fmt.Errorf("signup succeeded but the session could not be saved: %w", err)
		}
	}
	if !args.Quiet {
		fmt.Printf("Account created for %s (%s).\n", result.Name, result.Role.Display())
	}
	return nil
}

func promptFloat(label string) (float64, error) {
	s, err := promptLine(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return v, nil
}

func promptDate(label string) (string, error) {
	s, err := promptLine(label)
	if err != nil {
		return "", err
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("%s must be YYYY-MM-DD", label)
	}
	return s, nil
}

// HandleLogout clears the stored session. Other cohort processes
// observe the removal and log out too.
func HandleLogout(args Args) error {
	store, _, err := openSession()
	if err != nil {
		return err
	}
	if !store.Current().Authenticated() {
		if !args.Quiet {
			fmt.Println("Not signed in.")
		}
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	if !args.Quiet {
		fmt.Println("Signed out.")
	}
	return nil
}
