// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - shared wiring and terminal prompts for CLI handlers.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/config"
	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/session"
)

// ParseRole maps the CLI role spelling to the platform role.
func ParseRole(s string) (model.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "participant", "user":
		return model.RoleParticipant, nil
	case "organizer", "organiser", "pi", "principal_investigator":
		return model.RoleOrganizer, nil
	default:
		return "", fmt.Errorf("unknown role %q (want participant or organizer)", s)
	}
}

// openSession builds the session store from configuration. The API
// client's bearer header follows the stored token.
func openSession() (*session.Store, *api.Client, error) {
	cfg := config.Global()

	dir, err := cfg.SessionDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.New(cfg.ResolveBaseURL()).WithMaxRetries(cfg.API.MaxRetries)
	store.OnTokenChange(client.SetBearer)
	return store, client, nil
}

// promptLine reads one trimmed line from stdin.
func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo. Falls back to a plain
// read when stdin is not a terminal (piped input in scripts and tests).
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return promptLineRaw()
}

func promptLineRaw() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
