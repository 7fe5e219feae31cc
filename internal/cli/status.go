// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - session/endpoint status and config inspection.
package cli

import (
	"fmt"
	"time"

	"github.com/morganforge/cohort-tui/internal/config"
	"github.com/morganforge/cohort-tui/internal/session"
)

// HandleStatus prints the session and endpoint state.
func HandleStatus(args Args) error {
	cfg := config.Global()
	store, client, err := openSession()
	if err != nil {
		return err
	}

	fmt.Printf("Environment: %s\n", cfg.Environment)
	fmt.Printf("API:         %s\n", client.BaseURL())
	fmt.Printf("Session dir: %s\n", store.Dir())

	sess := store.Current()
	if !sess.Authenticated() {
		fmt.Println("Session:     not signed in")
		return nil
	}

	fmt.Printf("Session:     %s (%s)\n", sess.DisplayName, sess.Role.Display())
	exp, err := session.TokenExpiry(sess.Token)
	switch {
	case err != nil:
		fmt.Println("Token:       unreadable (will be cleared on next check)")
	case time.Now().After(exp):
		fmt.Printf("Token:       expired %s\n", exp.Local().Format(time.RFC1123))
	default:
		fmt.Printf("Token:       valid until %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// HandleConfig prints the effective configuration or its path.
func HandleConfig(args Args) error {
	cfg := config.Global()

	switch args.Subcommand {
	case "", "show":
		fmt.Printf("environment            = %q\n", cfg.Environment)
		fmt.Printf("api.base_url           = %q\n", cfg.ResolveBaseURL())
		fmt.Printf("api.max_retries        = %d\n", cfg.API.MaxRetries)
		dir, _ := cfg.SessionDir()
		fmt.Printf("session.dir            = %q\n", dir)
		fmt.Printf("session.poll_interval  = %ds\n", cfg.Session.PollIntervalSecs)
		downloads, _ := cfg.DownloadsDir()
		fmt.Printf("ui.downloads_dir       = %q\n", downloads)
		fmt.Printf("ui.compact_mode        = %t\n", cfg.UI.CompactMode)
		return nil
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q (want show or path)", args.Subcommand)
	}
}

// HandleVersion prints build information.
func HandleVersion(args Args) {
	fmt.Printf("cohort %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
