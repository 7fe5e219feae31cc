// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for cohort.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool

	// Role selects the account pool for login/signup: "participant"
	// (default) or "organizer".
	Role string

	// Email for login/signup; prompted for when empty.
	Email string

	// Subcommand for config (show, path).
	Subcommand string

	// Raw args remaining after flag parsing.
	Raw []string
}

const usageText = `cohort - terminal client for the cohort study platform

Cohort connects participants and organizers to the study platform
from the terminal: join studies, sign consent, browse recorded
metrics, and manage study rosters.

Usage:
  cohort                     Start TUI (default)
  cohort login               Sign in and persist the session
  cohort signup              Create an account
  cohort logout              Clear the stored session
  cohort status, s           Show session and endpoint status
  cohort config [show|path]  Configuration
  cohort version, -v         Show version
  cohort help, -h            Show this help

Flags:
  --role <participant|organizer>  Account type for login/signup
  --email <address>               Email for login/signup
  --quiet, -q                     Suppress informational output
  --verbose                       Verbose output

Environment:
  COHORT_ENV          production or development
  COHORT_API_URL      Override the API endpoint
  COHORT_SESSION_DIR  Override the session directory
`

// Usage prints the top-level help text.
func Usage() {
	fmt.Print(usageText)
}

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	args := Args{Role: "participant"}
	argv := os.Args[1:]

	cmd := CmdTUI
	rest := argv
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		switch argv[0] {
		case "tui":
			cmd = CmdTUI
		case "login":
			cmd = CmdLogin
		case "signup":
			cmd = CmdSignup
		case "logout":
			cmd = CmdLogout
		case "status", "s":
			cmd = CmdStatus
		case "config":
			cmd = CmdConfig
		case "version":
			cmd = CmdVersion
		case "help":
			cmd = CmdHelp
		default:
			fmt.Fprintf(os.Stderr, "cohort: unknown command %q\n\n", argv[0])
			Usage()
			os.Exit(2)
		}
		rest = argv[1:]
	}

	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--quiet" || arg == "-q":
			args.Quiet = true
		case arg == "--verbose":
			args.Verbose = true
		case arg == "--version" || arg == "-v":
			cmd = CmdVersion
		case arg == "--help" || arg == "-h":
			cmd = CmdHelp
		case arg == "--role":
			if i+1 < len(rest) {
				i++
				args.Role = rest[i]
			}
		case strings.HasPrefix(arg, "--role="):
			args.Role = strings.TrimPrefix(arg, "--role=")
		case arg == "--email":
			if i+1 < len(rest) {
				i++
				args.Email = rest[i]
			}
		case strings.HasPrefix(arg, "--email="):
			args.Email = strings.TrimPrefix(arg, "--email=")
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "cohort: unknown flag %q\n", arg)
			os.Exit(2)
		default:
			if cmd == CmdConfig && args.Subcommand == "" {
				args.Subcommand = arg
			} else {
				args.Raw = append(args.Raw, arg)
			}
		}
	}

	return cmd, args
}
