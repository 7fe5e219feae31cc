// cohort - terminal client for the cohort study platform.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/cli"
	"github.com/morganforge/cohort-tui/internal/config"
	"github.com/morganforge/cohort-tui/internal/session"
	"github.com/morganforge/cohort-tui/internal/storage"
	"github.com/morganforge/cohort-tui/internal/ui/app"
	"github.com/morganforge/cohort-tui/internal/ui/styles"
	"github.com/morganforge/cohort-tui/internal/ui/views"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdSignup:
		err = cli.HandleSignup(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.Usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the full client together and runs the bubbletea loop.
func runTUI(args cli.Args) error {
	cfg := config.Global()

	sessionDir, err := cfg.SessionDir()
	if err != nil {
		return err
	}
	store, err := session.NewStore(sessionDir)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.New(cfg.ResolveBaseURL()).WithMaxRetries(cfg.API.MaxRetries)
	store.OnTokenChange(client.SetBearer)

	downloadsDir, err := cfg.DownloadsDir()
	if err != nil {
		return err
	}
	downloads, err := storage.NewDownloadStoreWithDir(downloadsDir)
	if err != nil {
		return fmt.Errorf("failed to open download store: %w", err)
	}
	defer downloads.Close()

	monitor := session.NewMonitor(store, time.Duration(cfg.Session.PollIntervalSecs)*time.Second)
	monitor.Check()

	deps := views.Deps{
		Client:    client,
		Store:     store,
		Downloads: downloads,
		Theme:     styles.New(80, 24),
	}

	env := ""
	if cfg.Environment != "production" {
		env = cfg.Environment
	}

	p := tea.NewProgram(app.New(deps, monitor, env), tea.WithAltScreen())

	// Session changes reach the UI as messages. The hook can fire from
	// inside the event loop, so delivery happens off-thread.
	store.OnChange(func() {
		go p.Send(app.SessionChangedMsg{})
	})

	// Watch durable storage so login/logout in another cohort process
	// takes effect here too.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher, err := session.NewWatcher(store)
	if err == nil {
		go watcher.Run(ctx)
		defer watcher.Close()
	} else if args.Verbose {
		fmt.Fprintf(os.Stderr, "Warning: session watcher unavailable: %v\n", err)
	}

	_, err = p.Run()
	return err
}
