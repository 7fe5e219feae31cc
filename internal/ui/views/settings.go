// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/config"
	"github.com/morganforge/cohort-tui/internal/ui/components"
)

// SettingsView shows the signed-in account, the effective client
// configuration, and the logout and account-deletion actions. The same
// view serves both roles; the account endpoint differs per role and the
// client picks it from the session.
type SettingsView struct {
	deps Deps

	account *api.Account
	errMsg  string

	confirmDelete bool
	busy          bool
}

// NewSettingsView constructs the settings screen.
func NewSettingsView(deps Deps) *SettingsView {
	return &SettingsView{deps: deps}
}

func (v *SettingsView) Title() string { return "Settings" }

type accountMsg struct {
	account api.Account
}

type accountDeletedMsg struct{}

func (v *SettingsView) loadAccount() tea.Cmd {
	role := v.deps.Store.Current().Role
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		acct, err := v.deps.Client.Me(ctx, role)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return accountMsg{account: acct}
	}
}

func (v *SettingsView) deleteAccount() tea.Cmd {
	role := v.deps.Store.Current().Role
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		if err := v.deps.Client.DeleteAccount(ctx, role); err != nil {
			return ErrMsg{Err: err}
		}
		return accountDeletedMsg{}
	}
}

func (v *SettingsView) Init() tea.Cmd { return v.loadAccount() }

func (v *SettingsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case accountMsg:
		v.account = &msg.account
		return v, nil

	case accountDeletedMsg:
		// The account is gone; the local session follows it.
		return v, func() tea.Msg { return LogoutMsg{} }

	case ErrMsg:
		v.busy = false
		v.confirmDelete = false
		v.errMsg = msg.Err.Error()
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "l":
			return v, func() tea.Msg { return LogoutMsg{} }
		case "D":
			v.confirmDelete = true
		case "y":
			if v.confirmDelete {
				v.busy = true
				return v, v.deleteAccount()
			}
		case "esc":
			if v.confirmDelete {
				v.confirmDelete = false
				return v, nil
			}
		}
	}
	return v, nil
}

func (v *SettingsView) View() string {
	th := v.deps.Theme
	cfg := config.Global()
	sess := v.deps.Store.Current()
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render("Account"))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n")
	}

	if v.account != nil {
		b.WriteString(th.Label.Render("Name  ") + th.Value.Render(v.account.Name+" "+v.account.Surname) + "\n")
		b.WriteString(th.Label.Render("Email ") + th.Value.Render(v.account.Email) + "\n")
	} else {
		b.WriteString(th.Label.Render("Name  ") + th.Value.Render(sess.DisplayName) + "\n")
	}
	b.WriteString(th.Label.Render("Role  ") + th.Value.Render(sess.Role.Display()) + "\n\n")

	b.WriteString(th.SectionTitle.Render("Client"))
	b.WriteString("\n")
	b.WriteString(th.Label.Render("Environment ") + th.Value.Render(cfg.Environment) + "\n")
	b.WriteString(th.Label.Render("API         ") + th.Value.Render(v.deps.Client.BaseURL()) + "\n")
	b.WriteString(th.Label.Render("Session dir ") + th.Value.Render(v.deps.Store.Dir()) + "\n")
	b.WriteString(th.Label.Render("Downloads   ") + th.Value.Render(v.deps.Downloads.BaseDir) + "\n")

	if v.confirmDelete {
		b.WriteString("\n")
		b.WriteString(components.ErrorBanner(th,
			"Permanently delete this account and all its data? y to confirm, esc to cancel"))
	}

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("l log out  D delete account"))
	return th.Content.Render(b.String())
}
