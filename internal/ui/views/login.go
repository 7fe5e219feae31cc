// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/ui/components"
)

// loginField indexes the focusable elements of the login form.
type loginField int

const (
	loginEmail loginField = iota
	loginPassword
	loginRole
	loginSubmit
	loginFieldCount
)

// LoginView is the public entry form: email, password, and a role
// selector. The chosen role is sent with the credentials; participant
// and organizer accounts live in separate pools.
type LoginView struct {
	deps Deps

	email    textinput.Model
	password textinput.Model
	role     model.Role
	focus    loginField

	busy   bool
	errMsg string
}

// NewLoginView constructs the login form.
func NewLoginView(deps Deps) *LoginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	return &LoginView{
		deps:     deps,
		email:    email,
		password: password,
		role:     model.RoleParticipant,
	}
}

func (v *LoginView) Title() string { return "Login" }

func (v *LoginView) Init() tea.Cmd { return textinput.Blink }

type loginDoneMsg struct {
	result AuthenticatedMsg
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	role := v.role

	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		res, err := v.deps.Client.Login(ctx, email, password, role)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return loginDoneMsg{result: AuthenticatedMsg{Result: res}}
	}
}

func (v *LoginView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrMsg:
		v.busy = false
		v.errMsg = "Invalid email, password or role"
		return v, nil

	case loginDoneMsg:
		v.busy = false
		return v, func() tea.Msg { return msg.result }

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "tab", "down":
			v.setFocus((v.focus + 1) % loginFieldCount)
			return v, nil
		case "shift+tab", "up":
			v.setFocus((v.focus + loginFieldCount - 1) % loginFieldCount)
			return v, nil
		case "left", "right":
			if v.focus == loginRole {
				v.role = v.role.Other()
				return v, nil
			}
		case "ctrl+s":
			return v, Navigate(router.RouteSignup)
		case "enter":
			switch v.focus {
			case loginSubmit:
				if strings.TrimSpace(v.email.Value()) == "" || v.password.Value() == "" {
					v.errMsg = "Email and password are required"
					return v, nil
				}
				v.busy = true
				v.errMsg = ""
				return v, v.submit()
			default:
				v.setFocus(v.focus + 1)
				return v, nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.email, cmd = v.email.Update(msg)
	cmds = append(cmds, cmd)
	v.password, cmd = v.password.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *LoginView) setFocus(f loginField) {
	v.focus = f
	v.email.Blur()
	v.password.Blur()
	switch f {
	case loginEmail:
		v.email.Focus()
	case loginPassword:
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.FormTitle.Render("Sign in to Cohort"))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(th.FieldLabel.Render("Email") + v.email.View() + "\n")
	b.WriteString(th.FieldLabel.Render("Password") + v.password.View() + "\n")

	roleLine := th.FieldLabel.Render("Role") + v.role.Display()
	if v.focus == loginRole {
		roleLine += th.Hint.Render("  (left/right to switch)")
	}
	b.WriteString(roleLine + "\n\n")

	button := th.ButtonIdle
	if v.focus == loginSubmit {
		button = th.ButtonActive
	}
	label := "Sign in"
	if v.busy {
		label = "Signing in..."
	}
	b.WriteString(button.Render(label))
	b.WriteString("\n\n")
	b.WriteString(th.Hint.Render("ctrl+s to create an account"))

	return th.Content.Render(b.String())
}
