// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/ui/components"
)

// SignupView registers a new account. Participants supply body metrics
// used for normalization; organizers only the identity fields. The
// field list shrinks and grows with the role selector.
type SignupView struct {
	deps Deps

	inputs []textinput.Model // name, surname, email, password, weight, height, birth date
	role   model.Role
	focus  int // 0..len(visible inputs)-1, then role, then submit

	busy   bool
	errMsg string
}

const (
	suName = iota
	suSurname
	suEmail
	suPassword
	suWeight
	suHeight
	suBirthDate
	suInputCount
)

// NewSignupView constructs the signup form.
func NewSignupView(deps Deps) *SignupView {
	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}

	inputs := make([]textinput.Model, suInputCount)
	inputs[suName] = mk("first name", 60)
	inputs[suSurname] = mk("last name", 60)
	inputs[suEmail] = mk("email", 120)
	inputs[suPassword] = mk("password", 120)
	inputs[suPassword].EchoMode = textinput.EchoPassword
	inputs[suWeight] = mk("weight in kg", 8)
	inputs[suHeight] = mk("height in cm", 8)
	inputs[suBirthDate] = mk("YYYY-MM-DD", 10)
	inputs[suName].Focus()

	return &SignupView{
		deps:   deps,
		inputs: inputs,
		role:   model.RoleParticipant,
	}
}

func (v *SignupView) Title() string { return "Sign Up" }

func (v *SignupView) Init() tea.Cmd { return textinput.Blink }

// visibleInputs returns how many of the inputs apply to the role:
// organizers stop after password.
func (v *SignupView) visibleInputs() int {
	if v.role == model.RoleOrganizer {
		return suWeight
	}
	return suInputCount
}

// focusable counts inputs plus the role selector and submit button.
func (v *SignupView) focusable() int { return v.visibleInputs() + 2 }

func (v *SignupView) roleFocus() int   { return v.visibleInputs() }
func (v *SignupView) submitFocus() int { return v.visibleInputs() + 1 }

type signupDoneMsg struct {
	result AuthenticatedMsg
}

func (v *SignupView) validate() string {
	for i := 0; i < v.visibleInputs(); i++ {
		if strings.TrimSpace(v.inputs[i].Value()) == "" {
			return "All fields are required"
		}
	}
	if v.role == model.RoleParticipant {
		if _, err := strconv.ParseFloat(v.inputs[suWeight].Value(), 64); err != nil {
			return "Weight must be a number"
		}
		if _, err := strconv.ParseFloat(v.inputs[suHeight].Value(), 64); err != nil {
			return "Height must be a number"
		}
		if _, err := time.Parse("2006-01-02", v.inputs[suBirthDate].Value()); err != nil {
			return "Birth date must be YYYY-MM-DD"
		}
	}
	return ""
}

func (v *SignupView) submit() tea.Cmd {
	role := v.role
	name := strings.TrimSpace(v.inputs[suName].Value())
	surname := strings.TrimSpace(v.inputs[suSurname].Value())
	email := strings.TrimSpace(v.inputs[suEmail].Value())
	password := v.inputs[suPassword].Value()
	weight, _ := strconv.ParseFloat(v.inputs[suWeight].Value(), 64)
	height, _ := strconv.ParseFloat(v.inputs[suHeight].Value(), 64)
	birthDate := v.inputs[suBirthDate].Value()

	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		var res api.AuthResult
		var err error
		if role == model.RoleOrganizer {
			res, err = v.deps.Client.SignupOrganizer(ctx, api.OrganizerSignup{
				Name: name, Surname: surname, Email: email, Password: password,
			})
		} else {
			res, err = v.deps.Client.SignupParticipant(ctx, api.ParticipantSignup{
				Name: name, Surname: surname, Email: email, Password: password,
				WeightKg: weight, HeightCm: height, BirthDate: birthDate,
			})
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return signupDoneMsg{result: AuthenticatedMsg{Result: res}}
	}
}

func (v *SignupView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrMsg:
		v.busy = false
		v.errMsg = msg.Err.Error()
		return v, nil

	case signupDoneMsg:
		v.busy = false
		return v, func() tea.Msg { return msg.result }

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "tab", "down":
			v.setFocus((v.focus + 1) % v.focusable())
			return v, nil
		case "shift+tab", "up":
			v.setFocus((v.focus + v.focusable() - 1) % v.focusable())
			return v, nil
		case "left", "right":
			if v.focus == v.roleFocus() {
				v.role = v.role.Other()
				// The selector's index moves when the field list
				// shrinks or grows; keep it focused.
				v.setFocus(v.roleFocus())
				return v, nil
			}
		case "esc":
			return v, Navigate(router.RouteLogin)
		case "enter":
			if v.focus == v.submitFocus() {
				if problem := v.validate(); problem != "" {
					v.errMsg = problem
					return v, nil
				}
				v.busy = true
				v.errMsg = ""
				return v, v.submit()
			}
			v.setFocus(v.focus + 1)
			return v, nil
		}
	}

	var cmds []tea.Cmd
	for i := range v.inputs {
		var cmd tea.Cmd
		v.inputs[i], cmd = v.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return v, tea.Batch(cmds...)
}

func (v *SignupView) setFocus(f int) {
	v.focus = f
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	if f < v.visibleInputs() {
		v.inputs[f].Focus()
	}
}

var signupLabels = [suInputCount]string{
	"First name", "Last name", "Email", "Password",
	"Weight (kg)", "Height (cm)", "Birth date",
}

func (v *SignupView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.FormTitle.Render("Create a Cohort account"))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg))
		b.WriteString("\n\n")
	}

	roleLine := th.FieldLabel.Render("Role") + v.role.Display()
	if v.focus == v.roleFocus() {
		roleLine += th.Hint.Render("  (left/right to switch)")
	}
	b.WriteString(roleLine + "\n")

	for i := 0; i < v.visibleInputs(); i++ {
		b.WriteString(th.FieldLabel.Render(signupLabels[i]) + v.inputs[i].View() + "\n")
	}
	b.WriteString("\n")

	button := th.ButtonIdle
	if v.focus == v.submitFocus() {
		button = th.ButtonActive
	}
	label := "Create account"
	if v.busy {
		label = "Creating..."
	}
	b.WriteString(button.Render(label))
	b.WriteString("\n\n")
	b.WriteString(th.Hint.Render("esc to return to login"))

	return th.Content.Render(b.String())
}
