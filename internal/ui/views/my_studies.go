// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/ui/components"
	"github.com/morganforge/cohort-tui/internal/util"
)

// MyStudiesView lists the studies the participant has joined, with the
// option to withdraw.
type MyStudiesView struct {
	deps Deps

	studies []model.StudyOverview
	cursor  int

	loading bool
	spin    spinner.Model
	errMsg  string

	confirmLeave bool
}

// NewMyStudiesView constructs the joined-studies list.
func NewMyStudiesView(deps Deps) *MyStudiesView {
	return &MyStudiesView{
		deps:    deps,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (v *MyStudiesView) Title() string { return "My Studies" }

type joinedStudiesMsg struct {
	studies []model.StudyOverview
}

type leftStudyMsg struct{}

func (v *MyStudiesView) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		studies, err := v.deps.Client.JoinedStudies(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return joinedStudiesMsg{studies: studies}
	}
}

func (v *MyStudiesView) leaveSelected() tea.Cmd {
	id := v.studies[v.cursor].ID
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		if err := v.deps.Client.LeaveStudy(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return leftStudyMsg{}
	}
}

func (v *MyStudiesView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, v.load())
}

func (v *MyStudiesView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case joinedStudiesMsg:
		v.loading = false
		v.studies = msg.studies
		if v.cursor >= len(v.studies) {
			v.cursor = 0
		}
		return v, nil

	case leftStudyMsg:
		v.confirmLeave = false
		v.loading = true
		return v, v.load()

	case ErrMsg:
		v.loading = false
		v.confirmLeave = false
		v.errMsg = msg.Err.Error()
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.confirmLeave = false
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			v.confirmLeave = false
			if v.cursor < len(v.studies)-1 {
				v.cursor++
			}
		case "n":
			return v, Navigate(router.RouteJoinStudy)
		case "r":
			v.loading = true
			v.errMsg = ""
			return v, tea.Batch(v.spin.Tick, v.load())
		case "d":
			if len(v.studies) > 0 {
				v.confirmLeave = true
			}
		case "y":
			if v.confirmLeave {
				return v, v.leaveSelected()
			}
		case "esc":
			v.confirmLeave = false
		}
	}
	return v, nil
}

func (v *MyStudiesView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render("Studies you joined"))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.spin.View() + " Loading your studies...\n")
	case len(v.studies) == 0:
		b.WriteString(th.Hint.Render("You have not joined any studies. Press n to join one.") + "\n")
	default:
		for i, s := range v.studies {
			line := fmt.Sprintf("%s  %s to %s  %s",
				util.PadRight(util.TruncateWidth(s.Name, 32), 32),
				s.StartDate.Format("2006-01-02"),
				s.EndDate.Format("2006-01-02"),
				components.StatusBadge(th, s.Status),
			)
			if i == v.cursor {
				b.WriteString(th.ListItemSelected.Render() + line + "\n")
			} else {
				b.WriteString(th.ListItem.Render(line) + "\n")
			}
		}
	}

	if v.confirmLeave && len(v.studies) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ErrorBanner(th,
			fmt.Sprintf("Withdraw from %q? y to confirm, esc to cancel", v.studies[v.cursor].Name)))
	}

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("n join a study  d withdraw  r refresh"))
	return th.Content.Render(b.String())
}
