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

// OrganizerStudiesView lists the organizer's studies with their join
// codes and enrollment counts.
type OrganizerStudiesView struct {
	deps Deps

	studies []model.Study
	cursor  int

	loading bool
	spin    spinner.Model
	errMsg  string

	confirmDelete bool
}

// NewOrganizerStudiesView constructs the organizer study list.
func NewOrganizerStudiesView(deps Deps) *OrganizerStudiesView {
	return &OrganizerStudiesView{
		deps:    deps,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (v *OrganizerStudiesView) Title() string { return "Studies" }

type organizerStudiesMsg struct {
	studies []model.Study
}

type studyDeletedMsg struct {
	id string
}

func (v *OrganizerStudiesView) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		studies, err := v.deps.Client.Studies(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return organizerStudiesMsg{studies: studies}
	}
}

func (v *OrganizerStudiesView) deleteSelected() tea.Cmd {
	id := v.studies[v.cursor].ID
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		if err := v.deps.Client.DeleteStudy(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return studyDeletedMsg{id: id}
	}
}

func (v *OrganizerStudiesView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, v.load())
}

func (v *OrganizerStudiesView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case organizerStudiesMsg:
		v.loading = false
		v.studies = msg.studies
		if v.cursor >= len(v.studies) {
			v.cursor = 0
		}
		return v, nil

	case studyDeletedMsg:
		v.confirmDelete = false
		v.loading = true
		return v, v.load()

	case ErrMsg:
		v.loading = false
		v.confirmDelete = false
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
			v.confirmDelete = false
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			v.confirmDelete = false
			if v.cursor < len(v.studies)-1 {
				v.cursor++
			}
		case "n":
			return v, Navigate(router.RouteCreateStudy)
		case "r":
			v.loading = true
			v.errMsg = ""
			return v, tea.Batch(v.spin.Tick, v.load())
		case "enter":
			if len(v.studies) > 0 {
				return v, tea.Batch(
					SelectStudy(v.studies[v.cursor]),
					Navigate(router.RouteStudyDetails),
				)
			}
		case "d":
			if len(v.studies) > 0 {
				v.confirmDelete = true
			}
		case "y":
			if v.confirmDelete {
				return v, v.deleteSelected()
			}
		case "esc":
			if v.confirmDelete {
				v.confirmDelete = false
			}
		}
	}
	return v, nil
}

func (v *OrganizerStudiesView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render("Your studies"))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.spin.View() + " Loading studies...\n")
	case len(v.studies) == 0:
		b.WriteString(th.Hint.Render("No studies yet. Press n to create one.") + "\n")
	default:
		for i, s := range v.studies {
			line := fmt.Sprintf("%s  %s  %s  %s",
				util.PadRight(util.TruncateWidth(s.Name, 32), 32),
				util.PadRight("code "+s.Code, 14),
				util.PadRight(fmt.Sprintf("%d %s", s.NumParticipants,
					util.Pluralize(s.NumParticipants, "participant", "participants")), 18),
				components.StatusBadge(th, s.Status()),
			)
			if i == v.cursor {
				b.WriteString(th.ListItemSelected.Render() + line + "\n")
			} else {
				b.WriteString(th.ListItem.Render(line) + "\n")
			}
		}
	}

	if v.confirmDelete && len(v.studies) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ErrorBanner(th,
			fmt.Sprintf("Delete %q and all enrollment data? y to confirm, esc to cancel", v.studies[v.cursor].Name)))
	}

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("enter details  n new  d delete  r refresh"))
	return th.Content.Render(b.String())
}
