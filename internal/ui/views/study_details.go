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
	"github.com/morganforge/cohort-tui/internal/storage"
	"github.com/morganforge/cohort-tui/internal/ui/components"
)

// StudyDetailsView shows one study to its organizer: the enrollment
// roster, participant removal, and the signed consent archive. Opening
// a roster entry leads to that participant's data.
type StudyDetailsView struct {
	deps Deps

	study        model.Study
	participants []model.Participant
	cursor       int

	loading bool
	spin    spinner.Model
	errMsg  string
	notice  string

	confirmRemove bool
}

// NewStudyDetailsView constructs the details view for one study.
func NewStudyDetailsView(deps Deps, study model.Study) *StudyDetailsView {
	return &StudyDetailsView{
		deps:    deps,
		study:   study,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (v *StudyDetailsView) Title() string { return "Study Details" }

type participantsMsg struct {
	participants []model.Participant
}

type artifactSavedMsg struct {
	rec storage.Record
}

type participantRemovedMsg struct{}

func (v *StudyDetailsView) loadParticipants() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		ps, err := v.deps.Client.Participants(ctx, v.study.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return participantsMsg{participants: ps}
	}
}

func (v *StudyDetailsView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, v.loadParticipants())
}

// downloadConsents fetches the signed consent archive and records it in
// the download ledger.
func (v *StudyDetailsView) downloadConsents() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		data, err := v.deps.Client.DownloadSignedConsents(ctx, v.study.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		rec, err := v.deps.Downloads.Save(storage.Record{
			StudyID: v.study.ID,
			Kind:    storage.KindConsentArchive,
		}, fmt.Sprintf("study_%s_consents.zip", v.study.Code), data)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return artifactSavedMsg{rec: rec}
	}
}

func (v *StudyDetailsView) removeSelected() tea.Cmd {
	p := v.participants[v.cursor]
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		if err := v.deps.Client.RemoveParticipant(ctx, v.study.ID, p.ParticipantNum); err != nil {
			return ErrMsg{Err: err}
		}
		return participantRemovedMsg{}
	}
}

func (v *StudyDetailsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case participantsMsg:
		v.loading = false
		v.participants = msg.participants
		if v.cursor >= len(v.participants) {
			v.cursor = 0
		}
		return v, nil

	case artifactSavedMsg:
		v.notice = "Saved " + msg.rec.Path
		return v, nil

	case participantRemovedMsg:
		v.confirmRemove = false
		v.loading = true
		return v, tea.Batch(v.spin.Tick, v.loadParticipants())

	case ErrMsg:
		v.loading = false
		v.confirmRemove = false
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
		v.notice = ""
		switch msg.String() {
		case "up", "k":
			v.confirmRemove = false
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			v.confirmRemove = false
			if v.cursor < len(v.participants)-1 {
				v.cursor++
			}
		case "enter":
			if len(v.participants) > 0 {
				return v, tea.Batch(
					SelectParticipant(v.study, v.participants[v.cursor]),
					Navigate(router.RouteParticipantDetails),
				)
			}
		case "c":
			return v, v.downloadConsents()
		case "x":
			if len(v.participants) > 0 {
				v.confirmRemove = true
			}
		case "y":
			if v.confirmRemove {
				return v, v.removeSelected()
			}
		case "r":
			v.loading = true
			v.errMsg = ""
			return v, tea.Batch(v.spin.Tick, v.loadParticipants())
		case "esc":
			if v.confirmRemove {
				v.confirmRemove = false
				return v, nil
			}
			return v, Navigate(router.RouteStudies)
		}
	}
	return v, nil
}

func (v *StudyDetailsView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render(v.study.Name))
	b.WriteString("\n")
	b.WriteString(th.Label.Render("Code ") + th.Value.Render(v.study.Code))
	b.WriteString(th.Label.Render("   Window ") + th.Value.Render(
		v.study.StartDate.Format("2006-01-02")+" to "+v.study.EndDate.Format("2006-01-02")))
	if d := model.DisplayDuration(v.study.Duration); d != "" {
		b.WriteString(th.Label.Render("   Participation ") + th.Value.Render(d))
	}
	b.WriteString("  " + components.StatusBadge(th, v.study.Status()))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n")
	}
	if v.notice != "" {
		b.WriteString(components.SuccessBanner(th, v.notice) + "\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.spin.View() + " Loading participants...\n")
	case len(v.participants) == 0:
		b.WriteString(th.Hint.Render("No participants enrolled yet.") + "\n")
	default:
		for i, p := range v.participants {
			line := fmt.Sprintf("#%-4d %s to %s  %s",
				p.ParticipantNum,
				p.StartDate.Format("2006-01-02"),
				p.EndDate.Format("2006-01-02"),
				p.Status)
			if i == v.cursor {
				b.WriteString(th.ListItemSelected.Render() + line + "\n")
			} else {
				b.WriteString(th.ListItem.Render(line) + "\n")
			}
		}
	}

	if v.confirmRemove && len(v.participants) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ErrorBanner(th,
			fmt.Sprintf("Remove participant #%d from the study? y to confirm, esc to cancel",
				v.participants[v.cursor].ParticipantNum)))
	}

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("enter participant data  c consent archive  x remove  r refresh  esc back"))
	return th.Content.Render(b.String())
}
