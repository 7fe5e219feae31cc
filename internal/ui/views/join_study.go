// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/ui/components"
)

// joinStep tracks the three-stage join flow: look up the study by its
// code, review the study documents, sign the consent.
type joinStep int

const (
	joinEnterCode joinStep = iota
	joinReview
	joinSign
)

// JoinStudyView is the participant's enrollment flow. The study's
// inclusion criteria and informed consent are organizer-authored
// markdown, rendered for review; enrollment requires a typed signature
// that is embedded in the submitted consent document.
type JoinStudyView struct {
	deps Deps

	step      joinStep
	code      textinput.Model
	signature textinput.Model

	study    model.Study
	rendered string // glamour-rendered study documents

	busy   bool
	errMsg string
}

// NewJoinStudyView constructs the join flow.
func NewJoinStudyView(deps Deps) *JoinStudyView {
	code := textinput.New()
	code.Placeholder = "study code"
	code.CharLimit = 16
	code.Focus()

	signature := textinput.New()
	signature.Placeholder = "type your full name to sign"
	signature.CharLimit = 120

	return &JoinStudyView{deps: deps, code: code, signature: signature}
}

func (v *JoinStudyView) Title() string { return "Join Study" }

func (v *JoinStudyView) Init() tea.Cmd { return textinput.Blink }

type studyFoundMsg struct {
	study    model.Study
	rendered string
}

type joinedMsg struct{}

func (v *JoinStudyView) lookup() tea.Cmd {
	code := strings.TrimSpace(v.code.Value())
	width := v.deps.Theme.Width - 8
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		study, err := v.deps.Client.StudyByCode(ctx, code)
		if err != nil {
			return ErrMsg{Err: err}
		}

		doc := "# " + study.Name + "\n\n" + study.Description + "\n\n" +
			study.InclusionCriteria + "\n\n" + study.InformedConsent
		rendered, err := renderMarkdown(doc, width)
		if err != nil {
			// Fall back to the raw markdown rather than blocking the flow.
			rendered = doc
		}
		return studyFoundMsg{study: study, rendered: rendered}
	}
}

// renderMarkdown renders organizer-authored markdown for the terminal.
func renderMarkdown(doc string, width int) (string, error) {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(doc)
}

// signedConsent builds the consent document that is submitted: the
// consent text, the typed signature, and a timestamp, base64-encoded
// the way the platform expects uploaded consent files.
func signedConsent(study model.Study, signature string, signedAt time.Time) string {
	doc := fmt.Sprintf("%s\n\n---\nSigned by: %s\nStudy: %s (%s)\nDate: %s\n",
		study.InformedConsent, signature, study.Name, study.Code,
		signedAt.Format(time.RFC3339))
	return base64.StdEncoding.EncodeToString([]byte(doc))
}

func (v *JoinStudyView) join() tea.Cmd {
	study := v.study
	consent := signedConsent(study, strings.TrimSpace(v.signature.Value()), time.Now())
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		if err := v.deps.Client.JoinStudy(ctx, study.ID, consent); err != nil {
			return ErrMsg{Err: err}
		}
		return joinedMsg{}
	}
}

func (v *JoinStudyView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case studyFoundMsg:
		v.busy = false
		v.study = msg.study
		v.rendered = msg.rendered
		v.step = joinReview
		return v, nil

	case joinedMsg:
		v.busy = false
		return v, Navigate(router.RouteMyStudies)

	case ErrMsg:
		v.busy = false
		v.errMsg = msg.Err.Error()
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch v.step {
		case joinEnterCode:
			switch msg.String() {
			case "enter":
				if strings.TrimSpace(v.code.Value()) == "" {
					v.errMsg = "Enter the study code you were given"
					return v, nil
				}
				v.busy = true
				v.errMsg = ""
				return v, v.lookup()
			case "esc":
				return v, Navigate(router.RouteMyStudies)
			}

		case joinReview:
			switch msg.String() {
			case "enter":
				v.step = joinSign
				v.code.Blur()
				v.signature.Focus()
				return v, textinput.Blink
			case "esc":
				v.step = joinEnterCode
				return v, nil
			}

		case joinSign:
			switch msg.String() {
			case "enter":
				if strings.TrimSpace(v.signature.Value()) == "" {
					v.errMsg = "A signature is required to give consent"
					return v, nil
				}
				v.busy = true
				v.errMsg = ""
				return v, v.join()
			case "esc":
				v.step = joinReview
				return v, nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.code, cmd = v.code.Update(msg)
	cmds = append(cmds, cmd)
	v.signature, cmd = v.signature.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *JoinStudyView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n\n")
	}

	switch v.step {
	case joinEnterCode:
		b.WriteString(th.FormTitle.Render("Join a study") + "\n\n")
		b.WriteString(th.FieldLabel.Render("Study code") + v.code.View() + "\n\n")
		label := "enter to look up the study  esc back"
		if v.busy {
			label = "Looking up study..."
		}
		b.WriteString(th.Hint.Render(label))

	case joinReview:
		b.WriteString(v.rendered)
		b.WriteString("\n")
		if d := model.DisplayDuration(v.study.Duration); d != "" {
			b.WriteString(th.Label.Render("Participation window: ") + th.Value.Render(d) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(th.Hint.Render("enter to continue to consent  esc back"))

	case joinSign:
		b.WriteString(th.FormTitle.Render("Informed consent") + "\n\n")
		b.WriteString(th.Value.Render("By signing you confirm that you have read the informed") + "\n")
		b.WriteString(th.Value.Render("consent for "+v.study.Name+" and agree to participate.") + "\n\n")
		b.WriteString(th.FieldLabel.Render("Signature") + v.signature.View() + "\n\n")
		label := "enter to sign and join  esc back"
		if v.busy {
			label = "Joining study..."
		}
		b.WriteString(th.Hint.Render(label))
	}

	return th.Content.Render(b.String())
}
