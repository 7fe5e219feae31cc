// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/ui/components"
)

const (
	csName = iota
	csStartDate
	csEndDate
	csDuration
	csDescription
	csInclusion
	csConsent
	csMetrics
	csInputCount
)

var createStudyLabels = [csInputCount]string{
	"Name", "Start date", "End date", "Duration",
	"Description", "Inclusion criteria", "Informed consent", "Metrics",
}

// CreateStudyView is the organizer's study creation form. Dates are
// entered as YYYY-MM-DD, the participation window as an ISO-8601
// day/hour duration, and the two document fields as markdown.
type CreateStudyView struct {
	deps Deps

	inputs  []textinput.Model
	metrics []model.Metric // available metrics, fetched on init
	focus   int            // inputs, then submit

	busy    bool
	errMsg  string
	created *model.Study
}

// NewCreateStudyView constructs the creation form.
func NewCreateStudyView(deps Deps) *CreateStudyView {
	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}

	inputs := make([]textinput.Model, csInputCount)
	inputs[csName] = mk("study name", 120)
	inputs[csStartDate] = mk("YYYY-MM-DD", 10)
	inputs[csEndDate] = mk("YYYY-MM-DD", 10)
	inputs[csDuration] = mk("e.g. P3DT3H", 20)
	inputs[csDescription] = mk("short description", 500)
	inputs[csInclusion] = mk("markdown inclusion criteria", 4000)
	inputs[csConsent] = mk("markdown informed consent", 8000)
	inputs[csMetrics] = mk("comma-separated metric names", 200)
	inputs[csName].Focus()

	return &CreateStudyView{deps: deps, inputs: inputs}
}

func (v *CreateStudyView) Title() string { return "Create Study" }

type metricsLoadedMsg struct {
	metrics []model.Metric
}

type studyCreatedMsg struct {
	study model.Study
}

func (v *CreateStudyView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		metrics, err := v.deps.Client.Metrics(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return metricsLoadedMsg{metrics: metrics}
	})
}

func (v *CreateStudyView) submitFocus() int { return csInputCount }

// resolveMetricIDs maps the comma-separated metric names to IDs from
// the fetched metric catalog. Unknown names are an input error.
func (v *CreateStudyView) resolveMetricIDs() ([]string, error) {
	raw := strings.Split(v.inputs[csMetrics].Value(), ",")
	var ids []string
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, m := range v.metrics {
			if strings.EqualFold(m.Name, name) {
				ids = append(ids, m.ID)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one metric is required")
	}
	return ids, nil
}

func (v *CreateStudyView) buildRequest() (api.CreateStudyRequest, error) {
	var req api.CreateStudyRequest

	req.Name = strings.TrimSpace(v.inputs[csName].Value())
	if req.Name == "" {
		return req, fmt.Errorf("name is required")
	}

	start, err := time.Parse("2006-01-02", v.inputs[csStartDate].Value())
	if err != nil {
		return req, fmt.Errorf("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", v.inputs[csEndDate].Value())
	if err != nil {
		return req, fmt.Errorf("end date must be YYYY-MM-DD")
	}
	if !start.Before(end) {
		return req, fmt.Errorf("start date must precede end date")
	}
	req.StartDate = start.Format("2006-01-02T15:04:05")
	req.EndDate = end.Format("2006-01-02T15:04:05")

	dur := strings.TrimSpace(v.inputs[csDuration].Value())
	if _, _, err := model.ParseISODuration(dur); err != nil {
		return req, fmt.Errorf("duration must be ISO-8601 days/hours, e.g. P3DT3H")
	}
	req.Duration = dur

	req.Description = strings.TrimSpace(v.inputs[csDescription].Value())
	req.InclusionCriteria = v.inputs[csInclusion].Value()
	req.InformedConsent = v.inputs[csConsent].Value()
	if req.Description == "" || req.InclusionCriteria == "" || req.InformedConsent == "" {
		return req, fmt.Errorf("description, inclusion criteria, and informed consent are required")
	}

	req.Metrics, err = v.resolveMetricIDs()
	return req, err
}

func (v *CreateStudyView) submit(req api.CreateStudyRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		study, err := v.deps.Client.CreateStudy(ctx, req)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return studyCreatedMsg{study: study}
	}
}

func (v *CreateStudyView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case metricsLoadedMsg:
		v.metrics = msg.metrics
		return v, nil

	case studyCreatedMsg:
		v.busy = false
		v.created = &msg.study
		return v, nil

	case ErrMsg:
		v.busy = false
		v.errMsg = msg.Err.Error()
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		if v.created != nil {
			// Post-creation: any key returns to the study list.
			return v, Navigate(router.RouteStudies)
		}
		switch msg.String() {
		case "tab", "down":
			v.setFocus((v.focus + 1) % (csInputCount + 1))
			return v, nil
		case "shift+tab", "up":
			v.setFocus((v.focus + csInputCount) % (csInputCount + 1))
			return v, nil
		case "esc":
			return v, Navigate(router.RouteStudies)
		case "enter":
			if v.focus == v.submitFocus() {
				req, err := v.buildRequest()
				if err != nil {
					v.errMsg = err.Error()
					return v, nil
				}
				v.busy = true
				v.errMsg = ""
				return v, v.submit(req)
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

func (v *CreateStudyView) setFocus(f int) {
	v.focus = f
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	if f < csInputCount {
		v.inputs[f].Focus()
	}
}

func (v *CreateStudyView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	if v.created != nil {
		b.WriteString(components.SuccessBanner(th,
			fmt.Sprintf("Study %q created. Join code: %s", v.created.Name, v.created.Code)))
		b.WriteString("\n\n")
		b.WriteString(th.Hint.Render("press any key to return to your studies"))
		return th.Content.Render(b.String())
	}

	b.WriteString(th.FormTitle.Render("Create a study"))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n\n")
	}

	for i := range v.inputs {
		b.WriteString(th.FieldLabel.Render(createStudyLabels[i]) + v.inputs[i].View() + "\n")
	}

	if len(v.metrics) > 0 {
		names := make([]string, len(v.metrics))
		for i, m := range v.metrics {
			names[i] = m.Name
		}
		b.WriteString(th.Hint.Render("available metrics: "+strings.Join(names, ", ")) + "\n")
	}
	b.WriteString("\n")

	button := th.ButtonIdle
	if v.focus == v.submitFocus() {
		button = th.ButtonActive
	}
	label := "Create study"
	if v.busy {
		label = "Creating..."
	}
	b.WriteString(button.Render(label))

	return th.Content.Render(b.String())
}
