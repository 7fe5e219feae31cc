// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/cohort-tui/internal/api"
	"github.com/morganforge/cohort-tui/internal/model"
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/storage"
	"github.com/morganforge/cohort-tui/internal/ui/components"
	"github.com/morganforge/cohort-tui/internal/util"
)

// ParticipantDetailsView shows one participant's recorded data to the
// study organizer: rendered metric charts over the participation
// window, plus raw CSV export. Charts are labeled in the viewer's
// timezone, not the participant's.
type ParticipantDetailsView struct {
	deps Deps

	study       model.Study
	participant model.Participant
	metricIdx   int // selected metric within study.Metrics

	busy   bool
	errMsg string
	notice string

	chart *api.MetricChart
}

// NewParticipantDetailsView constructs the view for one roster entry.
func NewParticipantDetailsView(deps Deps, study model.Study, p model.Participant) *ParticipantDetailsView {
	return &ParticipantDetailsView{deps: deps, study: study, participant: p}
}

func (v *ParticipantDetailsView) Title() string { return "Participant" }

func (v *ParticipantDetailsView) Init() tea.Cmd { return nil }

type chartMsg struct {
	chart api.MetricChart
}

// fetchChart renders the participant's metric over their participation
// window.
func (v *ParticipantDetailsView) fetchChart() tea.Cmd {
	p := v.participant
	metric := v.study.Metrics[v.metricIdx]
	_, tzOffset := time.Now().Zone()
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		chart, err := v.deps.Client.ParticipantChart(ctx, v.study.ID, p.ParticipantNum,
			metric.Name, p.StartDate, p.EndDate, tzOffset)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return chartMsg{chart: chart}
	}
}

// saveChart decodes the current chart image and stores it as a PNG.
func (v *ParticipantDetailsView) saveChart() tea.Cmd {
	chart := *v.chart
	p := v.participant
	metric := v.study.Metrics[v.metricIdx]
	return func() tea.Msg {
		img, err := base64.StdEncoding.DecodeString(chart.Image)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("chart image is not valid base64: %w", err)}
		}
		rec, err := v.deps.Downloads.Save(storage.Record{
			StudyID:        v.study.ID,
			ParticipantNum: p.ParticipantNum,
			Metric:         metric.Name,
			Kind:           storage.KindChartImage,
		}, fmt.Sprintf("study_%s_p%d_%s.png", v.study.Code, p.ParticipantNum, slugMetric(metric.Name)), img)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return artifactSavedMsg{rec: rec}
	}
}

// downloadMetric fetches the participant's raw samples for the selected
// metric as CSV.
func (v *ParticipantDetailsView) downloadMetric() tea.Cmd {
	p := v.participant
	metric := v.study.Metrics[v.metricIdx]
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		data, err := v.deps.Client.DownloadParticipantMetric(ctx, v.study.ID, p.ParticipantNum, metric.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		rec, err := v.deps.Downloads.Save(storage.Record{
			StudyID:        v.study.ID,
			ParticipantNum: p.ParticipantNum,
			Metric:         metric.Name,
			Kind:           storage.KindMetricCSV,
		}, fmt.Sprintf("study_%s_p%d_%s.csv", v.study.Code, p.ParticipantNum, slugMetric(metric.Name)), data)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return artifactSavedMsg{rec: rec}
	}
}

func (v *ParticipantDetailsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case chartMsg:
		v.busy = false
		v.chart = &msg.chart
		return v, nil

	case artifactSavedMsg:
		v.busy = false
		v.notice = "Saved " + msg.rec.Path
		return v, nil

	case ErrMsg:
		v.busy = false
		v.errMsg = msg.Err.Error()
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		v.notice = ""
		switch msg.String() {
		case "left", "right":
			if n := len(v.study.Metrics); n > 0 {
				if msg.String() == "right" {
					v.metricIdx = (v.metricIdx + 1) % n
				} else {
					v.metricIdx = (v.metricIdx + n - 1) % n
				}
				v.chart = nil
			}
		case "g":
			if len(v.study.Metrics) > 0 {
				v.busy = true
				v.errMsg = ""
				return v, v.fetchChart()
			}
		case "s":
			if v.chart != nil {
				v.busy = true
				return v, v.saveChart()
			}
		case "m":
			if len(v.study.Metrics) > 0 {
				v.busy = true
				v.errMsg = ""
				return v, v.downloadMetric()
			}
		case "esc":
			return v, tea.Batch(
				SelectStudy(v.study),
				Navigate(router.RouteStudyDetails),
			)
		}
	}
	return v, nil
}

func (v *ParticipantDetailsView) View() string {
	th := v.deps.Theme
	p := v.participant
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render(fmt.Sprintf("%s - participant #%d", v.study.Name, p.ParticipantNum)))
	b.WriteString("\n")
	b.WriteString(th.Label.Render("Window ") + th.Value.Render(
		p.StartDate.Format("2006-01-02")+" to "+p.EndDate.Format("2006-01-02")))
	if p.Status != "" {
		b.WriteString(th.Label.Render("   Status ") + th.Value.Render(p.Status))
	}
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n")
	}
	if v.notice != "" {
		b.WriteString(components.SuccessBanner(th, v.notice) + "\n")
	}

	if len(v.study.Metrics) == 0 {
		b.WriteString(th.Hint.Render("This study records no metrics.") + "\n")
	} else {
		metric := v.study.Metrics[v.metricIdx]
		b.WriteString(th.Label.Render("Metric ") + th.Value.Render(metric.Name) +
			th.Hint.Render("  (left/right to switch)") + "\n\n")

		switch {
		case v.busy:
			b.WriteString(th.Hint.Render("Working...") + "\n")
		case v.chart != nil:
			b.WriteString(th.SectionTitle.Render(v.chart.Title) + "\n")
			b.WriteString(fmt.Sprintf("mean %.1f  median %.1f  min %.0f  max %.0f  std %.1f\n",
				v.chart.Mean, v.chart.Median, v.chart.Min, v.chart.Max, v.chart.Std))
			b.WriteString(th.Hint.Render(util.TruncateWidth(v.chart.Alt, 3*th.Width)) + "\n")
			b.WriteString(th.Hint.Render("s to save the chart image") + "\n")
		default:
			b.WriteString(th.Hint.Render("Press g to chart this metric.") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("g chart  m metric csv  esc back"))
	return th.Content.Render(b.String())
}
