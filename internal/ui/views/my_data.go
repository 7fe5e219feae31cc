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
	"github.com/morganforge/cohort-tui/internal/router"
	"github.com/morganforge/cohort-tui/internal/storage"
	"github.com/morganforge/cohort-tui/internal/ui/components"
	"github.com/morganforge/cohort-tui/internal/util"
)

// dataWindow is a selectable lookback range for the participant's own
// recorded data.
type dataWindow struct {
	label string
	span  time.Duration
}

var dataWindows = []dataWindow{
	{label: "last 24 hours", span: 24 * time.Hour},
	{label: "last 7 days", span: 7 * 24 * time.Hour},
	{label: "last 30 days", span: 30 * 24 * time.Hour},
}

// MyDataView lets a participant inspect their own recorded metrics:
// chart a stream over a lookback window, save the chart image, or
// download the raw samples as CSV.
type MyDataView struct {
	deps Deps

	metricIdx int // selected entry in api.MetricEndpoints
	windowIdx int // selected entry in dataWindows

	busy   bool
	errMsg string
	notice string

	chart *api.MetricChart
}

// NewMyDataView constructs the participant data view.
func NewMyDataView(deps Deps) *MyDataView {
	return &MyDataView{deps: deps}
}

func (v *MyDataView) Title() string { return "My Data" }

func (v *MyDataView) Init() tea.Cmd { return nil }

func (v *MyDataView) window() (from, to time.Time) {
	to = time.Now()
	return to.Add(-dataWindows[v.windowIdx].span), to
}

func (v *MyDataView) fetchChart() tea.Cmd {
	ep := api.MetricEndpoints[v.metricIdx]
	from, to := v.window()
	_, tzOffset := time.Now().Zone()
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		chart, err := v.deps.Client.MyChart(ctx, ep.GraphPath, from, to, tzOffset)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return chartMsg{chart: chart}
	}
}

// saveChart decodes the current chart image and stores it as a PNG in
// the download ledger.
func (v *MyDataView) saveChart() tea.Cmd {
	chart := *v.chart
	ep := api.MetricEndpoints[v.metricIdx]
	return func() tea.Msg {
		img, err := base64.StdEncoding.DecodeString(chart.Image)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("chart image is not valid base64: %w", err)}
		}
		rec, err := v.deps.Downloads.Save(storage.Record{
			Metric: ep.Name,
			Kind:   storage.KindChartImage,
		}, fmt.Sprintf("my_%s.png", slugMetric(ep.Name)), img)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return artifactSavedMsg{rec: rec}
	}
}

func (v *MyDataView) downloadCSV() tea.Cmd {
	ep := api.MetricEndpoints[v.metricIdx]
	from, to := v.window()
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		data, err := v.deps.Client.DownloadMyMetric(ctx, ep.DownloadPath, from, to)
		if err != nil {
			return ErrMsg{Err: err}
		}
		rec, err := v.deps.Downloads.Save(storage.Record{
			Metric: ep.Name,
			Kind:   storage.KindMetricCSV,
		}, fmt.Sprintf("my_%s.csv", slugMetric(ep.Name)), data)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return artifactSavedMsg{rec: rec}
	}
}

// slugMetric makes a metric display name safe for a filename. Runs of
// separators collapse to a single underscore, so "Acceleration (XYZ)"
// becomes "acceleration_xyz".
func slugMetric(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	return strings.Join(words, "_")
}

func (v *MyDataView) Update(msg tea.Msg) (View, tea.Cmd) {
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
			n := len(api.MetricEndpoints)
			if msg.String() == "right" {
				v.metricIdx = (v.metricIdx + 1) % n
			} else {
				v.metricIdx = (v.metricIdx + n - 1) % n
			}
			v.chart = nil
		case "w":
			v.windowIdx = (v.windowIdx + 1) % len(dataWindows)
			v.chart = nil
		case "g":
			v.busy = true
			v.errMsg = ""
			return v, v.fetchChart()
		case "s":
			if v.chart != nil {
				v.busy = true
				return v, v.saveChart()
			}
		case "d":
			v.busy = true
			v.errMsg = ""
			return v, v.downloadCSV()
		case "esc":
			return v, Navigate(router.RouteParticipantHome)
		}
	}
	return v, nil
}

func (v *MyDataView) View() string {
	th := v.deps.Theme
	var b strings.Builder

	b.WriteString(th.SectionTitle.Render("Your recorded data"))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(components.ErrorBanner(th, v.errMsg) + "\n")
	}
	if v.notice != "" {
		b.WriteString(components.SuccessBanner(th, v.notice) + "\n")
	}

	ep := api.MetricEndpoints[v.metricIdx]
	b.WriteString(th.Label.Render("Metric ") + th.Value.Render(ep.Name) +
		th.Hint.Render("  (left/right to switch)") + "\n")
	b.WriteString(th.Label.Render("Window ") + th.Value.Render(dataWindows[v.windowIdx].label) +
		th.Hint.Render("  (w to cycle)") + "\n\n")

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

	b.WriteString("\n")
	b.WriteString(th.Hint.Render("g chart  d download csv  esc back"))
	return th.Content.Render(b.String())
}
