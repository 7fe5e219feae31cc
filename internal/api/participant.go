// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/morganforge/cohort-tui/internal/model"
)

// =============================================================================
// PARTICIPANT STUDY OPERATIONS
// =============================================================================

// JoinedStudies lists the studies the authenticated participant is
// enrolled in.
func (c *Client) JoinedStudies(ctx context.Context) ([]model.StudyOverview, error) {
	var resp struct {
		Studies []model.StudyOverview `json:"studies"`
	}
	if err := c.getJSON(ctx, "/user/studies", &resp); err != nil {
		return nil, err
	}
	return resp.Studies, nil
}

// StudyByCode looks up a study by its short join code. Used during the
// join flow, before the participant is enrolled.
func (c *Client) StudyByCode(ctx context.Context, code string) (model.Study, error) {
	var study model.Study
	if err := c.getJSON(ctx, "/studies/"+url.PathEscape(code), &study); err != nil {
		return model.Study{}, err
	}
	return study, nil
}

// MyStudy fetches a joined study together with the participant's own
// enrollment record.
func (c *Client) MyStudy(ctx context.Context, studyID string) (model.StudyAndUserData, error) {
	var out model.StudyAndUserData
	if err := c.getJSON(ctx, "/user/studies/"+url.PathEscape(studyID), &out); err != nil {
		return model.StudyAndUserData{}, err
	}
	return out, nil
}

// JoinStudy enrolls the participant in a study. signedConsent is the
// signed informed-consent document as a base64-encoded PDF; enrollment
// is refused without it.
func (c *Client) JoinStudy(ctx context.Context, studyID, signedConsent string) error {
	if signedConsent == "" {
		return fmt.Errorf("signed consent is required to join a study")
	}
	body := map[string]string{"signed_informed_consent": signedConsent}
	return c.postJSON(ctx, "/user/studies/"+url.PathEscape(studyID), body, nil)
}

// LeaveStudy withdraws the participant from a study.
func (c *Client) LeaveStudy(ctx context.Context, studyID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/user/studies/"+url.PathEscape(studyID), nil)
	return err
}

// Metrics lists every metric the platform can record.
func (c *Client) Metrics(ctx context.Context) ([]model.Metric, error) {
	var resp struct {
		Metrics []model.Metric `json:"metrics"`
	}
	if err := c.getJSON(ctx, "/metrics/", &resp); err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

// MetricEndpoint maps one metric presentation to its graph and
// download endpoints. The platform serves each recorded stream from its
// own route prefix rather than a generic metric path.
type MetricEndpoint struct {
	Name         string
	GraphPath    string
	DownloadPath string
}

// MetricEndpoints lists the participant-facing metric presentations.
var MetricEndpoints = []MetricEndpoint{
	{Name: "Heartrate", GraphPath: "/heartrate/graph", DownloadPath: "/heartrate/download"},
	{Name: "Acceleration (XYZ)", GraphPath: "/acceleration/xyz", DownloadPath: "/acceleration/download"},
	{Name: "Acceleration (vector)", GraphPath: "/acceleration/vector", DownloadPath: "/acceleration/download"},
}

func timeframeQuery(from, to time.Time, tzOffset int) url.Values {
	q := url.Values{}
	q.Set("from_time", strconv.FormatInt(from.Unix(), 10))
	q.Set("to_time", strconv.FormatInt(to.Unix(), 10))
	q.Set("user_timezone_offset_in_s", strconv.Itoa(tzOffset))
	return q
}

// MyChart fetches a rendered chart of the participant's own metric data
// over [from, to]. graphPath is one of the MetricEndpoints graph paths;
// tzOffset is the viewer's UTC offset in seconds.
func (c *Client) MyChart(ctx context.Context, graphPath string, from, to time.Time, tzOffset int) (MetricChart, error) {
	if !from.Before(to) {
		return MetricChart{}, fmt.Errorf("chart range: from %v must precede to %v", from, to)
	}

	var chart MetricChart
	path := graphPath + "?" + timeframeQuery(from, to, tzOffset).Encode()
	if err := c.getJSON(ctx, path, &chart); err != nil {
		return MetricChart{}, err
	}
	return chart, nil
}

// DownloadMyMetric fetches the participant's own raw samples for a
// metric as CSV bytes. downloadPath is one of the MetricEndpoints
// download paths.
func (c *Client) DownloadMyMetric(ctx context.Context, downloadPath string, from, to time.Time) ([]byte, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("download range: from %v must precede to %v", from, to)
	}
	path := downloadPath + "?" + timeframeQuery(from, to, 0).Encode()
	return c.do(ctx, http.MethodGet, path, nil)
}
