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
// ORGANIZER STUDY OPERATIONS
// =============================================================================

// CreateStudyRequest is the payload for creating a study. Dates are
// ISO-8601 timestamps, duration an ISO-8601 day/hour duration, the two
// document fields markdown. Metrics lists metric IDs to attach.
type CreateStudyRequest struct {
	Name              string   `json:"name"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	Duration          string   `json:"duration"`
	Description       string   `json:"description"`
	InclusionCriteria string   `json:"inclusion_criteria"`
	InformedConsent   string   `json:"informed_consent"`
	Metrics           []string `json:"metrics"`
}

// Studies lists every study owned by the authenticated organizer.
func (c *Client) Studies(ctx context.Context) ([]model.Study, error) {
	var resp struct {
		Studies []model.Study `json:"studies"`
	}
	if err := c.getJSON(ctx, "/pi/studies", &resp); err != nil {
		return nil, err
	}
	return resp.Studies, nil
}

// CreateStudy creates a study and returns the stored record, including
// the server-assigned ID and join code.
func (c *Client) CreateStudy(ctx context.Context, req CreateStudyRequest) (model.Study, error) {
	var study model.Study
	if err := c.postJSON(ctx, "/pi/studies", req, &study); err != nil {
		return model.Study{}, err
	}
	return study, nil
}

// DeleteStudy removes a study and all of its enrollment records.
func (c *Client) DeleteStudy(ctx context.Context, studyID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/pi/studies/"+url.PathEscape(studyID), nil)
	return err
}

// Participants lists the enrolled participants of a study.
func (c *Client) Participants(ctx context.Context, studyID string) ([]model.Participant, error) {
	var resp struct {
		Participants []model.Participant `json:"participants"`
	}
	path := "/pi/studies/" + url.PathEscape(studyID) + "/participants"
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

// RemoveParticipant withdraws one participant from a study.
func (c *Client) RemoveParticipant(ctx context.Context, studyID string, participantNum int) error {
	path := fmt.Sprintf("/pi/studies/%s/participants/%d", url.PathEscape(studyID), participantNum)
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// =============================================================================
// METRIC DATA
// =============================================================================

// MetricChart is a rendered metric plot with its summary statistics.
// Image is a base64-encoded PNG; Alt is a textual description of the
// plot for screen-reader style output.
type MetricChart struct {
	Title     string  `json:"title"`
	Alt       string  `json:"alt"`
	Image     string  `json:"image"`
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}

// ParticipantChart fetches a rendered chart of one participant's metric
// over [from, to]. tzOffset is the viewer's UTC offset in seconds so
// the server labels the time axis in local time.
func (c *Client) ParticipantChart(ctx context.Context, studyID string, participantNum int, metricName string, from, to time.Time, tzOffset int) (MetricChart, error) {
	if !from.Before(to) {
		return MetricChart{}, fmt.Errorf("chart range: from %v must precede to %v", from, to)
	}

	q := url.Values{}
	q.Set("from_time", strconv.FormatInt(from.Unix(), 10))
	q.Set("to_time", strconv.FormatInt(to.Unix(), 10))
	q.Set("user_timezone_offset_in_s", strconv.Itoa(tzOffset))

	path := fmt.Sprintf("/pi/studies/%s/participants/%d/metrics/%s?%s",
		url.PathEscape(studyID), participantNum, url.PathEscape(metricName), q.Encode())

	var chart MetricChart
	if err := c.getJSON(ctx, path, &chart); err != nil {
		return MetricChart{}, err
	}
	return chart, nil
}

// DownloadParticipantMetric fetches one participant's raw samples for a
// metric as CSV bytes.
func (c *Client) DownloadParticipantMetric(ctx context.Context, studyID string, participantNum int, metricID string) ([]byte, error) {
	path := fmt.Sprintf("/pi/studies/%s/participants/%d/download_metrics/%s",
		url.PathEscape(studyID), participantNum, url.PathEscape(metricID))
	return c.do(ctx, http.MethodGet, path, nil)
}

// DownloadSignedConsents fetches the signed consent forms of every
// participant in a study as a single zip archive.
func (c *Client) DownloadSignedConsents(ctx context.Context, studyID string) ([]byte, error) {
	path := "/pi/studies/" + url.PathEscape(studyID) + "/participants/signed_informed_consent"
	return c.do(ctx, http.MethodGet, path, nil)
}
