// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/cohort-tui/internal/model"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL), srv
}

func TestLoginSendsChosenRoleAndLowercasesEmail(t *testing.T) {
	var gotBody map[string]string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"message":      "Login successful",
			"access_token": "tok-abc",
			"data":         map[string]string{"name": "Ada"},
		})
	}))
	defer srv.Close()

	res, err := client.Login(context.Background(), "Ada@Example.COM", "hunter2", model.RoleParticipant)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", gotBody["email"])
	assert.Equal(t, "user", gotBody["user_type"])
	assert.Equal(t, "tok-abc", res.Token)
	assert.Equal(t, model.RoleParticipant, res.Role)
	assert.Equal(t, "Ada", res.Name)
}

func TestLoginRejectsInvalidRole(t *testing.T) {
	client := New("http://unused.invalid")
	_, err := client.Login(context.Background(), "a@b.c", "pw", model.Role("admin"))
	require.Error(t, err)
}

// The bearer header follows SetBearer: set after login, absent after an
// empty-token call, exactly the session hook contract.
func TestBearerHeaderFollowsSetBearer(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"studies": []any{}})
	}))
	defer srv.Close()

	client.SetBearer("tok-1")
	_, err := client.Studies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)

	client.SetBearer("")
	_, err = client.Studies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "logout must drop the Authorization header")
}

func TestRequestIDHeaderSet(t *testing.T) {
	seen := map[string]bool{}
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-ID")] = true
		json.NewEncoder(w).Encode(map[string]any{"studies": []any{}})
	}))
	defer srv.Close()

	for i := 0; i < 3; i++ {
		_, err := client.Studies(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, seen, 3, "each request should carry a fresh request ID")
	assert.NotContains(t, seen, "")
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"token expired"}}`, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"detail":"wrong role"}`, ErrForbidden},
		{"not found", http.StatusNotFound, `{}`, ErrNotFound},
		{"conflict", http.StatusConflict, `{"error":{"message":"email taken"}}`, ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := client.Studies(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnexpectedStatusYieldsAPIError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error":{"code":"teapot","message":"short and stout"}}`))
	}))
	defer srv.Close()

	_, err := client.Studies(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTeapot, apiErr.Status)
	assert.Equal(t, "teapot", apiErr.Code)
	assert.Equal(t, "short and stout", apiErr.Message)
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"studies": []map[string]any{
			{"id": "s1", "name": "Sleep Study"},
		}})
	}))
	defer srv.Close()

	studies, err := client.Studies(context.Background())
	require.NoError(t, err)
	require.Len(t, studies, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNoRetryOnUnauthorized(t *testing.T) {
	var calls atomic.Int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := client.Studies(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load(), "auth failures must not be retried")
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	client.WithMaxRetries(2)

	_, err := client.Studies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateStudyRoundTrip(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pi/studies", r.URL.Path)
		var req CreateStudyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "P3DT3H", req.Duration)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "s-99",
			"code":     "1234abcd",
			"name":     req.Name,
			"duration": req.Duration,
		})
	}))
	defer srv.Close()
	client.SetBearer("tok")

	study, err := client.CreateStudy(context.Background(), CreateStudyRequest{
		Name:     "Vaccine Study",
		Duration: "P3DT3H",
		Metrics:  []string{"m-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s-99", study.ID)
	assert.Equal(t, "1234abcd", study.Code)
}

func TestParticipantChartQuery(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pi/studies/s-1/participants/2/metrics/Heartrate", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1000", q.Get("from_time"))
		assert.Equal(t, "2000", q.Get("to_time"))
		assert.Equal(t, "3600", q.Get("user_timezone_offset_in_s"))
		json.NewEncoder(w).Encode(MetricChart{Title: "Heartrate", Image: "aW1n"})
	}))
	defer srv.Close()

	chart, err := client.ParticipantChart(context.Background(), "s-1", 2, "Heartrate",
		time.Unix(1000, 0), time.Unix(2000, 0), 3600)
	require.NoError(t, err)
	assert.Equal(t, "aW1n", chart.Image)
}

func TestChartRejectsInvertedRange(t *testing.T) {
	client := New("http://unused.invalid")
	_, err := client.ParticipantChart(context.Background(), "s-1", 1, "Heartrate",
		time.Unix(2000, 0), time.Unix(1000, 0), 0)
	require.Error(t, err)

	_, err = client.MyChart(context.Background(), "/heartrate/graph",
		time.Unix(2000, 0), time.Unix(1000, 0), 0)
	require.Error(t, err)
}

func TestJoinStudyRequiresConsent(t *testing.T) {
	client := New("http://unused.invalid")
	err := client.JoinStudy(context.Background(), "s-1", "")
	require.Error(t, err)
}

func TestJoinStudySendsConsent(t *testing.T) {
	var gotBody map[string]string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/studies/s-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User joined the study"}`))
	}))
	defer srv.Close()

	require.NoError(t, client.JoinStudy(context.Background(), "s-1", "cGRmLWJ5dGVz"))
	assert.Equal(t, "cGRmLWJ5dGVz", gotBody["signed_informed_consent"])
}

func TestDownloadMyMetricReturnsRawBytes(t *testing.T) {
	csv := "time,heartrate\n1000,62\n"
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/heartrate/download", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csv))
	}))
	defer srv.Close()

	got, err := client.DownloadMyMetric(context.Background(), "/heartrate/download",
		time.Unix(1000, 0), time.Unix(2000, 0))
	require.NoError(t, err)
	assert.Equal(t, csv, string(got))
}

func TestContextCancellationNotRetried(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Studies(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
