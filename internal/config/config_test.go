// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"sync"
	"testing"
)

func TestDefaultResolvesProduction(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	if got := cfg.ResolveBaseURL(); got != productionBaseURL {
		t.Errorf("got %q, want %q", got, productionBaseURL)
	}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"development", Config{Environment: "development"}, developmentBaseURL},
		{"production", Config{Environment: "production"}, productionBaseURL},
		{"explicit override", Config{Environment: "production", API: APIConfig{BaseURL: "https://staging.example.org/api/v1"}}, "https://staging.example.org/api/v1"},
		{"override trailing slash", Config{API: APIConfig{BaseURL: "http://localhost:9999/api/v1/"}}, "http://localhost:9999/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveBaseURL(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COHORT_ENV", "development")
	t.Setenv("COHORT_API_URL", "http://localhost:1234/api/v1")
	t.Setenv("COHORT_POLL_INTERVAL", "5")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Environment != "development" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.API.BaseURL != "http://localhost:1234/api/v1" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Session.PollIntervalSecs != 5 {
		t.Errorf("poll interval = %d", cfg.Session.PollIntervalSecs)
	}
}

func TestEnvOverrideIgnoresBadInterval(t *testing.T) {
	t.Setenv("COHORT_POLL_INTERVAL", "not-a-number")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Session.PollIntervalSecs != defaultPollIntervalSecs {
		t.Errorf("poll interval = %d, want default", cfg.Session.PollIntervalSecs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad environment", func(c *Config) { c.Environment = "staging" }, true},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }, true},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://example.org" }, true},
		{"zero poll interval", func(c *Config) { c.Session.PollIntervalSecs = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SetDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_ConcurrentAccess verifies Global/SetGlobal are race-free.
// Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := Default()
			c.SetDefaults()
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
