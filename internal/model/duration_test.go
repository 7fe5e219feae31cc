// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"testing"
)

func TestFormatISODuration(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		hours int
		want  string
	}{
		{"days and hours", 7, 12, "P7DT12H"},
		{"days only", 14, 0, "P14D"},
		{"hours only", 0, 6, "PT6H"},
		{"zero", 0, 0, "PT0H"},
		{"hour rollover", 1, 36, "P2DT12H"},
		{"exact rollover", 0, 48, "P2D"},
		{"negative clamped", -3, -1, "PT0H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatISODuration(tt.days, tt.hours); got != tt.want {
				t.Errorf("FormatISODuration(%d, %d) = %q, want %q", tt.days, tt.hours, got, tt.want)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in        string
		wantDays  int
		wantHours int
		wantErr   bool
	}{
		{"P7DT12H", 7, 12, false},
		{"P14D", 14, 0, false},
		{"PT6H", 0, 6, false},
		{"PT0H", 0, 0, false},
		{"P", 0, 0, true},
		{"PT", 0, 0, true},
		{"", 0, 0, true},
		{"P1Y", 0, 0, true},
		{"PT30M", 0, 0, true},
		{"7D", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			days, hours, err := ParseISODuration(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseISODuration(%q) expected error", tt.in)
				}
				if !errors.Is(err, ErrBadDuration) {
					t.Errorf("error %v is not ErrBadDuration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseISODuration(%q) failed: %v", tt.in, err)
			}
			if days != tt.wantDays || hours != tt.wantHours {
				t.Errorf("got (%d, %d), want (%d, %d)", days, hours, tt.wantDays, tt.wantHours)
			}
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for _, tc := range []struct{ days, hours int }{{7, 12}, {1, 0}, {0, 1}, {0, 0}} {
		s := FormatISODuration(tc.days, tc.hours)
		days, hours, err := ParseISODuration(s)
		if err != nil {
			t.Fatalf("round trip of (%d, %d) via %q failed: %v", tc.days, tc.hours, s, err)
		}
		if days != tc.days || hours != tc.hours {
			t.Errorf("round trip of (%d, %d) via %q gave (%d, %d)", tc.days, tc.hours, s, days, hours)
		}
	}
}

func TestDisplayDuration(t *testing.T) {
	tests := []struct{ in, want string }{
		{"P7DT12H", "7 days 12 hours"},
		{"P1D", "1 day"},
		{"PT1H", "1 hour"},
		{"PT0H", "0 hours"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := DisplayDuration(tt.in); got != tt.want {
			t.Errorf("DisplayDuration(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
