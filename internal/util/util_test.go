// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "token")

	if err := AtomicWriteFile(path, []byte("abc123"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "abc123" {
		t.Errorf("got %q, want %q", data, "abc123")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("got perm %v, want 0600", info.Mode().Perm())
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("xyz"), 0600); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "xyz" {
		t.Errorf("after overwrite got %q, want %q", data, "xyz")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != "token" {
			t.Errorf("leftover file %q", e.Name())
		}
	}
}

func TestReadFileString(t *testing.T) {
	dir := t.TempDir()

	if _, ok := ReadFileString(filepath.Join(dir, "missing")); ok {
		t.Error("missing file should yield ok=false")
	}

	empty := filepath.Join(dir, "empty")
	os.WriteFile(empty, []byte("  \n"), 0600)
	if _, ok := ReadFileString(empty); ok {
		t.Error("whitespace-only file should yield ok=false")
	}

	val := filepath.Join(dir, "value")
	os.WriteFile(val, []byte("  user \n"), 0600)
	s, ok := ReadFileString(val)
	if !ok || s != "user" {
		t.Errorf("got (%q, %v), want (\"user\", true)", s, ok)
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"truncated", "a long study name", 10, "a long ..."},
		{"zero", "anything", 0, ""},
		{"tiny", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWidth(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateWidthCJK(t *testing.T) {
	// Each ideograph is two columns wide.
	got := TruncateWidth("研究参加者", 6)
	if StringWidth(got) > 6 {
		t.Errorf("truncated string %q wider than 6 columns", got)
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "study", "studies"); got != "study" {
		t.Errorf("got %q", got)
	}
	if got := Pluralize(3, "study", "studies"); got != "studies" {
		t.Errorf("got %q", got)
	}
}
