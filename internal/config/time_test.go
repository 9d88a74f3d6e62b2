package config

import (
	"testing"
	"time"
)

func TestParseTimeRefAbsolute(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-08-28T22:45:05Z", time.Date(2025, 8, 28, 22, 45, 5, 0, time.UTC)},
		{"2025-08-28T22:45:05", time.Date(2025, 8, 28, 22, 45, 5, 0, time.UTC)},
		{"2025-08-28 22:45:05", time.Date(2025, 8, 28, 22, 45, 5, 0, time.UTC)},
		{"2025-08-28", time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeRef(tt.input)
			if err != nil {
				t.Fatalf("ParseTimeRef() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimeRef() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimeRefRelative(t *testing.T) {
	now := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)

	got, err := ParseTimeRefAt("1d6h", now)
	if err != nil {
		t.Fatalf("ParseTimeRefAt() error = %v", err)
	}
	want := time.Date(2025, 8, 28, 6, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseTimeRefAt() = %v, want %v", got, want)
	}

	got, err = ParseTimeRefAt("90m", now)
	if err != nil {
		t.Fatalf("ParseTimeRefAt() error = %v", err)
	}
	if !got.Equal(now.Add(-90 * time.Minute)) {
		t.Errorf("ParseTimeRefAt() = %v, want %v", got, now.Add(-90*time.Minute))
	}
}

func TestParseTimeRefInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "5x", "1d-2h"} {
		if _, err := ParseTimeRef(input); err == nil {
			t.Errorf("ParseTimeRef(%q) expected error", input)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"500ms", 500 * time.Millisecond},
		{"2d", 48 * time.Hour},
		{"1d30m", 24*time.Hour + 30*time.Minute},
		{"1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if err != nil {
			t.Fatalf("ParseDuration(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
