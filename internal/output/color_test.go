package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"ALWAYS", ColorAlways, false},
		{" never ", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColorMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestShouldColorize(t *testing.T) {
	tests := []struct {
		name     string
		mode     ColorMode
		writer   io.Writer
		expected bool
	}{
		{
			name:     "ColorAlways - any writer",
			mode:     ColorAlways,
			writer:   &bytes.Buffer{},
			expected: true,
		},
		{
			name:     "ColorNever - any writer",
			mode:     ColorNever,
			writer:   os.Stdout,
			expected: false,
		},
		{
			name:     "ColorAuto - non-file writer",
			mode:     ColorAuto,
			writer:   &bytes.Buffer{},
			expected: false,
		},
		{
			name:     "ColorAuto - file writer (stdout)",
			mode:     ColorAuto,
			writer:   os.Stdout,
			expected: isTerminal(os.Stdout), // Depends on test environment
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shouldColorize(tt.mode, tt.writer)
			if result != tt.expected {
				t.Errorf("shouldColorize() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	on := palette{enabled: true}
	off := palette{enabled: false}

	if got := off.heading("x"); got != "x" {
		t.Errorf("disabled palette altered text: %q", got)
	}
	if got := on.heading("x"); got != colorBold+"x"+colorReset {
		t.Errorf("heading() = %q", got)
	}
	if got := on.category("x", true); got != colorBold+colorRed+"x"+colorReset {
		t.Errorf("category(top) = %q", got)
	}
	if got := on.category("x", false); got != "x" {
		t.Errorf("category(not top) = %q", got)
	}
	if got := on.warn(""); got != "" {
		t.Errorf("empty text should stay empty, got %q", got)
	}
	if !strings.HasPrefix(on.hash("abc"), colorCyan) {
		t.Errorf("hash() should be cyan: %q", on.hash("abc"))
	}
}
