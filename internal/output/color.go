package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts "auto", "always" or "never" to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (must be auto, always, or never)", s)
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
}

// palette wraps text in escape codes when enabled.
type palette struct {
	enabled bool
}

func (p palette) wrap(code, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	return code + text + colorReset
}

func (p palette) heading(text string) string { return p.wrap(colorBold, text) }
func (p palette) hash(text string) string    { return p.wrap(colorCyan, text) }
func (p palette) muted(text string) string   { return p.wrap(colorGray, text) }
func (p palette) warn(text string) string    { return p.wrap(colorYellow, text) }

// category highlights the most frequent category in red.
func (p palette) category(text string, top bool) string {
	if top {
		return p.wrap(colorBold+colorRed, text)
	}
	return text
}
