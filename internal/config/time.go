package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts are tried in order by ParseTimeRef. The first matches the
// timestamps bitcoind writes at the start of every debug.log line.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var durationPart = regexp.MustCompile(`(\d+)([dhms])`)

var durationUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

// ParseTimeRef parses an absolute timestamp or a duration relative to now.
// "2025-08-28T22:45:05Z" is absolute; "6h" or "1d12h" means that long ago.
func ParseTimeRef(s string) (time.Time, error) {
	return ParseTimeRefAt(s, time.Now())
}

// ParseTimeRefAt is ParseTimeRef with relative durations measured back from
// now.
func ParseTimeRefAt(s string, now time.Time) (time.Time, error) {
	input := strings.TrimSpace(s)
	if input == "" {
		return time.Time{}, fmt.Errorf("time reference is empty")
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}

	d, err := ParseDuration(input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time reference %q: not a timestamp or duration", input)
	}
	return now.Add(-d), nil
}

// ParseDuration accepts Go durations plus a "d" (day) unit, e.g. "2d", "1d6h".
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var (
		total   time.Duration
		covered int
	)
	for _, m := range durationPart.FindAllStringSubmatch(s, -1) {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += time.Duration(n) * durationUnits[m[2]]
		covered += len(m[0])
	}

	if covered == 0 || covered != len(s) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}
