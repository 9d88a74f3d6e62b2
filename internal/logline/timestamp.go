package logline

import (
	"strings"
	"time"
)

// Timestamp parses the RFC3339 timestamp bitcoind writes at the start of
// each line. Fractional seconds (-logtimemicros) are accepted.
func Timestamp(raw string) (time.Time, bool) {
	field, _, _ := strings.Cut(raw, " ")
	if field == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, field)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FilterReconstructions keeps the reconstruction lines timestamped inside
// [since, until]. A zero bound is open. Lines with no parseable timestamp are
// kept. Rejections are never filtered: a rejection logged before the window
// can still explain a block reconstructed inside it.
func FilterReconstructions(b Buckets, since, until time.Time) Buckets {
	if since.IsZero() && until.IsZero() {
		return b
	}

	kept := make([]Line, 0, len(b.Reconstructions))
	for _, l := range b.Reconstructions {
		ts, ok := Timestamp(l.Raw)
		if ok {
			if !since.IsZero() && ts.Before(since) {
				continue
			}
			if !until.IsZero() && ts.After(until) {
				continue
			}
		}
		kept = append(kept, l)
	}

	b.Reconstructions = kept
	return b
}
