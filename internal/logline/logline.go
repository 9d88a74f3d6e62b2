// Package logline reads bitcoind debug.log files and sorts the lines the
// correlator cares about into buckets.
//
// Only two line shapes are of interest:
//
//	2025-08-28T23:01:08Z [mempoolrej] <txid> (wtxid=<wtxid>) from peer=6 was not accepted: <reason>
//	2025-08-28T22:45:05Z [cmpctblock] Reconstructed block <hash> required tx <wtxid>
//
// Everything else is discarded.
package logline

import "strings"

// Markers identifying the two line categories.
const (
	MarkerRejection      = "[mempoolrej]"
	MarkerReconstruction = "[cmpctblock] Reconstructed block"
)

// Category is the bucket a line is sorted into.
type Category int

const (
	CategoryNone Category = iota
	CategoryRejection
	CategoryReconstruction
)

// String returns the string representation of a Category.
func (c Category) String() string {
	switch c {
	case CategoryRejection:
		return "mempoolrej"
	case CategoryReconstruction:
		return "cmpctblock"
	default:
		return "none"
	}
}

// Line is a single raw log line and its 1-based position in the source.
type Line struct {
	Raw string `json:"raw"`
	Num int    `json:"line"`

	// Truncated is set when the line exceeded the read limit and Raw holds
	// only its head. Truncated lines are never classified.
	Truncated bool `json:"truncated,omitempty"`
}

// Buckets holds the classified lines in file order.
type Buckets struct {
	Rejections      []Line
	Reconstructions []Line

	// Total is the number of lines scanned, matched or not.
	Total int
	// Skipped counts overlong lines dropped without classification.
	Skipped int
}

// Categorize reports which bucket raw belongs in. The rejection marker is
// checked first, so a line carrying both markers is a rejection.
func Categorize(raw string) Category {
	switch {
	case strings.Contains(raw, MarkerRejection):
		return CategoryRejection
	case strings.Contains(raw, MarkerReconstruction):
		return CategoryReconstruction
	default:
		return CategoryNone
	}
}

// Classify sorts lines into buckets, dropping lines that match neither marker
// and truncated lines.
func Classify(lines []Line) Buckets {
	b := Buckets{Total: len(lines)}
	for _, l := range lines {
		if l.Truncated {
			b.Skipped++
			continue
		}
		switch Categorize(l.Raw) {
		case CategoryRejection:
			b.Rejections = append(b.Rejections, l)
		case CategoryReconstruction:
			b.Reconstructions = append(b.Reconstructions, l)
		}
	}
	return b
}
