package analyzer

import "strings"

// DefaultPrefixes are the rejection reasons that carry per-transaction detail
// after a fixed prefix, e.g. "insufficient fee, rejecting replacement <txid>".
// Order matters: the first matching prefix wins.
var DefaultPrefixes = []string{
	"insufficient fee",
	"too-long-mempool-chain",
	"replacement-adds-unconfirmed",
	"too many potential replacements",
	"min relay fee not met",
}

// Grouper collapses rejection reasons into coarse categories.
type Grouper struct {
	prefixes []string
}

// NewGrouper creates a Grouper over prefixes, checked in the given order.
// A nil or empty list selects DefaultPrefixes.
func NewGrouper(prefixes []string) *Grouper {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	p := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		if prefix != "" {
			p = append(p, prefix)
		}
	}
	return &Grouper{prefixes: p}
}

// Prefixes returns the prefixes in match order.
func (g *Grouper) Prefixes() []string {
	out := make([]string, len(g.prefixes))
	copy(out, g.prefixes)
	return out
}

// Category returns the first prefix reason starts with (case-sensitive), or
// reason itself when none does.
func (g *Grouper) Category(reason string) string {
	for _, prefix := range g.prefixes {
		if strings.HasPrefix(reason, prefix) {
			return prefix
		}
	}
	return reason
}
