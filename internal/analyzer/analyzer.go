// Package analyzer turns classified debug.log lines into a rejection report:
// it runs the correlator, groups the resolved rejection reasons and tallies
// them per category.
package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bimmerbailey/cmpctrej/internal/correlate"
	"github.com/bimmerbailey/cmpctrej/internal/logline"
)

// Report is the full output of one analysis run.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Source      string    `json:"source,omitempty" yaml:"source,omitempty"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// FirstBlock and LastBlock are the first and last block hashes seen in
	// the reconstruction lines, in file order, whether or not they resolved.
	FirstBlock string `json:"first_block,omitempty" yaml:"first_block,omitempty"`
	LastBlock  string `json:"last_block,omitempty" yaml:"last_block,omitempty"`

	TotalLines      int `json:"total_lines" yaml:"total_lines"`
	SkippedLines    int `json:"skipped_lines,omitempty" yaml:"skipped_lines,omitempty"`
	Rejections      int `json:"rejections" yaml:"rejections"`
	Reconstructions int `json:"reconstructions" yaml:"reconstructions"`
	Resolved        int `json:"resolved" yaml:"resolved"`
	Unresolved      int `json:"unresolved" yaml:"unresolved"`
	Blocks          int `json:"blocks" yaml:"blocks"`

	Groups       []GroupedResult `json:"groups" yaml:"groups"`
	BlockDetails []BlockDetail   `json:"block_details,omitempty" yaml:"block_details,omitempty"`

	// NoData is set when no required transaction matched a rejection.
	NoData bool `json:"no_data" yaml:"no_data"`
}

// BlockDetail lists the rejected transactions one block required.
type BlockDetail struct {
	Hash         string     `json:"hash" yaml:"hash"`
	Transactions []TxReason `json:"transactions" yaml:"transactions"`
}

// TxReason is a single resolved transaction.
type TxReason struct {
	Txid     string `json:"txid" yaml:"txid"`
	Reason   string `json:"reason" yaml:"reason"`
	Category string `json:"category" yaml:"category"`
}

// Analyzer runs the correlation pipeline over classified lines.
type Analyzer struct {
	grouper      *Grouper
	logger       *slog.Logger
	blockDetails bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPrefixes sets the reason prefixes used for grouping.
func WithPrefixes(prefixes []string) Option {
	return func(a *Analyzer) {
		a.grouper = NewGrouper(prefixes)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithBlockDetails includes a per-block breakdown in the report.
func WithBlockDetails(enabled bool) Option {
	return func(a *Analyzer) {
		a.blockDetails = enabled
	}
}

// New creates a new Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		grouper: NewGrouper(nil),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Grouper returns the grouper used by the analyzer.
func (a *Analyzer) Grouper() *Grouper {
	return a.grouper
}

// Analyze correlates b and summarizes the result. Malformed lines abort the
// run; no partial report is returned.
func (a *Analyzer) Analyze(b logline.Buckets) (*Report, error) {
	a.logger.Debug("classified lines",
		"total", b.Total,
		"rejections", len(b.Rejections),
		"reconstructions", len(b.Reconstructions))
	if b.Skipped > 0 {
		a.logger.Warn("skipped overlong lines", "count", b.Skipped)
	}

	idx, err := correlate.BuildIndex(b.Rejections)
	if err != nil {
		return nil, fmt.Errorf("indexing rejections: %w", err)
	}
	a.logger.Debug("built rejection index", "wtxids", len(idx))

	res, err := correlate.Join(idx, b.Reconstructions)
	if err != nil {
		return nil, fmt.Errorf("joining reconstructions: %w", err)
	}
	a.logger.Debug("joined reconstructions",
		"resolved", res.Resolved,
		"unresolved", res.Unresolved,
		"blocks", len(res.Blocks()))

	return a.Summarize(b, res), nil
}

// Summarize builds a Report from an existing correlation result.
func (a *Analyzer) Summarize(b logline.Buckets, res *correlate.Result) *Report {
	report := &Report{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		FirstBlock:      res.FirstBlock,
		LastBlock:       res.LastBlock,
		TotalLines:      b.Total,
		SkippedLines:    b.Skipped,
		Rejections:      len(b.Rejections),
		Reconstructions: len(b.Reconstructions),
		Resolved:        res.Resolved,
		Unresolved:      res.Unresolved,
		Blocks:          len(res.Blocks()),
		NoData:          res.Empty(),
	}

	report.Groups = a.grouper.Tally(res).Sorted()

	if a.blockDetails {
		report.BlockDetails = a.blockBreakdown(res)
	}

	return report
}

func (a *Analyzer) blockBreakdown(res *correlate.Result) []BlockDetail {
	details := make([]BlockDetail, 0, len(res.Blocks()))
	for _, hash := range res.Blocks() {
		detail := BlockDetail{Hash: hash}
		for _, txid := range res.Txids(hash) {
			reason, _ := res.Reason(hash, txid)
			detail.Transactions = append(detail.Transactions, TxReason{
				Txid:     txid,
				Reason:   reason,
				Category: a.grouper.Category(reason),
			})
		}
		details = append(details, detail)
	}
	return details
}
