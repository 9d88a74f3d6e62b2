package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/cmpctrej/internal/analyzer"
	"github.com/bimmerbailey/cmpctrej/internal/config"
	"github.com/bimmerbailey/cmpctrej/internal/logline"
	"github.com/bimmerbailey/cmpctrej/internal/output"
)

var reportCmd = &cobra.Command{
	Use:   "report [flags] [file]",
	Short: "Count why missing compact block transactions were rejected",
	Long: `Correlate compact block reconstructions with mempool rejections and
print how often each rejection reason explains a transaction the node had
to fetch from a peer.

The log file defaults to the log_file setting (~/.bitcoin/debug.log).
Reasons that embed transaction details are grouped by their known prefix,
e.g. "insufficient fee, rejecting replacement <txid>" counts as
"insufficient fee".

Examples:
  cmpctrej report
  cmpctrej report /var/lib/bitcoind/debug.log
  cmpctrej report --since 2025-08-28 --until 2025-08-29
  cmpctrej report --by-block --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	addReportFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("since", "", "only count blocks reconstructed since timestamp (RFC3339 or relative like '24h')")
	cmd.Flags().String("until", "", "only count blocks reconstructed until timestamp (RFC3339 or relative like '1h')")
	cmd.Flags().Bool("by-block", false, "include a per-block breakdown of rejected transactions")
}

// reportOptions holds the report flags as given. Relative times are resolved
// per run by window, so a long-running watch keeps a rolling window.
type reportOptions struct {
	since   string
	until   string
	byBlock bool
}

func reportOptionsFromFlags(cmd *cobra.Command) (reportOptions, error) {
	sinceStr, _ := cmd.Flags().GetString("since")
	untilStr, _ := cmd.Flags().GetString("until")
	byBlock, _ := cmd.Flags().GetBool("by-block")

	opts := reportOptions{since: sinceStr, until: untilStr, byBlock: byBlock}
	if _, _, err := opts.window(time.Now()); err != nil {
		return opts, err
	}
	return opts, nil
}

// window resolves --since and --until against now. A zero bound is open.
func (o reportOptions) window(now time.Time) (since, until time.Time, err error) {
	if o.since != "" {
		since, err = config.ParseTimeRefAt(o.since, now)
		if err != nil {
			return since, until, fmt.Errorf("invalid --since value: %w", err)
		}
	}
	if o.until != "" {
		until, err = config.ParseTimeRefAt(o.until, now)
		if err != nil {
			return since, until, fmt.Errorf("invalid --until value: %w", err)
		}
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return since, until, fmt.Errorf("--until (%s) is before --since (%s)", o.until, o.since)
	}
	return since, until, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	opts, err := reportOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	path, err := resolveLogFile(cfg, args)
	if err != nil {
		return err
	}

	writer, err := newReportWriter(cmd, cfg)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	report, err := buildReport(path, cfg, opts, time.Now(), logger)
	if err != nil {
		return err
	}

	return writer.WriteReport(report)
}

// resolveLogFile prefers the positional argument over configuration and
// expands a leading "~".
func resolveLogFile(cfg *config.Config, args []string) (string, error) {
	path := cfg.LogFile
	if len(args) > 0 {
		path = args[0]
	}
	return config.ExpandPath(path)
}

func newReportWriter(cmd *cobra.Command, cfg *config.Config) (*output.Writer, error) {
	mode, err := output.ParseColorMode(cfg.Color)
	if err != nil {
		return nil, err
	}
	return output.New(cmd.OutOrStdout(), output.ParseFormat(cfg.Format), mode), nil
}

// buildReport performs one complete run over the file at path, with the time
// window resolved against now.
func buildReport(path string, cfg *config.Config, opts reportOptions, now time.Time, logger *slog.Logger) (*analyzer.Report, error) {
	since, until, err := opts.window(now)
	if err != nil {
		return nil, err
	}

	buckets, err := logline.ClassifyFile(path)
	if err != nil {
		return nil, err
	}
	buckets = logline.FilterReconstructions(buckets, since, until)

	anlz := analyzer.New(
		analyzer.WithPrefixes(cfg.ReasonPrefixes),
		analyzer.WithLogger(logger),
		analyzer.WithBlockDetails(opts.byBlock),
	)

	report, err := anlz.Analyze(buckets)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", path, err)
	}
	report.Source = path

	return report, nil
}
