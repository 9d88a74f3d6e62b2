package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/cmpctrej/internal/config"
	"github.com/bimmerbailey/cmpctrej/internal/logline"
	"github.com/bimmerbailey/cmpctrej/internal/output"
	"github.com/bimmerbailey/cmpctrej/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [file]",
	Short: "Re-print the report whenever the debug log changes",
	Long: `Print the report, then watch the debug log and print a fresh report
after each burst of writes. Every report is a complete run over the whole
file. Log rotation is followed automatically.

Examples:
  cmpctrej watch
  cmpctrej watch --debounce 5s --format table
  cmpctrej watch --since 6h ~/.bitcoin/testnet4/debug.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addReportFlags(watchCmd)
	watchCmd.Flags().String("debounce", "", "quiet period after the last write before re-running (e.g. 500ms, 2s)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := reportOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if debounceStr, _ := cmd.Flags().GetString("debounce"); debounceStr != "" {
		cfg.Watch.Debounce, err = config.ParseDuration(debounceStr)
		if err != nil {
			return fmt.Errorf("invalid --debounce value: %w", err)
		}
	}

	path, err := resolveLogFile(cfg, args)
	if err != nil {
		return err
	}

	// Validate file exists
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %w", logline.ErrInputUnavailable, err)
	}

	writer, err := newReportWriter(cmd, cfg)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	run := newWatchRun(path, cfg, opts, writer, cmd.OutOrStdout(), logger, time.Now)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(watch.Options{
		FilePath: path,
		Debounce: cfg.Watch.Debounce,
		Run:      run,
		Logger:   logger,
	})
	return w.Run(ctx)
}

// newWatchRun returns the function the watcher calls on every trigger. Each
// call is a complete run with the time window resolved against clock().
func newWatchRun(path string, cfg *config.Config, opts reportOptions, writer *output.Writer, out io.Writer, logger *slog.Logger, clock func() time.Time) func(context.Context) error {
	return func(ctx context.Context) error {
		report, err := buildReport(path, cfg, opts, clock(), logger)
		if errors.Is(err, logline.ErrInputUnavailable) {
			// The file can vanish briefly while it is being rotated.
			logger.Warn("skipping run", "error", err)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "==> %s <==\n", report.GeneratedAt.Format(time.RFC3339))
		if err := writer.WriteReport(report); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	}
}
