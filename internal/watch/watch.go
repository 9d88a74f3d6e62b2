// Package watch re-runs a complete analysis whenever a log file changes.
//
// Every trigger performs a fresh run over the whole file; nothing is carried
// from one run to the next. The parent directory is watched rather than the
// file itself so that rotation (rename plus re-create) is picked up without
// re-registering the watch.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Options configures the watcher.
type Options struct {
	FilePath string                          // Log file to watch
	Debounce time.Duration                   // Quiet period after the last change before re-running
	Run      func(ctx context.Context) error // Called once at start and after each burst of changes
	Logger   *slog.Logger
}

// Watcher re-runs Options.Run when the watched file changes.
type Watcher struct {
	opts    Options
	path    string
	watcher *fsnotify.Watcher
}

// New creates a new Watcher with the given options.
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		opts: opts,
		path: filepath.Clean(opts.FilePath),
	}
}

// Run performs an initial run, then blocks re-running on changes until ctx is
// cancelled or Options.Run returns an error.
func (w *Watcher) Run(ctx context.Context) error {
	if w.opts.Run == nil {
		return fmt.Errorf("watch: no run function configured")
	}

	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer w.watcher.Close()

	if err := w.opts.Run(ctx); err != nil {
		return err
	}

	return w.watch(ctx)
}

// setupWatcher initializes the fsnotify watcher on the file's directory.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	return nil
}

// watch monitors the directory and debounces events for the watched file.
func (w *Watcher) watch(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !w.relevant(event) {
				continue
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.opts.Logger.Warn("log file rotated, waiting for it to reappear", "path", w.path)
				continue
			}

			w.opts.Logger.Debug("log file changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := w.opts.Run(ctx); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether event concerns the watched file with an op that
// can change its content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
