package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/output"
	"github.com/Aman-CERP/wordtracker/internal/tracker"
	"github.com/Aman-CERP/wordtracker/internal/watcher"
)

type watchFlags struct {
	poll         bool
	pollInterval time.Duration
	skipInitial  bool
}

func newWatchCmd(a *app) *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Keep the repository in sync with changing files",
		Long: `Track the given files and directories, then watch them. Files that are
created or modified are re-indexed; files that are deleted or renamed away
are forgotten. Bursts of changes are debounced (performance.watch_debounce)
into a single run.

File system notifications are used when available, otherwise the inputs
are polled. Press Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, a, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.poll, "poll", false, "Poll for changes instead of using file system notifications")
	cmd.Flags().DurationVar(&flags.pollInterval, "poll-interval", 2*time.Second, "Interval between polls")
	cmd.Flags().BoolVar(&flags.skipInitial, "skip-initial", false, "Do not track the inputs before watching")

	return cmd
}

func runWatch(cmd *cobra.Command, a *app, paths []string, flags watchFlags) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pidFile := watcher.NewPIDFile(watcher.PIDPath(a.repositoryPath(cfg)))
	if err := pidFile.Claim(); err != nil {
		if errors.Is(err, watcher.ErrAlreadyWatching) {
			return apperrors.New(apperrors.ErrCodeRepositoryLocked, "repository is already being watched", err).
				WithDetail("pid_file", pidFile.Path()).
				WithSuggestion("Stop the other 'wordtracker watch' first")
		}
		return apperrors.IOError("failed to write watch PID file", err)
	}
	defer func() {
		if err := pidFile.Release(); err != nil {
			slog.Warn("watch_pid_release_failed", slog.String("error", err.Error()))
		}
	}()

	renderer := a.renderer(cmd.ErrOrStderr())
	t := a.newTracker(cfg, renderer)
	out := output.New(cmd.OutOrStdout(), a.noColor)

	if !flags.skipInitial {
		if _, _, err := t.Process(ctx, paths); err != nil {
			return err
		}
	}

	w, err := watcher.New(watcher.Options{
		Debounce:     cfg.WatchDebounce(),
		PollInterval: flags.pollInterval,
		Filter:       scanOptions(cfg),
		ForcePolling: flags.poll,
	})
	if err != nil {
		return apperrors.InternalError("failed to create watcher", err)
	}
	defer func() { _ = w.Stop() }()

	startErr := make(chan error, 1)
	go func() { startErr <- w.Start(ctx, paths) }()

	if !a.quiet {
		out.Statusf("👀", "Watching %d path(s) using %s", len(paths), w.Mode())
	}

	errs := w.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-startErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return apperrors.IOError("watch failed", err)
			}
			return nil

		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			syncBatch(ctx, t, out, a.quiet, batch)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("watch_error", slog.String("error", err.Error()))
			out.Warningf("watch: %v", err)
		}
	}
}

// syncBatch applies one debounced batch. A failed run is reported and the
// watch continues; the next change retries it.
func syncBatch(ctx context.Context, t *tracker.Tracker, out *output.Writer, quiet bool, batch []watcher.FileEvent) {
	changed, removed := watcher.Split(batch)
	sum, err := t.Sync(ctx, changed, removed)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		attrs := append([]any{slog.Int("changed", len(changed)), slog.Int("removed", len(removed))},
			apperrors.LogAttrs(err)...)
		slog.Error("watch_sync_failed", attrs...)
		out.Errorf("sync failed: %s", apperrors.FormatForUser(err, false))
		return
	}
	if !quiet {
		out.Successf("Synced %d changed, %d removed file(s); %d words", len(changed), sum.Forgotten, sum.TotalWords)
	}
}
