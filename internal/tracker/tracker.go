// Package tracker runs the read-modify-write cycle on a word repository:
// lock it, load the index, fold new input files in, save, and record the run.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/history"
	"github.com/Aman-CERP/wordtracker/internal/repository"
	"github.com/Aman-CERP/wordtracker/internal/scanner"
	"github.com/Aman-CERP/wordtracker/internal/ui"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

// DefaultLockTimeout is how long a run waits for another process to release
// the repository.
const DefaultLockTimeout = 5 * time.Second

// Options configures a Tracker.
type Options struct {
	// RepositoryPath is the repository database file.
	RepositoryPath string

	// LockTimeout bounds the wait for the repository lock.
	LockTimeout time.Duration

	// Scan filters directory inputs.
	Scan scanner.Options

	// Tokenizer splits lines into words. Nil uses the default tokenizer.
	Tokenizer *words.Tokenizer

	// Workers bounds parallel tokenizing (0 = NumCPU).
	Workers int

	// HotWords sizes the index lookup cache.
	HotWords int
}

// Summary describes a finished Process run.
type Summary struct {
	Files      int
	Lines      int
	Tokens     int
	NewWords   int
	TotalWords int
	Forgotten  int
	Skipped    []scanner.Skipped
	Duration   time.Duration
}

// Tracker updates a word repository.
type Tracker struct {
	opts     Options
	renderer ui.Renderer
	now      func() time.Time
}

// New creates a tracker. A nil renderer discards progress.
func New(opts Options, renderer ui.Renderer) *Tracker {
	if opts.RepositoryPath == "" {
		opts.RepositoryPath = repository.DefaultPath
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = DefaultLockTimeout
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = words.NewTokenizer(words.DefaultMinLength, nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if renderer == nil {
		renderer = ui.NopRenderer{}
	}
	return &Tracker{opts: opts, renderer: renderer, now: time.Now}
}

// session is an open repository with its index loaded.
type session struct {
	repo    *repository.Repository
	history *history.Store
	index   *words.Index
}

func (s *session) save(ctx context.Context) error {
	return s.repo.Save(ctx, s.index.Snapshot())
}

// withRepository opens the repository, loads the index and calls fn. With
// lock set, the repository lock is held until fn returns.
func (t *Tracker) withRepository(ctx context.Context, lock bool, fn func(s *session) error) (err error) {
	if lock {
		l := repository.NewLock(t.opts.RepositoryPath)
		if err := l.Acquire(ctx, t.opts.LockTimeout); err != nil {
			return err
		}
		defer func() {
			if unlockErr := l.Unlock(); unlockErr != nil {
				slog.Warn("repository_unlock_failed", slog.String("error", unlockErr.Error()))
			}
		}()
	}

	repo, err := repository.Open(ctx, t.opts.RepositoryPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil && err == nil {
			err = apperrors.IOError("failed to close repository", closeErr)
		}
	}()

	if err := history.InitSchema(ctx, repo.DB()); err != nil {
		return apperrors.IOError("failed to prepare run history", err)
	}
	hist, err := history.NewStore(repo.DB())
	if err != nil {
		return apperrors.InternalError("failed to open run history", err)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	idx, err := words.FromSnapshot(snap, t.opts.HotWords)
	if err != nil {
		return err
	}

	return fn(&session{repo: repo, history: hist, index: idx})
}

// Index loads the stored index without locking the repository.
func (t *Tracker) Index(ctx context.Context) (*words.Index, error) {
	var out *words.Index
	err := t.withRepository(ctx, false, func(s *session) error {
		out = s.index
		return nil
	})
	return out, err
}

// Update loads the index under the repository lock, applies fn and saves
// the result. Nothing is saved when fn fails.
func (t *Tracker) Update(ctx context.Context, fn func(idx *words.Index) error) error {
	return t.withRepository(ctx, true, func(s *session) error {
		if err := fn(s.index); err != nil {
			return err
		}
		return s.save(ctx)
	})
}

// Clear empties the repository and its run history.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.withRepository(ctx, true, func(s *session) error {
		s.index.Clear()
		if err := s.save(ctx); err != nil {
			return err
		}
		return s.history.Clear(ctx)
	})
}

// History returns the latest runs, newest first, and totals over all runs.
func (t *Tracker) History(ctx context.Context, limit int) ([]history.Run, history.Totals, error) {
	var runs []history.Run
	var totals history.Totals
	err := t.withRepository(ctx, false, func(s *session) error {
		var err error
		if runs, err = s.history.Recent(ctx, limit); err != nil {
			return err
		}
		totals, err = s.history.Totals(ctx)
		return err
	})
	return runs, totals, err
}

// trackedUnder returns the tracked files equal to, or inside, any of paths.
func trackedUnder(tracked, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	var out []string
	for _, file := range tracked {
		for _, p := range paths {
			p = filepath.Clean(p)
			if file == p || strings.HasPrefix(file, p+string(filepath.Separator)) {
				out = append(out, file)
				break
			}
		}
	}
	return out
}

// fileResult is the tokenized content of one file.
type fileResult struct {
	file  scanner.FileInfo
	occs  []words.Occurrence
	lines int
	err   error
}

// Process indexes paths into the repository and returns the updated index.
// Files that are re-processed replace their earlier occurrences. Missing or
// unreadable inputs are reported as warnings and skipped.
func (t *Tracker) Process(ctx context.Context, paths []string) (*Summary, *words.Index, error) {
	return t.run(ctx, paths, nil)
}

// Sync re-indexes changed files and forgets removed ones in a single locked
// run. The watch command feeds it debounced file events.
func (t *Tracker) Sync(ctx context.Context, changed, removed []string) (*Summary, error) {
	sum, _, err := t.run(ctx, changed, removed)
	return sum, err
}

func (t *Tracker) run(ctx context.Context, paths, removed []string) (*Summary, *words.Index, error) {
	start := t.now()
	sum := &Summary{}
	var out *words.Index

	err := t.withRepository(ctx, true, func(s *session) error {
		t.renderer.UpdateProgress(ui.ProgressEvent{
			Stage:   ui.StageLoading,
			Message: fmt.Sprintf("Repository loaded: %d words", s.index.Len()),
		})

		for _, file := range trackedUnder(s.index.Files(), removed) {
			dropped, err := s.index.ForgetFile(file)
			if err != nil {
				return apperrors.New(apperrors.ErrCodeTrackFailed, "failed to forget file", err).
					WithDetail("file", file)
			}
			sum.Forgotten++
			slog.Debug("file_forgotten", slog.String("file", file), slog.Int("dropped_words", dropped))
		}

		t.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageScanning, Message: "Scanning inputs"})
		scan := &scanner.Result{}
		if len(paths) > 0 {
			var err error
			if scan, err = scanner.Scan(ctx, paths, t.opts.Scan); err != nil {
				return err
			}
		}
		sum.Skipped = append(sum.Skipped, scan.Skipped...)
		for _, sk := range scan.Skipped {
			t.renderer.AddError(ui.ErrorEvent{File: sk.Path, Err: errors.New(string(sk.Reason)), IsWarn: true})
		}

		results, err := t.tokenize(ctx, scan.Files)
		if err != nil {
			return err
		}

		for i, r := range results {
			t.renderer.UpdateProgress(ui.ProgressEvent{
				Stage:       ui.StageMerging,
				Current:     i + 1,
				Total:       len(results),
				CurrentFile: r.file.Path,
			})
			if r.err != nil {
				sum.Skipped = append(sum.Skipped, scanner.Skipped{Path: r.file.Path, Reason: scanner.SkipUnreadable})
				t.renderer.AddError(ui.ErrorEvent{File: r.file.Path, Err: r.err, IsWarn: true})
				continue
			}

			added, _, err := s.index.ReplaceFile(r.file.Path, r.occs)
			if err != nil {
				return apperrors.New(apperrors.ErrCodeTrackFailed, "failed to record words", err).
					WithDetail("file", r.file.Path)
			}
			sum.Files++
			sum.Lines += r.lines
			sum.Tokens += len(r.occs)
			sum.NewWords += added
		}
		sum.TotalWords = s.index.Len()

		t.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageSaving, Message: "Saving repository"})
		if err := s.save(ctx); err != nil {
			return err
		}

		sum.Duration = t.now().Sub(start)
		t.recordRun(ctx, s.history, start, sum)
		out = s.index
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("track_complete",
		slog.Int("files", sum.Files),
		slog.Int("lines", sum.Lines),
		slog.Int("tokens", sum.Tokens),
		slog.Int("new_words", sum.NewWords),
		slog.Int("total_words", sum.TotalWords),
		slog.Int("forgotten", sum.Forgotten),
		slog.Int("skipped", len(sum.Skipped)),
		slog.Duration("duration", sum.Duration))

	t.renderer.Complete(ui.CompletionStats{
		Files:      sum.Files,
		Lines:      sum.Lines,
		Tokens:     sum.Tokens,
		NewWords:   sum.NewWords,
		TotalWords: sum.TotalWords,
		Duration:   sum.Duration,
		Warnings:   len(sum.Skipped),
	})
	return sum, out, nil
}

// tokenize reads files concurrently. Results keep the order of files so
// merging is deterministic regardless of scheduling.
func (t *Tracker) tokenize(ctx context.Context, files []scanner.FileInfo) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			res := fileResult{file: f}
			res.err = scanner.ReadLines(gctx, f.AbsPath, func(lineNo int, line string) error {
				res.lines = lineNo
				for _, tok := range t.opts.Tokenizer.Tokenize(line) {
					res.occs = append(res.occs, words.Occurrence{Word: tok, Line: lineNo})
				}
				return nil
			})
			if res.err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = res
			t.renderer.UpdateProgress(ui.ProgressEvent{
				Stage:       ui.StageTokenizing,
				Current:     i + 1,
				Total:       len(files),
				CurrentFile: f.Path,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// recordRun stores the run summary. History is best effort: the index has
// already been saved when it runs.
func (t *Tracker) recordRun(ctx context.Context, h *history.Store, start time.Time, sum *Summary) {
	_, err := h.Record(ctx, history.Run{
		StartedAt:  start,
		FinishedAt: start.Add(sum.Duration),
		Files:      sum.Files,
		Lines:      sum.Lines,
		Tokens:     sum.Tokens,
		NewWords:   sum.NewWords,
		TotalWords: sum.TotalWords,
	})
	if err != nil {
		slog.Warn("history_record_failed", slog.String("error", err.Error()))
	}
}
