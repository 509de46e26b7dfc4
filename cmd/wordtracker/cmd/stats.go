package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordtracker/internal/output"
	"github.com/Aman-CERP/wordtracker/internal/watcher"
)

func newStatsCmd(a *app) *cobra.Command {
	var jsonOutput bool
	var runs int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show repository statistics and recent runs",
		Long: `Display the size and shape of the word index: number of words and files,
tree height, the alphabetically first and last words, and the latest
tracking runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, a, jsonOutput, runs)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of recent runs to show")

	return cmd
}

// StatsOutput is the JSON output format for stats.
type StatsOutput struct {
	Repository string         `json:"repository"`
	SizeBytes  int64          `json:"size_bytes"`
	Words      int            `json:"words"`
	Files      int            `json:"files"`
	Height     int            `json:"height"`
	FirstWord  string         `json:"first_word,omitempty"`
	LastWord   string         `json:"last_word,omitempty"`
	WatcherPID int            `json:"watcher_pid,omitempty"`
	TotalRuns  int            `json:"total_runs"`
	RecentRuns []StatsRunView `json:"recent_runs"`
}

// StatsRunView is one tracking run.
type StatsRunView struct {
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Files      int       `json:"files"`
	Lines      int       `json:"lines"`
	NewWords   int       `json:"new_words"`
	TotalWords int       `json:"total_words"`
}

func runStats(cmd *cobra.Command, a *app, jsonOutput bool, limit int) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	t := a.newTracker(cfg, nil)

	idx, err := t.Index(cmd.Context())
	if err != nil {
		return err
	}
	recent, totals, err := t.History(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := &StatsOutput{
		Repository: a.repositoryPath(cfg),
		Words:      idx.Len(),
		Files:      len(idx.Files()),
		Height:     idx.Height(),
		TotalRuns:  totals.Runs,
		RecentRuns: make([]StatsRunView, 0, len(recent)),
	}
	if info, err := os.Stat(out.Repository); err == nil {
		out.SizeBytes = info.Size()
	}
	out.FirstWord, out.LastWord, _ = idx.Bounds()
	if pid, ok := watcher.NewPIDFile(watcher.PIDPath(out.Repository)).Running(); ok {
		out.WatcherPID = pid
	}
	for _, r := range recent {
		out.RecentRuns = append(out.RecentRuns, StatsRunView{
			StartedAt:  r.StartedAt,
			DurationMS: r.Duration().Milliseconds(),
			Files:      r.Files,
			Lines:      r.Lines,
			NewWords:   r.NewWords,
			TotalWords: r.TotalWords,
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printStats(cmd, a, out)
	return nil
}

func printStats(cmd *cobra.Command, a *app, s *StatsOutput) {
	w := output.New(cmd.OutOrStdout(), a.noColor)

	w.Header("Repository")
	w.Field("Path", s.Repository)
	w.Field("Size", humanize.Bytes(uint64(s.SizeBytes)))
	w.Field("Words", humanize.Comma(int64(s.Words)))
	w.Field("Files", humanize.Comma(int64(s.Files)))
	w.Field("Height", s.Height)
	if s.WatcherPID != 0 {
		w.Field("Watcher", fmt.Sprintf("running (pid %d)", s.WatcherPID))
	}
	if s.Words > 0 {
		w.Field("First word", s.FirstWord)
		w.Field("Last word", s.LastWord)
	}
	w.Newline()

	w.Header(fmt.Sprintf("Runs (%d total)", s.TotalRuns))
	if len(s.RecentRuns) == 0 {
		w.Status("", "(none recorded yet)")
		return
	}
	for _, r := range s.RecentRuns {
		w.Statusf("", "%s  %d files, %d lines, %d new words (%d total) in %s",
			humanize.Time(r.StartedAt), r.Files, r.Lines, r.NewWords, r.TotalWords,
			(time.Duration(r.DurationMS) * time.Millisecond).String())
	}
}
