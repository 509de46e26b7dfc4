package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordtracker/internal/output"
	"github.com/Aman-CERP/wordtracker/internal/suggest"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

func newLookupCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "lookup <word>...",
		Short: "Show where words occur",
		Long: `Print the files and line numbers recorded for each word. Words that are
not in the repository are answered with the closest recorded words.`,
		Example: `  wordtracker lookup elephant
  wordtracker lookup --suggest 0 the and`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, a, args, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "suggest", suggest.DefaultLimit, "Suggestions to show for unknown words (0 disables)")

	return cmd
}

func runLookup(cmd *cobra.Command, a *app, args []string, limit int) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	idx, err := a.newTracker(cfg, nil).Index(cmd.Context())
	if err != nil {
		return err
	}

	w := output.New(cmd.OutOrStdout(), a.noColor)
	var missing []string
	found := 0
	for _, arg := range args {
		word := idx.Lookup(arg)
		if word == nil {
			missing = append(missing, arg)
			continue
		}
		if found > 0 {
			w.Newline()
		}
		found++
		w.Header(fmt.Sprintf("%s (%d occurrence(s) in %d file(s))", word.Text(), word.TotalFrequency(), word.FileCount()))
		for _, file := range word.Files() {
			w.Field(file, joinLines(word.Lines(file)))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	hints := suggestions(cmd.Context(), idx, missing, limit)
	for _, m := range missing {
		w.Warningf("%q is not in the repository", m)
		if len(hints[m]) > 0 {
			w.Status("", "did you mean: "+strings.Join(hints[m], ", ")+"?")
		}
	}
	return nil
}

func joinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// suggestions maps each term to the recorded words closest to it. Failures
// only cost the hints, so they are logged and an empty map is returned.
func suggestions(ctx context.Context, idx *words.Index, terms []string, limit int) map[string][]string {
	out := make(map[string][]string, len(terms))
	if limit <= 0 || len(terms) == 0 || idx.Len() == 0 {
		return out
	}

	s, err := suggest.New(ctx, idx)
	if err != nil {
		slog.Warn("suggestions_unavailable", slog.String("error", err.Error()))
		return out
	}
	defer func() { _ = s.Close() }()

	for _, term := range terms {
		similar, err := s.Similar(ctx, term, limit)
		if err != nil {
			slog.Warn("suggestions_failed", slog.String("term", term), slog.String("error", err.Error()))
			continue
		}
		out[term] = suggest.Words(similar)
	}
	return out
}
