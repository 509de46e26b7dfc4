package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordtracker/internal/output"
	"github.com/Aman-CERP/wordtracker/internal/suggest"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

func newForgetCmd(a *app) *cobra.Command {
	var file bool

	cmd := &cobra.Command{
		Use:   "forget <word|file>...",
		Short: "Remove words, or everything recorded for files",
		Long: `Remove the given words and all of their occurrences from the repository.
With --file the arguments are tracked file paths instead, and every
occurrence recorded for them is dropped.`,
		Example: `  wordtracker forget the and of
  wordtracker forget --file notes/old.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForget(cmd, a, args, file)
		},
	}

	cmd.Flags().BoolVar(&file, "file", false, "Arguments are file paths rather than words")

	return cmd
}

func runForget(cmd *cobra.Command, a *app, args []string, file bool) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	var removed, missing []string
	var dropped int
	err = a.newTracker(cfg, nil).Update(cmd.Context(), func(idx *words.Index) error {
		for _, arg := range args {
			if file {
				n, err := idx.ForgetFile(arg)
				if err != nil {
					return err
				}
				dropped += n
				removed = append(removed, arg)
				continue
			}
			ok, err := idx.Remove(arg)
			if err != nil {
				return err
			}
			if ok {
				removed = append(removed, arg)
			} else {
				missing = append(missing, arg)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if a.quiet {
		return nil
	}
	w := output.New(cmd.OutOrStdout(), a.noColor)
	if file {
		w.Successf("Forgot %d file(s); %d word(s) no longer occur anywhere", len(removed), dropped)
		return nil
	}
	hints := map[string][]string{}
	if len(missing) > 0 {
		if idx, err := a.newTracker(cfg, nil).Index(cmd.Context()); err == nil {
			hints = suggestions(cmd.Context(), idx, missing, suggest.DefaultLimit)
		}
	}
	for _, m := range missing {
		w.Warningf("%q is not in the repository", m)
		if len(hints[m]) > 0 {
			w.Status("", "did you mean: "+strings.Join(hints[m], ", ")+"?")
		}
	}
	w.Successf("Removed %d word(s)", len(removed))
	return nil
}
