package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordtracker/internal/report"
)

func newTrackCmd(a *app) *cobra.Command {
	var reportFormat string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "track <path>...",
		Short: "Index the words in files and directories",
		Long: `Read every input file, record each word with the file and line it appears
on, and save the result to the repository. Directories are walked using the
include and exclude patterns from the configuration.

Re-tracking a file replaces what was recorded for it before. Missing and
unreadable inputs are reported as warnings and skipped.`,
		Example: `  wordtracker track notes.txt
  wordtracker track docs/ --report pl
  wordtracker track a.txt b.txt --report po --output report.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, a, args, reportFormat, outputPath)
		},
	}

	cmd.Flags().StringVarP(&reportFormat, "report", "r", "", "Print a report afterwards (pf, pl, po, json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func runTrack(cmd *cobra.Command, a *app, paths []string, reportFormat, outputPath string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	// Reject a bad format before touching the repository.
	var format report.Format
	if reportFormat != "" {
		if format, err = report.ParseFormat(reportFormat); err != nil {
			return err
		}
	}

	renderer := a.renderer(cmd.ErrOrStderr())
	if err := renderer.Start(cmd.Context()); err != nil {
		return err
	}
	defer func() { _ = renderer.Stop() }()

	_, idx, err := a.newTracker(cfg, renderer).Process(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if format == "" {
		return nil
	}
	return a.writeReport(cmd, cfg, idx, format, outputPath)
}
