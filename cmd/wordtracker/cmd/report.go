package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordtracker/internal/config"
	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/output"
	"github.com/Aman-CERP/wordtracker/internal/report"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

func newReportCmd(a *app) *cobra.Command {
	var formatFlag string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report of the indexed words",
		Long: `Print the words in the repository in alphabetical order without reading
any new input.

Formats:
  pf    words with the files they appear in
  pl    words with files and line numbers
  po    words with files, line numbers and occurrence counts
  json  the same data for scripts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, a, formatFlag, outputPath)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Report format (default from config, po)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func runReport(cmd *cobra.Command, a *app, formatFlag, outputPath string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	if formatFlag == "" {
		formatFlag = cfg.Report.Format
	}
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	idx, err := a.newTracker(cfg, nil).Index(cmd.Context())
	if err != nil {
		return err
	}
	return a.writeReport(cmd, cfg, idx, format, outputPath)
}

// writeReport renders idx to stdout, or to outputPath when set. Files never
// get color.
func (a *app) writeReport(cmd *cobra.Command, cfg *config.Config, idx *words.Index, format report.Format, outputPath string) error {
	if outputPath == "" {
		out := cmd.OutOrStdout()
		return report.Write(out, idx, format, report.Options{Color: a.useColor(cfg, out)})
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return apperrors.IOError("failed to create report file", err).
			WithDetail("path", outputPath)
	}
	if err := report.Write(f, idx, format, report.Options{}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.IOError("failed to write report file", err).
			WithDetail("path", outputPath)
	}

	if !a.quiet {
		output.New(cmd.OutOrStdout(), a.noColor).Successf("Report written to %s", outputPath)
	}
	return nil
}
