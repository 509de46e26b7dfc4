package cmd

import (
	"regexp"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/logging"
	"github.com/Aman-CERP/wordtracker/internal/ui"
)

type logsFlags struct {
	lines  int
	level  string
	filter string
	file   string
}

func newLogsCmd(a *app) *cobra.Command {
	var flags logsFlags

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the WordTracker log file",
		Long: `Print recent entries from the JSON log written by --debug or by
logging.file in the configuration.`,
		Example: `  wordtracker logs
  wordtracker logs -n 200 --level warn
  wordtracker logs --grep track_complete`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, a, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.lines, "lines", "n", 50, "Number of lines to read from the end (0 = all)")
	cmd.Flags().StringVar(&flags.level, "level", "", "Minimum level (debug|info|warn|error)")
	cmd.Flags().StringVar(&flags.filter, "grep", "", "Only show lines matching this regular expression")
	cmd.Flags().StringVar(&flags.file, "file", "", "Log file to read (default from config or ~/.wordtracker/logs)")

	return cmd
}

func runLogs(cmd *cobra.Command, a *app, flags logsFlags) error {
	explicit := flags.file
	if explicit == "" && a.cfgErr == nil && a.cfg != nil {
		explicit = a.cfg.Logging.File
	}
	path, err := logging.FindLogFile(explicit)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeFileNotFound, "no log file found", err).
			WithSuggestion("Run a command with --debug to start logging")
	}

	var pattern *regexp.Regexp
	if flags.filter != "" {
		if pattern, err = regexp.Compile(flags.filter); err != nil {
			return apperrors.ValidationError("invalid --grep pattern", err)
		}
	}

	noColor := a.noColor || ui.DetectNoColor() || !ui.IsTTY(cmd.OutOrStdout())
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   flags.level,
		Pattern: pattern,
		Styles:  ui.GetStyles(noColor),
	}, cmd.OutOrStdout())

	entries, err := viewer.Tail(path, flags.lines)
	if err != nil {
		return apperrors.IOError("failed to read log file", err).WithDetail("path", path)
	}
	viewer.Print(entries)
	return nil
}
