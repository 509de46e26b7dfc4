// Package cmd provides the CLI commands for WordTracker.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordtracker/internal/config"
	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/logging"
	"github.com/Aman-CERP/wordtracker/internal/profiling"
	"github.com/Aman-CERP/wordtracker/internal/scanner"
	"github.com/Aman-CERP/wordtracker/internal/tracker"
	"github.com/Aman-CERP/wordtracker/internal/ui"
	"github.com/Aman-CERP/wordtracker/internal/words"
	"github.com/Aman-CERP/wordtracker/pkg/version"
)

// app holds the persistent flags and per-run state shared by subcommands.
type app struct {
	debug   bool
	quiet   bool
	noColor bool
	dir     string
	profile profiling.Options

	root   string
	cfg    *config.Config
	cfgErr error

	logCleanup func()
	profiler   *profiling.Session
}

// NewRootCmd creates the root command for the wordtracker CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "wordtracker",
		Short: "Index the words in text files and report where they occur",
		Long: `WordTracker records every word it reads together with the files and
lines it appears on. The index is kept in a repository between runs, so
each run adds to what earlier runs collected.

The classic invocation is still accepted:

  wordtracker <input.txt> -pf|-pl|-po [-f<output.txt>]`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to ~/.wordtracker/logs/")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Only print warnings and errors")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", "", "Run as if started in this directory")

	cmd.PersistentFlags().StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = a.setup
	cmd.PersistentPostRunE = a.teardown

	cmd.AddCommand(newTrackCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newLookupCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newForgetCmd(a))
	cmd.AddCommand(newClearCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd(a))

	return cmd
}

// Execute runs the root command with the process arguments. SIGINT and
// SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	cmd.SetArgs(rewriteLegacyArgs(cmd, os.Args[1:]))
	return cmd.ExecuteContext(ctx)
}

var legacyReportFlags = map[string]string{
	"-pf": "pf",
	"-pl": "pl",
	"-po": "po",
}

// rewriteLegacyArgs turns "<input> -pf|-pl|-po [-f<output>]" into
// "track <input> --report <format> [--output <output>]". Anything else is
// returned unchanged.
func rewriteLegacyArgs(root *cobra.Command, args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[0], "-") {
		return args
	}
	for _, c := range root.Commands() {
		if c.Name() == args[0] || c.HasAlias(args[0]) {
			return args
		}
	}
	format, ok := legacyReportFlags[strings.ToLower(args[1])]
	if !ok {
		return args
	}

	out := []string{"track", args[0], "--report", format}
	for _, extra := range args[2:] {
		if strings.HasPrefix(extra, "-f") && len(extra) > 2 {
			out = append(out, "--output", extra[2:])
			continue
		}
		out = append(out, extra)
	}
	return out
}

// setup resolves the project, loads its configuration and starts logging and
// profiling. A configuration error is kept for the commands that need it, so
// "config init --force" can still repair a broken file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	dir := a.dir
	if dir == "" {
		dir = "."
	}
	root, err := config.FindProjectRoot(dir)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeInvalidPath, "failed to resolve project directory", err).
			WithDetail("dir", dir)
	}
	a.root = root
	a.cfg, a.cfgErr = config.Load(root)

	if err := a.startLogging(cmd.ErrOrStderr()); err != nil {
		return err
	}

	if a.profile.Enabled() {
		s, err := profiling.Start(a.profile)
		if err != nil {
			return apperrors.InternalError("failed to start profiling", err)
		}
		a.profiler = s
	}
	return nil
}

func (a *app) startLogging(stderr io.Writer) error {
	var cfg logging.Config
	switch {
	case a.debug:
		cfg = logging.DebugConfig()
	case a.cfgErr == nil && a.cfg.Logging.File != "":
		cfg = logging.DefaultConfig()
		cfg.Level = a.cfg.Logging.Level
		cfg.FilePath = a.cfg.Logging.File
	default:
		// Reports go to stdout; keep stderr for problems only.
		logging.SetupStderr(stderr, "warn")
		return nil
	}

	cleanup, err := logging.SetupDefault(cfg)
	if err != nil {
		return apperrors.IOError("failed to set up logging", err).
			WithDetail("path", cfg.FilePath)
	}
	a.logCleanup = cleanup
	slog.Info("logging_started",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level),
		slog.String("version", version.Version))
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	err := a.profiler.Stop()
	a.profiler = nil

	if a.logCleanup != nil {
		slog.Info("logging_stopped")
		a.logCleanup()
		a.logCleanup = nil
	}
	if err != nil {
		return apperrors.InternalError("failed to write profile", err)
	}
	return nil
}

// config returns the loaded configuration or the error that prevented it.
func (a *app) config() (*config.Config, error) {
	if a.cfgErr != nil {
		return nil, a.cfgErr
	}
	return a.cfg, nil
}

// repositoryPath resolves the configured repository against the project root.
func (a *app) repositoryPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Repository.Path) {
		return cfg.Repository.Path
	}
	return filepath.Join(a.root, cfg.Repository.Path)
}

// newTracker builds a tracker from the configuration.
func (a *app) newTracker(cfg *config.Config, renderer ui.Renderer) *tracker.Tracker {
	return tracker.New(tracker.Options{
		RepositoryPath: a.repositoryPath(cfg),
		LockTimeout:    cfg.LockTimeout(),
		Scan:           scanOptions(cfg),
		Tokenizer:      words.NewTokenizer(cfg.Tokenizer.MinLength, cfg.Tokenizer.StopWords),
		Workers:        cfg.Performance.Workers,
		HotWords:       cfg.Performance.HotWords,
	}, renderer)
}

func scanOptions(cfg *config.Config) scanner.Options {
	return scanner.Options{
		IncludePatterns:  cfg.Paths.Include,
		ExcludePatterns:  cfg.Paths.Exclude,
		MaxFileSize:      cfg.Paths.MaxFileSize,
		IncludeHidden:    cfg.Paths.IncludeHidden,
		RespectGitignore: !cfg.Paths.NoGitignore,
	}
}

// renderer returns the progress renderer for w, honoring --quiet and
// --no-color.
func (a *app) renderer(w io.Writer) ui.Renderer {
	return ui.NewRenderer(ui.NewConfig(w,
		ui.WithNoColor(a.noColor),
		ui.WithQuiet(a.quiet),
	))
}

// useColor decides whether a report written to w is styled.
func (a *app) useColor(cfg *config.Config, w io.Writer) bool {
	if a.noColor {
		return false
	}
	switch cfg.Report.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return !ui.DetectNoColor() && ui.IsTTY(w)
	}
}
