package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/wordtracker/configs"
	"github.com/Aman-CERP/wordtracker/internal/config"
	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the project and user configuration files.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/wordtracker/config.yaml)
  3. Project config (.wordtracker.yaml)
  4. Environment variables (WORDTRACKER_*)`,
		Example: `  # Create .wordtracker.yaml in the project
  wordtracker config init

  # Create the user config instead
  wordtracker config init --user

  # Show effective configuration
  wordtracker config show`,
	}

	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))

	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var user bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from the template",
		Long: `Write a commented configuration template. By default it goes to
.wordtracker.yaml in the project root; with --user it goes to the user
configuration file.

With --force an existing file is backed up next to itself and replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, a, user, force)
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user configuration instead of the project one")
	cmd.Flags().BoolVar(&force, "force", false, "Back up and overwrite an existing file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, a *app, user, force bool) error {
	out := output.New(cmd.OutOrStdout(), a.noColor)

	path := filepath.Join(a.root, config.ProjectConfigYAML)
	template := configs.ProjectConfigTemplate
	if user {
		path = config.GetUserConfigPath()
		template = configs.UserConfigTemplate
	} else if existing := config.ProjectConfigPath(a.root); existing != "" {
		path = existing
	}

	var backup string
	if _, err := os.Stat(path); err == nil {
		if !force {
			out.Warningf("Configuration already exists")
			out.Statusf("📁", "Location: %s", path)
			out.Newline()
			out.Status("💡", "Use --force to replace it (a backup is kept)")
			return nil
		}
		if backup, err = config.BackupFile(path); err != nil {
			return apperrors.IOError("failed to back up configuration", err).WithDetail("path", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.IOError("failed to create config directory", err).WithDetail("path", path)
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return apperrors.IOError("failed to write configuration", err).WithDetail("path", path)
	}

	out.Successf("Created configuration")
	out.Statusf("📁", "Location: %s", path)
	if backup != "" {
		out.Statusf("💾", "Backup: %s", backup)
	}
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the file to customize settings")
	out.Status("", "  2. Run 'wordtracker config show' to verify")
	return nil
}

func newConfigShowCmd(a *app) *cobra.Command {
	var jsonOutput bool
	var source string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging all sources, or a single source
with --source.`,
		Example: `  wordtracker config show
  wordtracker config show --json
  wordtracker config show --source project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, a, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")

	return cmd
}

func runConfigShow(cmd *cobra.Command, a *app, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout(), a.noColor)

	var cfg *config.Config
	var sourceDesc string

	switch source {
	case "merged":
		var err error
		if cfg, err = a.config(); err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + project + env)"

	case "user", "project":
		path := config.GetUserConfigPath()
		if source == "project" {
			path = config.ProjectConfigPath(a.root)
		}
		if path == "" || !fileExists(path) {
			out.Warningf("No %s configuration file found", source)
			out.Status("💡", "Run 'wordtracker config init' to create one")
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return apperrors.IOError("failed to read configuration", err).WithDetail("path", path)
		}
		cfg = config.NewConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return apperrors.ConfigError("failed to parse configuration", err).WithDetail("path", path)
		}
		sourceDesc = fmt.Sprintf("%s (%s)", source, path)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return apperrors.ValidationError(fmt.Sprintf("invalid source: %s", source), nil).
			WithSuggestion("Use one of: merged, user, project, defaults")
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return apperrors.InternalError("failed to marshal configuration", err)
	}
	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

func newConfigPathCmd(a *app) *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Long: `Print the user configuration path, or with --project the project
configuration path (whether or not it exists yet).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if project {
				if path = config.ProjectConfigPath(a.root); path == "" {
					path = filepath.Join(a.root, config.ProjectConfigYAML)
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Print the project configuration path")

	return cmd
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
