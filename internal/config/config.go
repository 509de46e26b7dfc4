// Package config loads WordTracker settings from defaults, the user config,
// the project config and WORDTRACKER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/report"
)

// Project config file names, in lookup order.
const (
	ProjectConfigYAML = ".wordtracker.yaml"
	ProjectConfigYML  = ".wordtracker.yml"
)

// Color modes for report output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the complete WordTracker configuration.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Paths       PathsConfig       `yaml:"paths" json:"paths"`
	Repository  RepositoryConfig  `yaml:"repository" json:"repository"`
	Tokenizer   TokenizerConfig   `yaml:"tokenizer" json:"tokenizer"`
	Report      ReportConfig      `yaml:"report" json:"report"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
}

// PathsConfig filters the files discovered under directory inputs.
type PathsConfig struct {
	Include       []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude       []string `yaml:"exclude" json:"exclude"`
	MaxFileSize   int64    `yaml:"max_file_size" json:"max_file_size"`
	IncludeHidden bool     `yaml:"include_hidden,omitempty" json:"include_hidden,omitempty"`
	// NoGitignore indexes files that .gitignore excludes.
	NoGitignore   bool     `yaml:"no_gitignore,omitempty" json:"no_gitignore,omitempty"`
}

// RepositoryConfig locates the persistent word repository.
type RepositoryConfig struct {
	Path        string `yaml:"path" json:"path"`
	LockTimeout string `yaml:"lock_timeout" json:"lock_timeout"`
}

// TokenizerConfig controls how lines are split into words.
type TokenizerConfig struct {
	MinLength int      `yaml:"min_length" json:"min_length"`
	StopWords []string `yaml:"stop_words,omitempty" json:"stop_words,omitempty"`
}

// ReportConfig holds report defaults.
type ReportConfig struct {
	Format string `yaml:"format" json:"format"`
	Color  string `yaml:"color" json:"color"`
}

// LoggingConfig holds file logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// PerformanceConfig tunes processing.
type PerformanceConfig struct {
	Workers       int    `yaml:"workers" json:"workers"`
	HotWords      int    `yaml:"hot_words" json:"hot_words"`
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

var defaultExcludePatterns = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/*.min.js",
	"**/*.lock",
}

// NewConfig returns a configuration with every default applied.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Exclude:     append([]string(nil), defaultExcludePatterns...),
			MaxFileSize: 10 * 1024 * 1024,
		},
		Repository: RepositoryConfig{
			Path:        "repository.db",
			LockTimeout: "5s",
		},
		Tokenizer: TokenizerConfig{
			MinLength: 1,
		},
		Report: ReportConfig{
			Format: string(report.FormatOccurrences),
			Color:  ColorAuto,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Performance: PerformanceConfig{
			Workers:       runtime.NumCPU(),
			HotWords:      1024,
			WatchDebounce: "300ms",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/wordtracker/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/wordtracker/config.yaml
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wordtracker", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "wordtracker", "config.yaml")
	}
	return filepath.Join(home, ".config", "wordtracker", "config.yaml")
}

// UserConfigExists reports whether the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// loadUserConfig returns nil, nil when there is no user config.
func loadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}

	var parsed Config
	if err := parseYAML(path, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Load loads configuration for dir. Precedence, lowest first:
//  1. defaults
//  2. user config (~/.config/wordtracker/config.yaml)
//  3. project config (.wordtracker.yaml in dir)
//  4. WORDTRACKER_* environment variables
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := loadUserConfig()
	if err != nil {
		return nil, apperrors.ConfigError("failed to load user config", err)
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, apperrors.ConfigError("failed to load project config", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.ConfigError("invalid configuration", err).
			WithSuggestion("Check .wordtracker.yaml or run 'wordtracker config show'")
	}
	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if none.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{ProjectConfigYAML, ProjectConfigYML} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func (c *Config) loadFromFile(dir string) error {
	path := ProjectConfigPath(dir)
	if path == "" {
		return nil
	}

	var parsed Config
	if err := parseYAML(path, &parsed); err != nil {
		return err
	}
	c.mergeWith(&parsed)
	return nil
}

func parseYAML(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeWith copies the non-zero values of other into c. Exclude patterns
// accumulate; stop words and include patterns replace.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if len(other.Paths.Include) > 0 {
		c.Paths.Include = other.Paths.Include
	}
	if len(other.Paths.Exclude) > 0 {
		c.Paths.Exclude = appendUnique(c.Paths.Exclude, other.Paths.Exclude...)
	}
	if other.Paths.MaxFileSize != 0 {
		c.Paths.MaxFileSize = other.Paths.MaxFileSize
	}
	if other.Paths.IncludeHidden {
		c.Paths.IncludeHidden = true
	}
	if other.Paths.NoGitignore {
		c.Paths.NoGitignore = true
	}

	if other.Repository.Path != "" {
		c.Repository.Path = other.Repository.Path
	}
	if other.Repository.LockTimeout != "" {
		c.Repository.LockTimeout = other.Repository.LockTimeout
	}

	if other.Tokenizer.MinLength != 0 {
		c.Tokenizer.MinLength = other.Tokenizer.MinLength
	}
	if len(other.Tokenizer.StopWords) > 0 {
		c.Tokenizer.StopWords = other.Tokenizer.StopWords
	}

	if other.Report.Format != "" {
		c.Report.Format = other.Report.Format
	}
	if other.Report.Color != "" {
		c.Report.Color = other.Report.Color
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}

	if other.Performance.Workers != 0 {
		c.Performance.Workers = other.Performance.Workers
	}
	if other.Performance.HotWords != 0 {
		c.Performance.HotWords = other.Performance.HotWords
	}
	if other.Performance.WatchDebounce != "" {
		c.Performance.WatchDebounce = other.Performance.WatchDebounce
	}
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WORDTRACKER_REPOSITORY"); v != "" {
		c.Repository.Path = v
	}
	if v := os.Getenv("WORDTRACKER_LOCK_TIMEOUT"); v != "" {
		c.Repository.LockTimeout = v
	}
	if v := os.Getenv("WORDTRACKER_REPORT_FORMAT"); v != "" {
		c.Report.Format = v
	}
	if v := os.Getenv("WORDTRACKER_COLOR"); v != "" {
		c.Report.Color = v
	}
	if v := os.Getenv("WORDTRACKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("WORDTRACKER_MIN_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Tokenizer.MinLength = n
		}
	}
	if v := os.Getenv("WORDTRACKER_STOP_WORDS"); v != "" {
		c.Tokenizer.StopWords = strings.Split(v, ",")
	}
	if v := os.Getenv("WORDTRACKER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Performance.Workers = n
		}
	}
}

// FindProjectRoot walks up from startDir to the nearest directory holding a
// .git directory or a project config. It returns startDir when neither is
// found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) || ProjectConfigPath(currentDir) != "" {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// Validate checks the final configuration.
func (c *Config) Validate() error {
	if c.Paths.MaxFileSize < 0 {
		return fmt.Errorf("paths.max_file_size must be non-negative, got %d", c.Paths.MaxFileSize)
	}
	if c.Repository.Path == "" {
		return fmt.Errorf("repository.path must not be empty")
	}
	if _, err := parseDuration("repository.lock_timeout", c.Repository.LockTimeout); err != nil {
		return err
	}
	if c.Tokenizer.MinLength < 0 {
		return fmt.Errorf("tokenizer.min_length must be non-negative, got %d", c.Tokenizer.MinLength)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}

	switch strings.ToLower(c.Report.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("report.color must be 'auto', 'always' or 'never', got %s", c.Report.Color)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	if c.Performance.Workers < 0 {
		return fmt.Errorf("performance.workers must be non-negative, got %d", c.Performance.Workers)
	}
	if c.Performance.HotWords < 0 {
		return fmt.Errorf("performance.hot_words must be non-negative, got %d", c.Performance.HotWords)
	}
	if _, err := parseDuration("performance.watch_debounce", c.Performance.WatchDebounce); err != nil {
		return err
	}
	return nil
}

// LockTimeout returns repository.lock_timeout as a duration.
func (c *Config) LockTimeout() time.Duration {
	d, _ := parseDuration("repository.lock_timeout", c.Repository.LockTimeout)
	return d
}

// WatchDebounce returns performance.watch_debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	d, _ := parseDuration("performance.watch_debounce", c.Performance.WatchDebounce)
	return d
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 500ms or 5s, got %q", key, value)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %s", key, value)
	}
	return d, nil
}

// WriteYAML writes the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
