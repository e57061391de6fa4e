package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The paths match the layout of a checkout that keeps its data under ./data.
const (
	// DefaultInputPath is the identifier list, one identifier per line.
	DefaultInputPath = "./data/pkgs.txt"

	// DefaultOutputPath is the license table written by the report command.
	DefaultOutputPath = "./data/pkgs.csv"

	// DefaultDistributionPath is the license,sub-license,count table
	// written by the dist command.
	DefaultDistributionPath = "./data/pkgs_distribution.csv"

	// DefaultCommand is the package evaluator executable.
	DefaultCommand = "nix"

	// DefaultNamespace is the attribute set identifiers are looked up in.
	DefaultNamespace = "nixpkgs"

	// DefaultTimeout of zero lets every evaluator call run to completion.
	// Evaluating a large package can take a long time on a cold store.
	DefaultTimeout time.Duration = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "nixlicense"
)

// Config holds all configuration options for nixlicense.
// It is populated from defaults, the configuration file and CLI flags,
// in that order of precedence, and passed down explicitly.
type Config struct {
	// InputPath is the identifier list read by the report command.
	InputPath string

	// OutputPath is the license table. The report command writes it and
	// the dist command reads it.
	OutputPath string

	// DistributionPath is the distribution table written by the dist command.
	DistributionPath string

	// Command is the evaluator executable, looked up in PATH.
	Command string

	// Namespace is the attribute set prefix, e.g. "nixpkgs" in
	// "nixpkgs#hello.meta.license".
	Namespace string

	// EvalArgs are extra arguments passed to the evaluator after "eval",
	// e.g. ["--extra-experimental-features", "nix-command flakes"].
	EvalArgs []string

	// Timeout bounds each evaluator call. Zero means no timeout.
	Timeout time.Duration

	// StrictExitStatus drops identifiers whose evaluator exits non-zero
	// even when its output parses. When false, only the output counts.
	StrictExitStatus bool

	// History records each report run in the SQLite database under DBDir.
	History bool

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to XDG data directory (~/.local/share/nixlicense on Linux).
	DBDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// JSONReport prints the distribution summary as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the distribution summary as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		InputPath:        DefaultInputPath,
		OutputPath:       DefaultOutputPath,
		DistributionPath: DefaultDistributionPath,
		Command:          DefaultCommand,
		Namespace:        DefaultNamespace,
		Timeout:          DefaultTimeout,
		DBDir:            XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for nixlicense.
// On Linux: ~/.local/share/nixlicense
// On macOS: ~/Library/Application Support/nixlicense
// On Windows: %LOCALAPPDATA%\nixlicense
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nixlicense.
// On Linux: ~/.config/nixlicense
// On macOS: ~/Library/Application Support/nixlicense
// On Windows: %APPDATA%\nixlicense
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrEmptyInputPath
	}

	if c.OutputPath == "" {
		return ErrEmptyOutputPath
	}

	if c.DistributionPath == "" {
		return ErrEmptyDistributionPath
	}

	if samePath(c.InputPath, c.OutputPath) || samePath(c.OutputPath, c.DistributionPath) {
		return ErrSamePath
	}

	if c.Command == "" {
		return ErrEmptyCommand
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// samePath reports whether a and b name the same file lexically.
func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
