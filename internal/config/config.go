package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/uapcse/pubscan/internal/extract"
)

// Default configuration values.
const (
	// DefaultBatchSize of 4 concurrent file extractions keeps multi-file runs
	// fast without saturating the disk on large batches. Users can override
	// this via the --batch CLI flag.
	DefaultBatchSize = 4

	// DefaultSource is the source label recorded for runs whose input comes
	// from stdin rather than a named file.
	DefaultSource = "paste"

	// AppName is the application name used for XDG directory paths.
	AppName = "pubscan"
)

// Config holds all configuration options for pubscan.
// It is populated from CLI flags and the optional .pubscan file, then passed
// through the application via dependency injection rather than global state.
// A single flat struct keeps flag wiring simple; per-source tuning lives in
// the Profiles file instead of here.
type Config struct {
	// Inputs is the list of files to extract from. When empty, the raw
	// publication block is read from stdin.
	Inputs []string

	// Source is the label recorded with saved runs and used to select a
	// heuristic profile from the config file. For file inputs the file's
	// base name is used when this is empty; for stdin, DefaultSource.
	Source string

	// StripHTML converts HTML input to plain text before extraction.
	// Use this for pages saved directly from a citation site instead of
	// copied-and-pasted text.
	StripHTML bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of files extracted concurrently when multiple
	// inputs are given.
	BatchSize int

	// Concurrency is the per-parse fan-out for window scanning. Zero means
	// use the parser's default.
	Concurrency int

	// YearMin and YearMax override the accepted year-anchor range when
	// non-zero. They take precedence over the profile's values.
	YearMin int
	YearMax int

	// MinTitleLen overrides the minimum content-line length when non-zero.
	MinTitleLen int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pubscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Profiles holds per-source heuristic profiles loaded from the config
	// file. This is populated by LoadConfigFile and consulted per input.
	Profiles *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with summary tables and
	// a quartile distribution chart. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/pubscan on Linux).
	DBDir string

	// SaveToDB indicates whether to save extraction runs to the database
	// for later history queries.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// Many defaults are non-zero, so a constructor beats relying on zero values
// and doubles as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		Source:    DefaultSource,
	}
}

// HeuristicsFor resolves the extraction heuristics for a source label.
// Resolution order: built-in defaults, then the config file's defaults and
// per-source profile, then non-zero CLI overrides on top.
func (c *Config) HeuristicsFor(source string) extract.Heuristics {
	h := extract.DefaultHeuristics()
	if c.Profiles != nil {
		h = c.Profiles.GetProfile(source).apply(h)
	}

	if c.YearMin != 0 {
		h.YearMin = c.YearMin
	}
	if c.YearMax != 0 {
		h.YearMax = c.YearMax
	}
	if c.MinTitleLen != 0 {
		h.MinTitleLen = c.MinTitleLen
	}
	return h
}

// XDGDataDir returns the XDG data directory for pubscan.
// On Linux: ~/.local/share/pubscan
// On macOS: ~/Library/Application Support/pubscan
// On Windows: %LOCALAPPDATA%\pubscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pubscan.
// On Linux: ~/.config/pubscan
// On macOS: ~/Library/Application Support/pubscan
// On Windows: %APPDATA%\pubscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found; validation happens once after CLI
// parsing, before any extraction begins.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.YearMin != 0 && c.YearMax != 0 && c.YearMin > c.YearMax {
		return ErrInvalidYearRange
	}

	if c.MinTitleLen < 0 {
		return ErrInvalidMinTitleLen
	}

	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
