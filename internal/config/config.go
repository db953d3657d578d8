package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

// Default configuration values.
const (
	// DefaultMaxDepth lets the crawl follow links up to nine hops from the
	// start page. It is also the largest depth accepted.
	DefaultMaxDepth = 10

	// DefaultMaxPages is the maximum number of pages visited per site.
	// It is also the largest page budget accepted.
	DefaultMaxPages = 1000

	// MinMaxDepth and MinMaxPages are the smallest budgets accepted.
	MinMaxDepth = 1
	MinMaxPages = 1

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is a desktop browser string. Many sites serve
	// reduced pages or nothing at all to unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultOutputDir is the parent directory of every run directory.
	DefaultOutputDir = "scraped_content"

	// DefaultWordLimit is the soft cap on words per output file.
	DefaultWordLimit = 500000

	// DefaultParser is the HTML backend name.
	DefaultParser = ParserHTML

	// DefaultLogFormat is the log output format.
	DefaultLogFormat = LogFormatText

	// AppName is the application name used for XDG directory paths.
	AppName = "sitescrape"
)

// HTML parser backend names.
const (
	ParserHTML    = "html"
	ParserGoquery = "goquery"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultIgnoreLanguages are the language sections skipped when no
// languages are configured.
var DefaultIgnoreLanguages = []string{"en"}

// Config holds all configuration options for sitescrape.
// It is populated from CLI flags and passed through the application
// rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets are the start URLs, crawled one after another.
	// A URL without a scheme is crawled over https.
	Targets []string

	// MaxDepth is the depth budget. 1 means only the start page.
	MaxDepth int

	// MaxPages is the page budget per site.
	MaxPages int

	// IgnoreLanguages are language codes whose path sections ("/de/")
	// are skipped. "en" is always skipped.
	IgnoreLanguages []string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (10MB).
	MaxBodySize int64

	// OutputDir is the parent of the timestamped run directories.
	OutputDir string

	// WordLimit is the soft cap on words per output file.
	WordLimit int

	// Parser selects the HTML backend: "html" or "goquery".
	Parser string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitescrape in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport prints the crawl statistics as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the crawl statistics as Markdown with a
	// per-depth pie chart. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the statistics report.
	// When empty, the report is printed to stdout.
	ReportFile string

	// DBDir is the directory holding the run history database.
	// Defaults to the XDG data directory (~/.local/share/sitescrape on Linux).
	DBDir string

	// SaveToDB records every finished crawl in the run history.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:        DefaultMaxDepth,
		MaxPages:        DefaultMaxPages,
		IgnoreLanguages: slices.Clone(DefaultIgnoreLanguages),
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		OutputDir:       DefaultOutputDir,
		WordLimit:       DefaultWordLimit,
		Parser:          DefaultParser,
		LogFormat:       DefaultLogFormat,
		DBDir:           XDGDataDir(),
		SaveToDB:        true,
	}
}

// XDGDataDir returns the XDG data directory for sitescrape.
// On Linux: ~/.local/share/sitescrape
// On macOS: ~/Library/Application Support/sitescrape
// On Windows: %LOCALAPPDATA%\sitescrape
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitescrape.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.MaxDepth < MinMaxDepth || c.MaxDepth > DefaultMaxDepth {
		return ErrInvalidMaxDepth
	}

	if c.MaxPages < MinMaxPages || c.MaxPages > DefaultMaxPages {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.WordLimit <= 0 {
		return ErrInvalidWordLimit
	}

	if c.Parser != ParserHTML && c.Parser != ParserGoquery {
		return fmt.Errorf("%w: %q", ErrUnknownParser, c.Parser)
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.LogFormat)
	}

	return ValidateLanguages(c.IgnoreLanguages)
}

// ValidateLanguages checks that every code is a well-formed BCP 47 tag.
func ValidateLanguages(codes []string) error {
	for _, code := range codes {
		if _, err := language.Parse(strings.TrimSpace(code)); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
		}
	}
	return nil
}
