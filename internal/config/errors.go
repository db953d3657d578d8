package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no start URL is given and none was entered
	// at the prompt.
	ErrNoTarget = errors.New("no target specified: provide a URL to crawl")

	// ErrInvalidMaxDepth is returned when the depth budget is outside 1-10.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be between 1 and 10")

	// ErrInvalidMaxPages is returned when the page budget is outside 1-1000.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be between 1 and 1000")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidWordLimit is returned when the words-per-file limit is not positive.
	ErrInvalidWordLimit = errors.New("invalid word limit: must be positive")

	// ErrUnknownParser is returned for a parser name other than "html" or "goquery".
	ErrUnknownParser = errors.New("unknown parser: must be html or goquery")

	// ErrUnknownLogFormat is returned for a log format other than "text" or "json".
	ErrUnknownLogFormat = errors.New("unknown log format: must be text or json")

	// ErrInvalidLanguage is returned when an ignored language is not a
	// valid language code.
	ErrInvalidLanguage = errors.New("invalid language code")
)
