package model

import (
	"net/url"
	"time"
)

// CrawlReport is the result of crawling one site.
// It is filled in step by step as the pipeline runs: the crawl step sets
// the store and visit counts, the write step sets the output location.
//
// Design decision: We use a single struct rather than returning values from
// each step so that every step, the report writers and the history database
// all read the same record.
type CrawlReport struct {
	// BaseURL is the normalized start URL.
	BaseURL string `json:"base_url"`

	// Domain is the host of BaseURL, including any port.
	Domain string `json:"domain"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step completed.
	FinishedAt time.Time `json:"finished_at"`

	// MaxDepth is the depth budget the crawl ran with.
	MaxDepth int `json:"max_depth"`

	// MaxPages is the page budget the crawl ran with.
	MaxPages int `json:"max_pages"`

	// PagesVisited is the number of URLs fetched with status 200.
	PagesVisited int `json:"pages_visited"`

	// Store holds the extracted text of every visited page with content.
	Store *ContentStore `json:"-"`

	// FetchFailures is the number of fetches that failed or returned non-200.
	FetchFailures int `json:"fetch_failures"`

	// Faults is the number of pages whose processing failed after fetching.
	Faults int `json:"faults"`

	// OutputDir is the directory the content files were written to.
	OutputDir string `json:"output_dir,omitempty"`

	// Files lists the written content files in write order.
	Files []string `json:"files,omitempty"`

	// Cancelled is true if the crawl was interrupted before the frontier
	// was exhausted.
	Cancelled bool `json:"cancelled"`

	// RunID is the run history ID, zero when history is disabled.
	RunID int64 `json:"run_id,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains any error that stopped a step.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewCrawlReport creates a report for baseURL with an empty store.
// Domain is taken from the URL host; it is empty if baseURL does not parse.
func NewCrawlReport(baseURL string, maxDepth, maxPages int) *CrawlReport {
	domain := ""
	if u, err := url.Parse(baseURL); err == nil {
		domain = u.Host
	}

	return &CrawlReport{
		BaseURL:   baseURL,
		Domain:    domain,
		StartedAt: time.Now(),
		MaxDepth:  maxDepth,
		MaxPages:  maxPages,
		Store:     NewContentStore(),
	}
}

// TotalWords returns the total word count of the stored pages.
func (r *CrawlReport) TotalWords() int {
	if r.Store == nil {
		return 0
	}
	return r.Store.TotalWords()
}
