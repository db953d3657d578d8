package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/sitescrape/internal/crawler"
	"github.com/nao1215/sitescrape/internal/database"
	"github.com/nao1215/sitescrape/internal/model"
	"github.com/nao1215/sitescrape/internal/output"
)

// Step names.
const (
	StepCrawl   = "crawl"
	StepWrite   = "write"
	StepHistory = "history"
)

// CrawlStep traverses the site at report.BaseURL.
//
// Design decision: The step owns a configured Spider rather than the crawl
// settings, so the CLI decides the fetcher, budgets and filters and the
// step only moves results into the report.
type CrawlStep struct {
	// spider performs the crawl.
	spider *crawler.Spider

	// logger for structured logging.
	logger *slog.Logger
}

// NewCrawlStep creates a crawl step using spider.
func NewCrawlStep(spider *crawler.Spider, logger *slog.Logger) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlStep{spider: spider, logger: logger}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return StepCrawl
}

// Do crawls the site and stores the visited count, the content and the
// failure counters in report. A cancelled crawl keeps its partial result
// and marks the report cancelled.
func (s *CrawlStep) Do(ctx context.Context, report *model.CrawlReport) error {
	result, err := s.spider.Crawl(ctx, report.BaseURL)
	if result != nil {
		report.BaseURL = result.BaseURL
		if u, perr := url.Parse(result.BaseURL); perr == nil {
			report.Domain = strings.ToLower(u.Host)
		}
		report.Store = result.Store
		report.PagesVisited = len(result.Visited)
		report.FetchFailures = result.Stats.FetchFailures
		report.Faults = result.Stats.Faults
		report.FinishedAt = time.Now()
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			report.Cancelled = true
			s.logger.Warn("crawl interrupted, keeping partial result",
				"url", report.BaseURL,
				"pagesVisited", report.PagesVisited,
			)
			return nil
		}
		return fmt.Errorf("crawl failed: %w", err)
	}

	return nil
}

// WriteStep writes the collected content to chunked text files.
type WriteStep struct {
	writer *output.ChunkedWriter
}

// NewWriteStep creates a write step using writer.
func NewWriteStep(writer *output.ChunkedWriter) *WriteStep {
	return &WriteStep{writer: writer}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return StepWrite
}

// RunAfterCancel reports that content collected before a cancellation is
// still written.
func (s *WriteStep) RunAfterCancel() bool {
	return true
}

// Do writes report.Store and records the output directory and files.
func (s *WriteStep) Do(_ context.Context, report *model.CrawlReport) error {
	if report.Store == nil {
		report.Store = model.NewContentStore()
	}

	result, err := s.writer.Write(report.Store, output.Summary{
		BaseURL:      report.BaseURL,
		PagesVisited: report.PagesVisited,
		MaxDepth:     report.MaxDepth,
	})
	if result != nil {
		report.OutputDir = result.Dir
		report.Files = result.Files
	}
	if err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// HistoryStep records the finished run in the history database.
// A database failure is logged and does not fail the crawl.
type HistoryStep struct {
	db     *database.CrawlDB
	logger *slog.Logger
}

// NewHistoryStep creates a history step writing to db.
func NewHistoryStep(db *database.CrawlDB, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return StepHistory
}

// RunAfterCancel reports that interrupted runs are recorded too.
func (s *HistoryStep) RunAfterCancel() bool {
	return true
}

// Do saves report and stores the new run ID in it.
func (s *HistoryStep) Do(_ context.Context, report *model.CrawlReport) error {
	// The crawl context may already be cancelled; the insert must not be.
	runID, err := s.db.SaveRun(context.Background(), report)
	if err != nil {
		s.logger.Warn("failed to save run history", "url", report.BaseURL, "error", err)
		return nil
	}

	report.RunID = runID
	s.logger.Debug("run saved to history", "url", report.BaseURL, "runID", runID)
	return nil
}
