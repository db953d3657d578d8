package crawler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/sitescrape/internal/extract"
	"github.com/nao1215/sitescrape/internal/htmlnode"
	"github.com/nao1215/sitescrape/internal/model"
)

// Spider defaults. They match the widest budgets the CLI accepts.
const (
	defaultMaxDepth = 10
	defaultMaxPages = 1000
)

// TextExtractor turns a parsed page into plain text.
// It may modify doc; link discovery runs on the modified document.
type TextExtractor interface {
	Extract(doc htmlnode.Document) string
}

// Spider crawls a single site depth-first within a depth and page budget.
//
// The frontier is an explicit stack owned by Crawl, not recursion, so
// deep sites cannot grow the goroutine stack and a cancelled ctx is seen
// between any two pages.
//
// A Spider only holds configuration. Each Crawl call builds its own visited
// set, content store and frontier, so one Spider can crawl several sites in
// turn.
type Spider struct {
	// fetcher retrieves pages.
	fetcher Fetcher

	// extractor turns a parsed page into text.
	extractor TextExtractor

	// parse builds the HTML tree the extractor works on.
	parse htmlnode.ParseFunc

	// maxDepth: no task at depth >= maxDepth is fetched.
	// 1 means only the start page.
	maxDepth int

	// maxPages caps the number of visited URLs across the whole crawl.
	maxPages int

	// ignoreLanguages are language codes whose path sections are skipped,
	// in addition to "en".
	ignoreLanguages []string

	// paths applies the optional ignore and follow glob patterns.
	paths pathFilter

	// logger receives progress and failure records.
	logger *slog.Logger

	// mutex protects stats, which may be read while a crawl runs.
	mutex sync.Mutex

	// stats are the counters of the current or last crawl.
	stats Stats
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the depth budget.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the page budget.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithIgnoreLanguages adds language codes whose path sections ("/de/")
// are never followed. "en" is always excluded.
func WithIgnoreLanguages(codes []string) SpiderOption {
	return func(s *Spider) {
		s.ignoreLanguages = codes
	}
}

// WithIgnorePatterns sets URL path glob patterns to skip during crawling.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.paths.ignore = patterns
	}
}

// WithFollowPatterns restricts crawling to URL paths matching at least one
// of the glob patterns. Empty means all paths are allowed.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.paths.follow = patterns
	}
}

// WithExtractor replaces the text extractor.
func WithExtractor(e TextExtractor) SpiderOption {
	return func(s *Spider) {
		s.extractor = e
	}
}

// WithParser selects the HTML parsing backend.
func WithParser(parse htmlnode.ParseFunc) SpiderOption {
	return func(s *Spider) {
		s.parse = parse
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that fetches pages with fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:   fetcher,
		extractor: extract.New(),
		parse:     htmlnode.Parse,
		maxDepth:  defaultMaxDepth,
		maxPages:  defaultMaxPages,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result is the outcome of one crawl.
type Result struct {
	// BaseURL is the normalized start URL.
	BaseURL string

	// Visited lists every visited URL in visit order.
	Visited []string

	// Store holds the extracted text of visited pages with content.
	Store *model.ContentStore

	// Stats are the crawl counters.
	Stats Stats
}

// Stats contains crawl counters.
type Stats struct {
	// PagesVisited is the number of URLs marked visited.
	PagesVisited int

	// PagesStored is the number of pages that produced text.
	PagesStored int

	// FetchFailures counts network errors and non-200 responses.
	FetchFailures int

	// Faults counts pages whose parsing or extraction failed.
	Faults int

	// DepthExceeded counts tasks dropped by the depth budget.
	DepthExceeded int

	// PageBudgetExceeded counts tasks dropped by the page budget.
	PageBudgetExceeded int

	// Duplicates counts tasks for already visited URLs.
	Duplicates int

	// LinksAccepted counts links pushed onto the frontier.
	LinksAccepted int

	// LinksRejected counts links dropped by the scope or path filters,
	// including hrefs that could not be resolved.
	LinksRejected int
}

// crawlState is everything one Crawl call owns.
type crawlState struct {
	scope    *DomainScope
	frontier frontier
	visited  map[string]struct{}
	order    []string
	store    *model.ContentStore
}

// Crawl crawls the site at startURL and returns what it found.
//
// The start URL is normalized first, so "example.com" crawls
// "https://example.com". Only an unusable start URL is an error. A
// cancelled ctx stops the crawl between tasks and returns the partial
// result together with ctx.Err().
func (s *Spider) Crawl(ctx context.Context, startURL string) (*Result, error) {
	base := NormalizeURL(startURL)

	scope, err := NewDomainScope(base, s.ignoreLanguages)
	if err != nil {
		return nil, err
	}

	st := &crawlState{
		scope:   scope,
		visited: make(map[string]struct{}),
		store:   model.NewContentStore(),
	}
	st.frontier.push(task{url: base, depth: 0})

	s.mutex.Lock()
	s.stats = Stats{}
	s.mutex.Unlock()

	s.logger.Info("starting crawl",
		"url", base,
		"maxDepth", s.maxDepth,
		"maxPages", s.maxPages,
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Warn("crawl cancelled",
				"url", base,
				"pending", st.frontier.size(),
				"reason", ctx.Err(),
			)
			return s.result(base, st), ctx.Err()
		default:
		}

		t, ok := st.frontier.pop()
		if !ok {
			break
		}
		s.process(ctx, st, t)
	}

	result := s.result(base, st)
	s.logger.Info("crawl completed",
		"url", base,
		"pagesVisited", result.Stats.PagesVisited,
		"pagesStored", result.Stats.PagesStored,
		"fetchFailures", result.Stats.FetchFailures,
	)

	return result, nil
}

// process runs one task through the budget checks, the fetcher and the
// extractor, then pushes its accepted links.
func (s *Spider) process(ctx context.Context, st *crawlState, t task) {
	pageURL := NormalizeURL(t.url)

	switch {
	case t.depth >= s.maxDepth:
		s.count(func(stats *Stats) { stats.DepthExceeded++ })
		return
	case len(st.visited) >= s.maxPages:
		s.count(func(stats *Stats) { stats.PageBudgetExceeded++ })
		return
	}
	if _, seen := st.visited[pageURL]; seen {
		s.count(func(stats *Stats) { stats.Duplicates++ })
		return
	}

	s.logger.Info("fetching page", "url", pageURL, "depth", t.depth)

	resp, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.logger.Warn("fetch failed", "url", pageURL, "depth", t.depth, "error", err)
		s.count(func(stats *Stats) { stats.FetchFailures++ })
		return
	}

	page, err := s.parsePage(pageURL, resp)
	if err != nil {
		s.logger.Error("page processing failed", "url", pageURL, "depth", t.depth, "error", err)
		s.count(func(stats *Stats) { stats.Faults++ })
		return
	}

	// The page is committed only after extraction succeeded.
	st.visited[pageURL] = struct{}{}
	st.order = append(st.order, pageURL)
	s.count(func(stats *Stats) { stats.PagesVisited++ })

	if page.content != "" {
		st.store.Append(model.PageRecord{URL: pageURL, Depth: t.depth, Content: page.content})
		s.count(func(stats *Stats) { stats.PagesStored++ })
	}

	s.logger.Debug("links discovered", "url", pageURL, "links", len(page.links))

	children := make([]task, 0, len(page.links))
	rejected := page.unresolved
	for _, link := range page.links {
		if !st.scope.Accept(link) || !s.paths.allows(link) {
			rejected++
			continue
		}
		s.logger.Debug("following link", "url", link, "depth", t.depth+1)
		children = append(children, task{url: link, depth: t.depth + 1})
	}
	st.frontier.pushChildren(children)

	s.count(func(stats *Stats) {
		stats.LinksAccepted += len(children)
		stats.LinksRejected += rejected
	})
}

// count applies update to the stats under the mutex.
func (s *Spider) count(update func(*Stats)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	update(&s.stats)
}

// result snapshots the state of a crawl.
func (s *Spider) result(base string, st *crawlState) *Result {
	return &Result{
		BaseURL: base,
		Visited: st.order,
		Store:   st.store,
		Stats:   s.Stats(),
	}
}

// Stats returns the counters of the current or last crawl.
func (s *Spider) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}
