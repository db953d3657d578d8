// Package crawler provides the depth-bounded, single-domain crawl engine.
//
// # Architecture
//
// The package is designed around the Spider type, which owns one crawl's
// visited set and content store and drives an explicit stack frontier of
// (url, depth) tasks. Traversal is depth-first and left-to-right in the
// order links appear in each page.
//
// # Components
//
//   - NormalizeURL / ResolveLink: absolute URL canonicalization
//   - DomainScope: decides whether a discovered link may be followed
//   - Fetcher / HTTPFetcher: one blocking GET per page, only 200 is accepted
//   - Spider: the engine tying fetcher, extractor and scope together
//
// # Budgets
//
// Two global budgets bound a crawl: no task at depth >= maxDepth is
// fetched, and no more than maxPages URLs are ever marked visited. Both are
// checked against the single shared visited set when a task is popped.
//
// # Failure handling
//
// Every task is isolated. A failed fetch, a non-200 response, or a fault
// while parsing or extracting is logged and the URL is left unvisited; the
// crawl continues with the next task. There are no retries.
//
// # Usage
//
//	spider := crawler.NewSpider(crawler.NewHTTPFetcher(nil), crawler.WithMaxDepth(3))
//	result, err := spider.Crawl(ctx, "example.com")
package crawler
