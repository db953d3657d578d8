// Package model defines the core data structures used throughout sitescrape.
//
// This package contains the following main types:
//   - PageRecord: the extracted text of one fetched page
//   - ContentStore: page records grouped by crawl depth
//   - CrawlReport: the result of crawling one site
//   - CrawlStatistics: the summary printed after a crawl
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. The crawler, output, report and database packages
// all use these types.
package model
