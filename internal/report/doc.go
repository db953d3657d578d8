// Package report prints the statistics of a finished crawl.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the Swedish plain text summary for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: tables and a pages-per-depth pie chart for sharing
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so new output formats can be added
// without touching the crawl engine or the content writer.
package report
