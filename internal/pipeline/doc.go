// Package pipeline runs the stages of one site crawl in sequence.
//
// A crawl goes through three steps, each reading and filling the same
// model.CrawlReport: CrawlStep traverses the site, WriteStep writes the
// collected text to chunked files and HistoryStep records the run in the
// history database. Runner processes several start URLs one after another,
// each with its own pipeline.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running crawls
//
// A cancelled context stops the crawl between pages, but steps that report
// RunAfterCancel still run so the pages collected so far are not lost.
package pipeline
