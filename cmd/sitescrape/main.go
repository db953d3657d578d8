// Package main provides the entry point for the sitescrape CLI.
//
// sitescrape crawls one website depth-first, stays on its domain, and saves
// the readable text of every page into chunked text files.
//
// Usage:
//
//	sitescrape crawl <url>
//	sitescrape crawl --depth 3 --max-pages 200 <url>
//
// See --help for all available options.
package main

// main is the entry point for sitescrape.
func main() {
	Execute()
}
