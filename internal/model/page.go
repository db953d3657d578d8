package model

import "strings"

// PageRecord is the extracted text of one successfully fetched, in-scope page.
type PageRecord struct {
	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// Depth is the number of link hops from the start URL.
	Depth int `json:"depth"`

	// Content is the extracted plain text. Never empty for a stored record.
	Content string `json:"content"`
}

// WordCount returns the number of whitespace-separated words in Content.
func (p PageRecord) WordCount() int {
	return CountWords(p.Content)
}

// CountWords returns the number of whitespace-separated words in s.
// Any Unicode white space separates words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
