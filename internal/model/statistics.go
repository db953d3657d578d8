package model

// CrawlStatistics summarizes a finished crawl for display.
type CrawlStatistics struct {
	// BaseURL is the crawled start URL.
	BaseURL string `json:"base_url"`

	// PagesVisited is the number of pages fetched successfully.
	PagesVisited int `json:"pages_visited"`

	// PagesStored is the number of pages that produced text.
	PagesStored int `json:"pages_stored"`

	// TotalWords is the word count across all stored pages.
	TotalWords int `json:"total_words"`

	// AverageWords is TotalWords divided by PagesVisited (integer division),
	// or zero when nothing was visited.
	AverageWords int `json:"average_words"`

	// Depths lists the stored page count per depth, depth ascending.
	Depths []DepthCount `json:"depths"`

	// OutputDir is where the content files were written.
	OutputDir string `json:"output_dir,omitempty"`

	// FileCount is the number of content files written.
	FileCount int `json:"file_count"`

	// Cancelled is true if the crawl was interrupted.
	Cancelled bool `json:"cancelled"`

	// Error contains any error message if a step failed.
	Error string `json:"error,omitempty"`
}

// DepthCount is the number of stored pages at one depth.
type DepthCount struct {
	Depth int `json:"depth"`
	Pages int `json:"pages"`
}

// NewCrawlStatistics computes statistics from report.
func NewCrawlStatistics(report *CrawlReport) *CrawlStatistics {
	stats := &CrawlStatistics{
		BaseURL:      report.BaseURL,
		PagesVisited: report.PagesVisited,
		TotalWords:   report.TotalWords(),
		OutputDir:    report.OutputDir,
		FileCount:    len(report.Files),
		Cancelled:    report.Cancelled,
		Error:        report.ErrorMessage,
		Depths:       make([]DepthCount, 0),
	}

	if report.Store != nil {
		stats.PagesStored = report.Store.Len()
		for _, depth := range report.Store.Depths() {
			stats.Depths = append(stats.Depths, DepthCount{
				Depth: depth,
				Pages: len(report.Store.Pages(depth)),
			})
		}
	}

	if stats.PagesVisited > 0 {
		stats.AverageWords = stats.TotalWords / stats.PagesVisited
	}

	return stats
}
