package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitescrape/internal/model"
)

// SimpleWriter outputs the plain text crawl statistics.
//
// Design decision: We use plain text without ANSI colors because the
// summary is often piped to a file next to the content files.
type SimpleWriter struct {
	baseWriter

	// verbose adds the failure counters and the file list.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the statistics of report.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	n, err := w.WriteStatistics(model.NewCrawlStatistics(report))
	if err != nil || !w.verbose {
		return n, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Misslyckade hämtningar: %d\n", report.FetchFailures))
	sb.WriteString(fmt.Sprintf("Fel vid bearbetning: %d\n", report.Faults))
	for _, f := range report.Files {
		sb.WriteString("  " + f + "\n")
	}

	m, err := w.output.Write([]byte(sb.String()))
	return n + m, err
}

// WriteStatistics outputs stats in the plain text format.
func (w *SimpleWriter) WriteStatistics(stats *model.CrawlStatistics) (int, error) {
	var sb strings.Builder

	sb.WriteString("\nSKRAPNINGSSTATISTIK:\n")
	sb.WriteString(fmt.Sprintf("Antal skrapade sidor: %d\n", stats.PagesVisited))
	sb.WriteString(fmt.Sprintf("Totalt antal ord: %s\n", model.FormatCount(stats.TotalWords)))
	sb.WriteString(fmt.Sprintf("Genomsnittligt antal ord per sida: %s\n", model.FormatCount(stats.AverageWords)))

	sb.WriteString("Fördelning per djup:\n")
	for _, d := range stats.Depths {
		sb.WriteString(fmt.Sprintf("  Nivå %d: %d sidor\n", d.Depth, d.Pages))
	}

	if stats.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("\nData sparad i: %s\n", stats.OutputDir))
	}
	if stats.FileCount > 1 {
		sb.WriteString(fmt.Sprintf("Innehållet delat på %d filer\n", stats.FileCount))
	}

	switch {
	case stats.Cancelled:
		sb.WriteString("Skrapningen avbröts, resultatet är ofullständigt.\n")
	case stats.Error != "":
		sb.WriteString(fmt.Sprintf("Fel: %s\n", stats.Error))
	}

	return w.output.Write([]byte(sb.String()))
}
