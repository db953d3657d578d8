package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/sitescrape/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for flat report structs and keeps
// the field tags the only schema.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps the crawl report with its statistics and the tool
// version.
//
// Design decision: We wrap the report rather than adding fields to
// CrawlReport so output-only data stays out of the core structure.
type JSONReport struct {
	// Version is the sitescrape version that generated this report.
	Version string `json:"version"`

	// Report is the full crawl report.
	Report *model.CrawlReport `json:"report"`

	// Statistics is the computed summary.
	Statistics *model.CrawlStatistics `json:"statistics"`
}

// Write outputs report and its statistics.
func (w *JSONWriter) Write(report *model.CrawlReport) (int, error) {
	return w.writeJSON(&JSONReport{
		Report:     report,
		Statistics: model.NewCrawlStatistics(report),
	})
}

// WriteStatistics outputs only the statistics.
func (w *JSONWriter) WriteStatistics(stats *model.CrawlStatistics) (int, error) {
	return w.writeJSON(stats)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// FullJSONWriter outputs complete reports with the version filled in.
type FullJSONWriter struct {
	*JSONWriter

	// version is the sitescrape version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the full report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.CrawlReport) (int, error) {
	return w.writeJSON(&JSONReport{
		Version:    w.version,
		Report:     report,
		Statistics: model.NewCrawlStatistics(report),
	})
}
