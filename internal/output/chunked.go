package output

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/sitescrape/internal/model"
)

const (
	// DefaultWordLimit is the soft cap on words per output file.
	DefaultWordLimit = 500000

	// TimestampLayout formats the run timestamp (YYYYMMDD_HHMMSS).
	TimestampLayout = "20060102_150405"

	// FilePrefix and FileSuffix frame the 1-based file number.
	FilePrefix = "scraped_content_"
	FileSuffix = ".txt"

	// headerRule ends the summary header.
	headerRule = "-------------------"
)

// ErrInvalidBaseURL is returned when the summary's base URL has no host
// to name the output directory after.
var ErrInvalidBaseURL = errors.New("base URL has no host")

// Summary describes the crawl in each file's header.
type Summary struct {
	// BaseURL is the normalized start URL.
	BaseURL string

	// PagesVisited is the size of the crawl's visited set.
	PagesVisited int

	// MaxDepth is the depth budget the crawl ran with.
	MaxDepth int
}

// Result describes what Write produced.
type Result struct {
	// Dir is the created run directory.
	Dir string

	// Files are the written file paths in write order.
	Files []string

	// Timestamp is the run timestamp used in Dir and the header.
	Timestamp string

	// TotalWords is the word count of every stored page.
	TotalWords int
}

// ChunkedWriter splits a ContentStore into word-limited text files.
type ChunkedWriter struct {
	// outputDir is the parent of every run directory.
	outputDir string

	// wordLimit is the soft cap on words per file.
	wordLimit int

	// now returns the run time. Replaced in tests.
	now func() time.Time
}

// ChunkedOption configures a ChunkedWriter.
type ChunkedOption func(*ChunkedWriter)

// WithWordLimit sets the soft cap on words per file.
// Non-positive values are ignored.
func WithWordLimit(limit int) ChunkedOption {
	return func(w *ChunkedWriter) {
		if limit > 0 {
			w.wordLimit = limit
		}
	}
}

// WithClock sets the function used to timestamp a run.
func WithClock(now func() time.Time) ChunkedOption {
	return func(w *ChunkedWriter) {
		w.now = now
	}
}

// NewChunkedWriter creates a writer placing run directories under outputDir.
func NewChunkedWriter(outputDir string, opts ...ChunkedOption) *ChunkedWriter {
	w := &ChunkedWriter{
		outputDir: outputDir,
		wordLimit: DefaultWordLimit,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write plans the chunks of store, then creates the run directory and
// writes each file in turn. Depths are written in ascending order and the
// pages of one depth in insertion order. An empty store still produces one
// file holding only the header.
func (w *ChunkedWriter) Write(store *model.ContentStore, summary Summary) (*Result, error) {
	u, err := url.Parse(summary.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, summary.BaseURL)
	}

	timestamp := w.now().Format(TimestampLayout)
	totalWords := store.TotalWords()

	// Both file-count notes are five words long, so the header's word count
	// is known before the plan.
	headerWords := model.CountWords(w.header(summary, timestamp, totalWords, 1))
	chunks := w.plan(blocks(store), headerWords)
	header := w.header(summary, timestamp, totalWords, len(chunks))

	dir := filepath.Join(w.outputDir, DirName(u.Host, timestamp))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{
		Dir:        dir,
		Timestamp:  timestamp,
		TotalWords: totalWords,
	}

	for i, chunk := range chunks {
		path := filepath.Join(dir, FilePrefix+strconv.Itoa(i+1)+FileSuffix)
		if err := writeFile(path, header, chunk); err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
	}

	return result, nil
}

// DirName returns the run directory name for host, e.g.
// "www_example_com_20240101_120000". A port separator is replaced as well.
func DirName(host, timestamp string) string {
	name := strings.NewReplacer(".", "_", ":", "_").Replace(host)
	return name + "_" + timestamp
}

// FormatBlock renders one page block.
func FormatBlock(rec model.PageRecord) string {
	return "KÄLLA: " + rec.URL + "\nDJUP: " + strconv.Itoa(rec.Depth) + "\n" + rec.Content
}

// blocks renders every record of store in output order.
func blocks(store *model.ContentStore) []string {
	records := store.Records()
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, FormatBlock(rec))
	}
	return out
}

// plan groups blocks into files. The running count of a file starts at
// headerWords. A block that would push it past the limit starts a new file,
// unless the current file holds no block yet.
func (w *ChunkedWriter) plan(blocks []string, headerWords int) [][]string {
	var chunks [][]string
	var current []string
	running := headerWords

	for _, block := range blocks {
		words := model.CountWords(block)
		if running+words > w.wordLimit && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			running = headerWords
		}
		current = append(current, block)
		running += words
	}

	// The last file is written even when empty so an empty crawl still
	// leaves its header behind.
	return append(chunks, current)
}

// header renders the summary block shared by every file of a run. The
// note reports files, the number of files the run actually writes.
func (w *ChunkedWriter) header(s Summary, timestamp string, totalWords, files int) string {
	note := "All data i en fil"
	if files > 1 {
		note = fmt.Sprintf("Innehållet är uppdelat på %d filer", files)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Skrapning av: %s\n", s.BaseURL)
	fmt.Fprintf(&sb, "Tidpunkt: %s\n", timestamp)
	fmt.Fprintf(&sb, "Antal skrapade sidor: %d\n", s.PagesVisited)
	fmt.Fprintf(&sb, "Skrapningsdjup: %d\n", s.MaxDepth)
	fmt.Fprintf(&sb, "Totalt antal ord: %s\n", model.FormatCount(totalWords))
	sb.WriteString(note + "\n")
	sb.WriteString(headerRule + "\n")
	return sb.String()
}

// writeFile creates path and writes the header followed by each block
// after a blank line. The file is closed before returning.
func writeFile(path, header string, blocks []string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(header); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	for _, block := range blocks {
		if _, err := bw.WriteString("\n" + block + "\n"); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
