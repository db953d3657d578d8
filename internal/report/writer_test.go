package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/sitescrape/internal/model"
)

// sampleReport returns a report with four pages over two depths and
// 1 234 words in total.
func sampleReport() *model.CrawlReport {
	r := model.NewCrawlReport("https://example.com", 2, 100)
	r.PagesVisited = 4
	r.OutputDir = "scraped_content/example_com_20260301_120000"
	r.Files = []string{"a.txt", "b.txt"}
	r.Store.Append(model.PageRecord{URL: "https://example.com", Depth: 0, Content: strings.Repeat("ord ", 1000)})
	r.Store.Append(model.PageRecord{URL: "https://example.com/a", Depth: 1, Content: strings.Repeat("ord ", 200)})
	r.Store.Append(model.PageRecord{URL: "https://example.com/b", Depth: 1, Content: strings.Repeat("ord ", 34)})
	return r
}

// TestSimpleWriter tests the plain text statistics.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes the statistics block", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()

		for _, want := range []string{
			"SKRAPNINGSSTATISTIK:",
			"Antal skrapade sidor: 4\n",
			"Totalt antal ord: 1 234\n",
			"Genomsnittligt antal ord per sida: 308\n",
			"Fördelning per djup:\n  Nivå 0: 1 sidor\n  Nivå 1: 2 sidor\n",
			"Data sparad i: scraped_content/example_com_20260301_120000",
			"Innehållet delat på 2 filer",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\n%s", want, out)
			}
		}
	})

	t.Run("omits the split line for a single file", func(t *testing.T) {
		t.Parallel()

		r := sampleReport()
		r.Files = r.Files[:1]

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "Innehållet delat") {
			t.Error("split line should not be printed for one file")
		}
	})

	t.Run("average is zero when nothing was visited", func(t *testing.T) {
		t.Parallel()

		r := model.NewCrawlReport("https://example.com", 1, 1)

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Genomsnittligt antal ord per sida: 0\n") {
			t.Errorf("expected zero average, got\n%s", buf.String())
		}
	})

	t.Run("marks a cancelled crawl", func(t *testing.T) {
		t.Parallel()

		r := sampleReport()
		r.Cancelled = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "avbröts") {
			t.Error("expected cancellation notice")
		}
	})

	t.Run("verbose mode lists failures and files", func(t *testing.T) {
		t.Parallel()

		r := sampleReport()
		r.FetchFailures = 3

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(r); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "Misslyckade hämtningar: 3") || !strings.Contains(out, "  b.txt\n") {
			t.Errorf("expected verbose details, got\n%s", out)
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON with statistics", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatal(err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Statistics.TotalWords != 1234 {
			t.Errorf("expected 1234 words, got %d", got.Statistics.TotalWords)
		}
		if got.Report.BaseURL != "https://example.com" {
			t.Errorf("unexpected base URL %q", got.Report.BaseURL)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteStatistics(model.NewCrawlStatistics(sampleReport())); err != nil {
			t.Fatal(err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected single-line JSON")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteStatistics(model.NewCrawlStatistics(sampleReport())); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"base_url\"") {
			t.Errorf("expected indented output, got\n%s", buf.String())
		}
	})

	t.Run("full writer includes version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"version":"v1.2.3"`) {
			t.Errorf("expected version in output, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()

		for _, want := range []string{
			"# Skrapningsstatistik",
			"Antal skrapade sidor",
			"1 234",
			"## Fördelning per djup",
			"```mermaid",
			"Nivå 1",
			"Data sparad i:",
			"Innehållet delat på 2 filer.",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("handles a report without content", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewCrawlReport("https://example.com", 1, 1)); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "Inga sidor med innehåll.") {
			t.Error("expected empty depth notice")
		}
		if strings.Contains(out, "```mermaid") {
			t.Error("pie chart should be omitted without pages")
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(*model.CrawlReport) (int, error) { return 0, errors.New("write failed") }

func (failingWriter) WriteStatistics(*model.CrawlStatistics) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		n, err := mw.Write(sampleReport())
		if err != nil {
			t.Fatal(err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var text bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&text))

		if _, err := mw.Write(sampleReport()); err == nil {
			t.Error("expected error")
		}
		if text.Len() != 0 {
			t.Error("second writer should not run")
		}
	})
}
