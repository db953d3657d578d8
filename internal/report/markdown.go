package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitescrape/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the statistics of report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	return w.WriteStatistics(model.NewCrawlStatistics(report))
}

// WriteStatistics outputs stats in Markdown format.
func (w *MarkdownWriter) WriteStatistics(stats *model.CrawlStatistics) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, stats)
	w.writeDepths(md, stats)
	w.writeOutput(md, stats)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table and a status alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, stats *model.CrawlStatistics) {
	md.H1("Skrapningsstatistik")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Egenskap", "Värde"},
		Rows: [][]string{
			{"Webbplats", "`" + stats.BaseURL + "`"},
			{"Antal skrapade sidor", strconv.Itoa(stats.PagesVisited)},
			{"Totalt antal ord", model.FormatCount(stats.TotalWords)},
			{"Genomsnittligt antal ord per sida", model.FormatCount(stats.AverageWords)},
		},
	})
	md.PlainText("")

	switch {
	case stats.Cancelled:
		md.Warningf("Skrapningen avbröts, resultatet är ofullständigt.")
		md.PlainText("")
	case stats.Error != "":
		md.Cautionf("Fel: %s", stats.Error)
		md.PlainText("")
	}
}

// writeDepths writes the per-depth table and pie chart.
func (w *MarkdownWriter) writeDepths(md *markdown.Markdown, stats *model.CrawlStatistics) {
	md.H2("Fördelning per djup")
	md.PlainText("")

	if len(stats.Depths) == 0 {
		md.PlainText("Inga sidor med innehåll.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(stats.Depths))
	for i, d := range stats.Depths {
		rows[i] = []string{strconv.Itoa(d.Depth), strconv.Itoa(d.Pages)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Nivå", "Sidor"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Sidor per nivå"),
		piechart.WithShowData(true),
	)
	for _, d := range stats.Depths {
		chart.LabelAndIntValue("Nivå "+strconv.Itoa(d.Depth), uint64(d.Pages)) //nolint:gosec // page counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeOutput writes where the content was saved.
func (w *MarkdownWriter) writeOutput(md *markdown.Markdown, stats *model.CrawlStatistics) {
	if stats.OutputDir == "" {
		return
	}

	md.H2("Utdata")
	md.PlainText("")
	md.PlainTextf("Data sparad i: `%s`", stats.OutputDir)
	md.PlainText("")
	if stats.FileCount > 1 {
		md.Note(fmt.Sprintf("Innehållet delat på %d filer.", stats.FileCount))
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitescrape](https://github.com/nao1215/sitescrape)*")
}
