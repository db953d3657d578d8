package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/nao1215/sitescrape/internal/config"
	"github.com/nao1215/sitescrape/internal/crawler"
	"github.com/nao1215/sitescrape/internal/database"
	"github.com/nao1215/sitescrape/internal/model"
	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// It reads the run history the crawl command records.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "Show recorded crawls and compare runs",
		Long: `History shows the crawls recorded in the run history database.

Every crawl stores its settings, statistics and a SHA3-256 hash of each
saved page. Comparing two runs of the same site shows which pages were
added, removed or changed.

Examples:
  # List all crawled domains
  sitescrape history

  # List the runs of one domain, newest first
  sitescrape history example.com

  # Show the pages of one run
  sitescrape history --run-id 3

  # Compare the latest two runs of a domain
  sitescrape history --diff example.com

  # Compare the latest run with a specific older run
  sitescrape history --diff --with-run-id 2 example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("run-id", "r", 0,
		"Show the pages of the run with this ID")
	cmd.Flags().Bool("diff", false,
		"Compare the latest run of the domain with the previous one")
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"With --diff, compare against this run instead of the previous one")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")
	_ = cmd.Flags().MarkHidden("db-dir") //nolint:errcheck // flag is defined above

	return cmd
}

// historyOptions are the parsed history flags.
type historyOptions struct {
	domain    string
	runID     int64
	diff      bool
	withRunID int64
	json      bool
	dbDir     string
}

func parseHistoryFlags(cmd *cobra.Command, args []string) (*historyOptions, error) {
	opts := &historyOptions{}
	flags := cmd.Flags()

	var err error
	if opts.runID, err = flags.GetInt64("run-id"); err != nil {
		return nil, err
	}
	if opts.diff, err = flags.GetBool("diff"); err != nil {
		return nil, err
	}
	if opts.withRunID, err = flags.GetInt64("with-run-id"); err != nil {
		return nil, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		opts.domain, err = domainOf(args[0])
		if err != nil {
			return nil, err
		}
	}

	// Validate before opening the database.
	if opts.diff && opts.domain == "" {
		return nil, errors.New("--diff requires a domain")
	}
	if opts.withRunID != 0 && !opts.diff {
		return nil, errors.New("--with-run-id requires --diff")
	}

	return opts, nil
}

// domainOf returns the host (with port) the crawl command records for
// a domain or URL argument.
func domainOf(arg string) (string, error) {
	u, err := url.Parse(crawler.NormalizeURL(arg))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid domain: %q", arg)
	}
	return strings.ToLower(u.Host), nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd, args)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no crawl history found (run 'sitescrape crawl' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case opts.runID != 0:
		return showRun(ctx, out, db, opts.runID, opts.json)
	case opts.diff:
		return showDiff(ctx, out, db, opts)
	case opts.domain != "":
		return listRuns(ctx, out, db, opts.domain, opts.json)
	default:
		return listDomains(ctx, out, db, opts.json)
	}
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// listDomains lists every domain with recorded runs.
func listDomains(ctx context.Context, out io.Writer, db *database.CrawlDB, asJSON bool) error {
	domains, err := db.ListDomains(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, domains)
	}

	if len(domains) == 0 {
		fmt.Fprintln(out, "No crawled domains found in the database.")
		fmt.Fprintln(out, "\nUse 'sitescrape crawl <url>' to crawl a site.")
		return nil
	}

	fmt.Fprintf(out, "Crawled domains (%d):\n\n", len(domains))
	for _, d := range domains {
		fmt.Fprintf(out, "  • %s\n", d)
	}
	fmt.Fprintln(out, "\nUse 'sitescrape history <domain>' to see the runs of a domain.")

	return nil
}

// listRuns lists the runs of domain, newest first.
func listRuns(ctx context.Context, out io.Writer, db *database.CrawlDB, domain string, asJSON bool) error {
	runs, err := db.ListRuns(ctx, domain)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No crawl history found for %s\n", domain)
		return nil
	}

	fmt.Fprintf(out, "Crawl history for %s (%d runs):\n\n", domain, len(runs))
	fmt.Fprintf(out, "  %-6s  %-19s  %-6s  %-6s  %-10s  %s\n", "ID", "Date", "Depth", "Pages", "Words", "Status")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 66))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-19s  %-6d  %-6d  %-10s  %s\n",
			run.ID,
			run.StartedAt.Local().Format(historyTimeLayout),
			run.MaxDepth,
			run.PagesVisited,
			model.FormatCount(run.TotalWords),
			runStatus(run),
		)
	}

	fmt.Fprintln(out, "\nUse 'sitescrape history --run-id <id>' to see the pages of a run.")
	fmt.Fprintln(out, "Use 'sitescrape history --diff <domain>' to compare the latest two runs.")

	return nil
}

func runStatus(run database.RunSummary) string {
	if run.Cancelled {
		return "interrupted"
	}
	return "complete"
}

// runDetails is the JSON form of a run with its pages.
type runDetails struct {
	Run   *database.RunSummary   `json:"run"`
	Pages []database.PageSummary `json:"pages"`
}

// showRun prints one run and its pages.
func showRun(ctx context.Context, out io.Writer, db *database.CrawlDB, runID int64, asJSON bool) error {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	pages, err := db.GetRunPages(ctx, runID)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, runDetails{Run: run, Pages: pages})
	}

	fmt.Fprintf(out, "Run %d: %s\n", run.ID, run.BaseURL)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(out, "Finished: %s\n", run.FinishedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(out, "Budgets:  depth %d, %d pages\n", run.MaxDepth, run.MaxPages)
	fmt.Fprintf(out, "Status:   %s\n", runStatus(*run))
	if run.OutputDir != "" {
		fmt.Fprintf(out, "Output:   %s (%d files)\n", run.OutputDir, len(run.Files))
	}

	fmt.Fprintf(out, "\nPages (%d):\n", len(pages))
	for _, p := range pages {
		fmt.Fprintf(out, "  [%d] %-8s %s\n", p.Depth, model.FormatCount(p.WordCount), p.URL)
	}

	return nil
}

// diffResult is the JSON form of a run comparison.
type diffResult struct {
	Domain   string               `json:"domain"`
	Previous *database.RunSummary `json:"previous_run"`
	Current  *database.RunSummary `json:"current_run"`
	Pages    *database.PageDiff   `json:"pages"`
}

// showDiff compares the latest run of a domain with an older one.
func showDiff(ctx context.Context, out io.Writer, db *database.CrawlDB, opts *historyOptions) error {
	runs, err := db.ListRuns(ctx, opts.domain)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no crawl history found for %s", opts.domain)
	}

	current := &runs[0]
	var previous *database.RunSummary

	if opts.withRunID != 0 {
		previous, err = db.GetRun(ctx, opts.withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run %d: %w", opts.withRunID, err)
		}
		if previous.Domain != opts.domain {
			return fmt.Errorf("run %d belongs to %s, not %s", opts.withRunID, previous.Domain, opts.domain)
		}
	} else {
		if len(runs) < 2 {
			return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		previous = &runs[1]
	}

	oldPages, err := db.GetRunPages(ctx, previous.ID)
	if err != nil {
		return err
	}
	newPages, err := db.GetRunPages(ctx, current.ID)
	if err != nil {
		return err
	}

	result := diffResult{
		Domain:   opts.domain,
		Previous: previous,
		Current:  current,
		Pages:    database.ComparePages(oldPages, newPages),
	}

	if opts.json {
		return writeJSON(out, result)
	}
	return writeDiffText(out, result)
}

func writeDiffText(out io.Writer, result diffResult) error {
	fmt.Fprintf(out, "Run Comparison: %s\n", result.Domain)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious run: #%d %s\n", result.Previous.ID, result.Previous.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(out, "Current run:  #%d %s\n", result.Current.ID, result.Current.StartedAt.Local().Format(historyTimeLayout))

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-8s  %-10s  %-10s  %s\n", "", "Previous", "Current", "Change")
	fmt.Fprintf(out, "  %-8s  %-10d  %-10d  %s\n", "Pages",
		result.Previous.PagesVisited, result.Current.PagesVisited,
		formatDelta(result.Current.PagesVisited-result.Previous.PagesVisited))
	fmt.Fprintf(out, "  %-8s  %-10d  %-10d  %s\n", "Words",
		result.Previous.TotalWords, result.Current.TotalWords,
		formatDelta(result.Current.TotalWords-result.Previous.TotalWords))

	diff := result.Pages
	if !diff.HasChanges() {
		fmt.Fprintf(out, "\nNo page changes (%d pages unchanged)\n", diff.Unchanged)
		return nil
	}

	writeURLs := func(title, marker string, urls []string) {
		if len(urls) == 0 {
			return
		}
		fmt.Fprintf(out, "\n%s (%d):\n", title, len(urls))
		for _, u := range urls {
			fmt.Fprintf(out, "  [%s] %s\n", marker, u)
		}
	}
	writeURLs("Added Pages", "+", diff.Added)
	writeURLs("Removed Pages", "-", diff.Removed)
	writeURLs("Changed Pages", "~", diff.Changed)

	if diff.Unchanged > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d pages\n", diff.Unchanged)
	}

	return nil
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
