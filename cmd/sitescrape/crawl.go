package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/sitescrape/internal/config"
	"github.com/nao1215/sitescrape/internal/crawler"
	"github.com/nao1215/sitescrape/internal/database"
	"github.com/nao1215/sitescrape/internal/htmlnode"
	sslog "github.com/nao1215/sitescrape/internal/log"
	"github.com/nao1215/sitescrape/internal/model"
	"github.com/nao1215/sitescrape/internal/output"
	"github.com/nao1215/sitescrape/internal/pipeline"
	"github.com/nao1215/sitescrape/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl a website and save its text content",
		Long: `Crawl fetches a website depth-first and saves the readable text of each page.

Only links on the start URL's domain are followed. Links to PDFs, images,
archives and other binary files, and links into English or other excluded
language sections, are skipped. The text is written to
<output-dir>/<host>_<timestamp>/scraped_content_N.txt.

Without a URL argument, crawl asks for the URL, depth and page limit.

Examples:
  # Crawl a site with the defaults (depth 10, 1000 pages)
  sitescrape crawl www.example.com

  # Crawl three levels deep and skip German sections too
  sitescrape crawl -d 3 -l de https://example.com

  # Crawl several sites one after another
  sitescrape crawl example.com example.org

  # Print the statistics as Markdown into a file
  sitescrape crawl -m -o report.md example.com

Configuration file (.sitescrape) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      depth: 3
      ignoreLanguages: [de, fr]`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl budget flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl depth (1 crawls only the start page)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().StringSliceP("ignore-lang", "l", nil,
		"Additional language codes whose sections are skipped (English is always skipped)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().String("parser", config.DefaultParser,
		"HTML parser backend (html or goquery)")

	// Content output flags
	cmd.Flags().StringP("output-dir", "O", config.DefaultOutputDir,
		"Directory for the scraped content")
	cmd.Flags().Int("word-limit", config.DefaultWordLimit,
		"Approximate maximum number of words per content file")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitescrape in current dir, $XDG_CONFIG_HOME/sitescrape/config.yaml, then ~/.sitescrape)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not record the crawl in the run history")
	cmd.Flags().String("log-format", config.DefaultLogFormat,
		"Log format (text or json)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")
	_ = cmd.Flags().MarkHidden("db-dir") //nolint:errcheck // flag is defined above

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if len(cfg.Targets) == 0 {
		if err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).ask(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := sslog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat == config.LogFormatJSON)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, saving collected content...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.MaxDepth, err = flags.GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}

	extraLanguages, err := flags.GetStringSlice("ignore-lang")
	if err != nil {
		return nil, err
	}
	cfg.IgnoreLanguages = append(cfg.IgnoreLanguages, extraLanguages...)

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Parser, err = flags.GetString("parser"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
		return nil, err
	}
	if cfg.WordLimit, err = flags.GetInt("word-limit"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
		return nil, err
	}

	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.Verbose = getVerboseFlag(cmd)

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	cfg.Targets = args

	return cfg, nil
}

// runCrawl crawls every target in turn and prints a report for each.
func runCrawl(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"targets", cfg.Targets,
		"maxDepth", cfg.MaxDepth,
		"maxPages", cfg.MaxPages,
		"saveToDB", cfg.SaveToDB,
	)

	parse, err := htmlnode.ParserFor(cfg.Parser)
	if err != nil {
		return err
	}

	var db *database.CrawlDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	reportOut, closeReport, err := openReportOutput(cfg, stdout)
	if err != nil {
		return err
	}
	defer closeReport()

	factory := func(target string) (*pipeline.Pipeline, *model.CrawlReport, error) {
		p, crawlReport, err := newTargetPipeline(cfg, target, parse, db, logger)
		if err == nil {
			fmt.Fprintf(stdout, "\nBörjar processa %s...\n", crawlReport.BaseURL)
		}
		return p, crawlReport, err
	}

	runner := pipeline.NewRunner(factory,
		pipeline.WithRunnerLogger(logger),
		pipeline.WithOnComplete(func(target string, crawlReport *model.CrawlReport, err error) {
			if crawlReport == nil {
				fmt.Fprintf(stdout, "Kunde inte skrapa %s: %v\n", target, err)
				return
			}
			if err := writeReport(cfg, reportOut, crawlReport); err != nil {
				logger.Error("report failed", "url", crawlReport.BaseURL, "error", err)
			}
			fmt.Fprintln(stdout, "\nProcessen slutförd!")
		}),
	)

	start := time.Now()
	_, err = runner.Run(ctx, cfg.Targets)
	logger.Info("all targets processed", "elapsed", time.Since(start).Round(time.Millisecond))

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("crawl interrupted, collected content was saved: %w", err)
	}
	return err
}

// newTargetPipeline builds the crawl pipeline for one target with the
// site configuration of its host applied.
func newTargetPipeline(
	cfg *config.Config,
	target string,
	parse htmlnode.ParseFunc,
	db *database.CrawlDB,
	logger *slog.Logger,
) (*pipeline.Pipeline, *model.CrawlReport, error) {
	base := crawler.NormalizeURL(target)
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, nil, fmt.Errorf("%w: %q", crawler.ErrInvalidStartURL, target)
	}

	var site config.SiteConfig
	if cfg.SiteConfigs != nil {
		site = cfg.SiteConfigs.GetSiteConfig(u.Hostname())
	}

	targetCfg := *cfg
	targetCfg.Targets = []string{target}
	targetCfg.Apply(site)
	if err := targetCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("site configuration for %s: %w", u.Hostname(), err)
	}

	fetcher := crawler.NewHTTPFetcher(
		&http.Client{Timeout: targetCfg.Timeout},
		crawler.WithUserAgent(targetCfg.UserAgent),
		crawler.WithMaxBodySize(targetCfg.MaxBodySize),
		crawler.WithCookie(site.Cookie),
		crawler.WithHeaders(site.Headers),
	)

	spider := crawler.NewSpider(fetcher,
		crawler.WithMaxDepth(targetCfg.MaxDepth),
		crawler.WithMaxPages(targetCfg.MaxPages),
		crawler.WithIgnoreLanguages(targetCfg.IgnoreLanguages),
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithFollowPatterns(site.FollowPatterns),
		crawler.WithParser(parse),
		crawler.WithLogger(logger),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCrawlStep(spider, logger),
		pipeline.NewWriteStep(output.NewChunkedWriter(targetCfg.OutputDir, output.WithWordLimit(targetCfg.WordLimit))),
	)
	if db != nil {
		p.AddStep(pipeline.NewHistoryStep(db, logger))
	}
	logger.Debug("pipeline assembled", "target", base, "steps", p.StepNames())

	return p, model.NewCrawlReport(base, targetCfg.MaxDepth, targetCfg.MaxPages), nil
}

// openReportOutput returns where reports are written: cfg.ReportFile,
// created 0600 with its parent directories, or stdout.
func openReportOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeReport writes crawlReport in the format selected by cfg.
func writeReport(cfg *config.Config, out io.Writer, crawlReport *model.CrawlReport) error {
	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(crawlReport)
	return err
}
