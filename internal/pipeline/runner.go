package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/sitescrape/internal/model"
)

// Factory builds the pipeline and an empty report for one start URL.
type Factory func(target string) (*Pipeline, *model.CrawlReport, error)

// Runner crawls several start URLs one after another.
//
// Design decision: Targets run sequentially rather than in a worker pool.
// Each crawl already issues one request at a time and a site crawl can
// take minutes, so sequential runs keep the load on each site and the log
// output predictable.
type Runner struct {
	factory Factory
	logger  *slog.Logger

	// onComplete is called after each target, even a failed one.
	onComplete func(target string, report *model.CrawlReport, err error)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithOnComplete sets a callback invoked after each target.
func WithOnComplete(fn func(target string, report *model.CrawlReport, err error)) RunnerOption {
	return func(r *Runner) {
		r.onComplete = fn
	}
}

// NewRunner creates a Runner that builds each pipeline with factory.
func NewRunner(factory Factory, opts ...RunnerOption) *Runner {
	r := &Runner{factory: factory}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run processes targets in order and returns the reports of every target
// whose pipeline could be built. Per-target failures are joined into the
// returned error. Targets not yet started when ctx is cancelled are skipped.
func (r *Runner) Run(ctx context.Context, targets []string) ([]*model.CrawlReport, error) {
	reports := make([]*model.CrawlReport, 0, len(targets))
	var errs []error

	for i, target := range targets {
		if ctx.Err() != nil {
			r.logger.Warn("skipping remaining targets",
				"remaining", len(targets)-i,
				"reason", ctx.Err(),
			)
			break
		}

		r.logger.Info("processing target", "target", target, "index", i+1, "total", len(targets))

		p, report, err := r.factory(target)
		if err == nil {
			err = p.Execute(ctx, report)
			reports = append(reports, report)
		}
		if err != nil {
			errs = append(errs, err)
		}

		if r.onComplete != nil {
			r.onComplete(target, report, err)
		}
	}

	joined := errors.Join(errs...)
	if ctx.Err() != nil && !errors.Is(joined, ctx.Err()) {
		joined = errors.Join(joined, ctx.Err())
	}
	return reports, joined
}
