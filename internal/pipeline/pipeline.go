package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sitescrape/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the report
// filled by the previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the pipeline step.
	// Returns an error if the step fails critically; non-critical problems
	// should be logged and return nil.
	Do(ctx context.Context, report *model.CrawlReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// cancelTolerant is implemented by steps that still run after the context
// was cancelled.
type cancelTolerant interface {
	RunAfterCancel() bool
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The failure is still recorded in the report.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Once ctx is cancelled, the report is marked cancelled and only steps
// that run after cancellation are executed; ctx.Err() is returned at the
// end. Otherwise the first step error is returned, unless
// continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, report *model.CrawlReport) error {
	defer func() {
		if report.FinishedAt.IsZero() {
			report.FinishedAt = time.Now()
		}
	}()

	for _, step := range p.steps {
		if ctx.Err() != nil {
			report.Cancelled = true
			if !runsAfterCancel(step) {
				p.logger.Warn("skipping step after cancellation",
					"step", step.Name(),
					"url", report.BaseURL,
					"reason", ctx.Err(),
				)
				continue
			}
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"url", report.BaseURL,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", report.BaseURL,
				"error", err,
			)

			report.Error = err
			report.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"url", report.BaseURL,
			)
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return ctx.Err()
}

func runsAfterCancel(step Step) bool {
	ct, ok := step.(cancelTolerant)
	return ok && ct.RunAfterCancel()
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
