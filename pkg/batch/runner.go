package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/config"
	"github.com/srinathmkce/imagetoken/pkg/dimensions"
	"github.com/srinathmkce/imagetoken/pkg/processing/costs"
	"github.com/srinathmkce/imagetoken/pkg/processing/tokens"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/logging"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/metrics"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/tracing"
)

// Request describes a token run.
type Request struct {
	// Model is the model every image is estimated for.
	Model string

	// Inputs are file paths, directories, http(s) URLs or data URLs.
	Inputs []string

	// PrefixTokens overrides the runner's prefix for OpenAI models when set.
	PrefixTokens *int

	// SaveTo, when set, receives the per-source results as indented JSON.
	SaveTo string
}

// CostRequest describes a cost run: the images of Request plus a system
// prompt and an expected output size.
type CostRequest struct {
	Request

	// SystemPromptTokens is added to the image tokens as input.
	SystemPromptTokens int

	// SystemPrompt is converted to tokens with the text estimator and added
	// to SystemPromptTokens.
	SystemPrompt string

	// OutputTokens is the expected response size.
	OutputTokens int

	// Modality selects the Gemini input rate. Empty uses the runner default.
	Modality string
}

// Result is delivered by RunAsync.
type Result struct {
	Report *Report
	Err    error
}

// CostResult is delivered by CostAsync.
type CostResult struct {
	Report *CostReport
	Err    error
}

// Runner estimates tokens for files, directories and URLs, one image at a
// time. It is safe for concurrent use; each Run has its own report.
type Runner struct {
	estimator  *tokens.Estimator
	calculator *costs.Calculator
	text       *tokens.TextEstimator
	reader     *dimensions.Reader

	config   config.BatchConfig
	modality string

	logger   *slog.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	progress cli.ProgressReporter
}

// Option configures a Runner.
type Option func(*Runner)

// WithConfig sets the directory walking and failure behaviour.
func WithConfig(cfg config.BatchConfig) Option {
	return func(r *Runner) {
		r.config = cfg
	}
}

// WithCalculator sets the cost calculator. The default prices with the
// estimator's registry.
func WithCalculator(c *costs.Calculator) Option {
	return func(r *Runner) {
		r.calculator = c
	}
}

// WithTextEstimator sets the estimator used for system prompt text.
func WithTextEstimator(t *tokens.TextEstimator) Option {
	return func(r *Runner) {
		r.text = t
	}
}

// WithModality sets the Gemini input modality used when a CostRequest has none.
func WithModality(modality string) Option {
	return func(r *Runner) {
		r.modality = modality
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p cli.ProgressReporter) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// NewRunner creates a runner. A nil reader is replaced by one without a cache.
func NewRunner(estimator *tokens.Estimator, reader *dimensions.Reader, opts ...Option) *Runner {
	r := &Runner{
		estimator: estimator,
		reader:    reader,
		config: config.BatchConfig{
			Extensions: config.DefaultBatchExtensions(),
		},
		modality: costs.DefaultModality,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.reader == nil {
		r.reader = dimensions.NewReader()
	}
	if r.calculator == nil {
		r.calculator = costs.NewCalculator(estimator.Registry())
	}
	if r.text == nil {
		r.text = tokens.NewTextEstimator(tokens.DefaultCharsPerToken)
	}
	if len(r.config.Extensions) == 0 {
		r.config.Extensions = config.DefaultBatchExtensions()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.progress == nil {
		r.progress = cli.NopProgress{}
	}
	return r
}

// Run estimates every image named by req.Inputs.
//
// The model is checked before anything is read. An image that cannot be read
// or estimated is recorded on its Item and the run continues, unless the
// runner is configured to fail fast; then Run returns the partial report
// together with the item's error.
func (r *Runner) Run(ctx context.Context, req Request) (report *Report, err error) {
	prefix, err := r.validate(req)
	if err != nil {
		r.metrics.RecordEstimateError(ErrorReason(err))
		return nil, err
	}

	run := &Report{
		RunID:     uuid.NewString(),
		Model:     req.Model,
		StartedAt: time.Now(),
	}

	ctx = logging.WithRunID(ctx, run.RunID)
	ctx = logging.WithModel(ctx, req.Model)
	logger := logging.FromContext(ctx, r.logger)

	ctx, span := r.tracer.Start(ctx, "batch.run")
	defer func() {
		tracing.SetBatchAttributes(span, run.RunID, len(run.Items), run.Failed)
		tracing.End(span, err)
	}()
	report = run

	sources, err := collect(req.Inputs, r.config.Extensions, r.config.Recursive)
	if err != nil {
		return nil, err
	}
	logger.Debug("batch run started", "inputs", len(req.Inputs), "images", len(sources))

	r.progress.Start(int64(len(sources)))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			r.progress.Finish()
			return report, err
		}

		item := r.process(ctx, req.Model, prefix, src)
		report.add(item)
		r.progress.Update(int64(i + 1))

		if item.Failed() {
			r.progress.Error(fmt.Errorf("%s: %w", displaySource(item.Source), item.err))
			logger.Warn("failed to estimate image",
				"source", displaySource(item.Source),
				"error", item.err,
			)
			if r.config.FailFast {
				r.progress.Finish()
				report.Duration = time.Since(report.StartedAt)
				return report, fmt.Errorf("%s: %w", displaySource(item.Source), item.err)
			}
		}
	}
	r.progress.Finish()
	report.Duration = time.Since(report.StartedAt)

	if req.SaveTo != "" {
		if err := report.Save(req.SaveTo); err != nil {
			return report, err
		}
	}

	logger.Info("batch run completed",
		"images", len(report.Items),
		"failed", report.Failed,
		"total_tokens", report.TotalTokens,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// RunAsync runs req in a goroutine and delivers its outcome on the returned
// channel, which is closed afterwards.
func (r *Runner) RunAsync(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		report, err := r.Run(ctx, req)
		ch <- Result{Report: report, Err: err}
	}()
	return ch
}

// Cost estimates the images of req and prices them, together with the
// system prompt, as input and req.OutputTokens as output.
func (r *Runner) Cost(ctx context.Context, req CostRequest) (*CostReport, error) {
	if req.SystemPromptTokens < 0 || req.OutputTokens < 0 {
		return nil, fmt.Errorf("%w: token counts must not be negative", ErrInvalidRequest)
	}

	report, err := r.Run(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	modality := req.Modality
	if modality == "" {
		modality = r.modality
	}
	promptTokens := req.SystemPromptTokens + r.text.EstimateText(req.SystemPrompt)
	inputTokens := promptTokens + report.TotalTokens

	ctx, span := r.tracer.Start(logging.WithRunID(ctx, report.RunID), "batch.cost")
	cost, err := r.calculator.ComputeCost(inputTokens, req.OutputTokens, req.Model, modality)
	if err != nil {
		tracing.End(span, err)
		return nil, err
	}
	tracing.SetCostAttributes(span, cost.InputTokens, cost.OutputTokens, cost.TotalCost, cost.PricingTier, cost.Modality)
	tracing.End(span, nil)

	r.metrics.RecordCost(cost.Provider, cost.Model, cost.PricingTier, cost.TotalCost)
	logging.FromContext(ctx, r.logger).Debug("batch cost computed",
		"input_tokens", cost.InputTokens,
		"output_tokens", cost.OutputTokens,
		"tier", cost.PricingTier,
		"total_usd", cost.TotalCost,
	)

	return &CostReport{
		Report:             report,
		SystemPromptTokens: promptTokens,
		Cost:               cost,
	}, nil
}

// CostAsync runs Cost in a goroutine.
func (r *Runner) CostAsync(ctx context.Context, req CostRequest) <-chan CostResult {
	ch := make(chan CostResult, 1)
	go func() {
		defer close(ch)
		report, err := r.Cost(ctx, req)
		ch <- CostResult{Report: report, Err: err}
	}()
	return ch
}

func (r *Runner) validate(req Request) (int, error) {
	if _, err := r.estimator.Registry().Get(req.Model); err != nil {
		return 0, err
	}

	prefix := r.estimator.PrefixTokens()
	if req.PrefixTokens != nil {
		prefix = *req.PrefixTokens
	}
	if prefix < 0 {
		return 0, fmt.Errorf("%w: %d", tokens.ErrInvalidPrefixTokens, prefix)
	}
	return prefix, nil
}

func (r *Runner) process(ctx context.Context, model string, prefix int, src source) *Item {
	ctx, span := r.tracer.Start(ctx, "batch.item")
	item := &Item{Source: src.id, Kind: src.kind}
	defer func() { tracing.End(span, item.err) }()

	dims, err := r.read(logging.WithSource(ctx, displaySource(src.id)), src)
	if err != nil {
		item.fail(err)
		r.metrics.RecordEstimateError(ErrorReason(err))
		return item
	}
	tracing.SetImageAttributes(span, dims.Width, dims.Height, src.kind)

	start := time.Now()
	est, err := r.estimator.EstimateWithPrefix(model, dims.Width, dims.Height, prefix)
	if err != nil {
		item.fail(err)
		r.metrics.RecordEstimateError(ErrorReason(err))
		return item
	}
	r.metrics.RecordEstimate(model, est.Family.String(), est.ImageTokens, time.Since(start))
	tracing.SetTokenAttributes(span, est.ImageTokens, est.PrefixTokens, est.TotalTokens)

	item.Width, item.Height = dims.Width, dims.Height
	item.ImageTokens = est.ImageTokens
	item.PrefixTokens = est.PrefixTokens
	item.Tokens = est.TotalTokens
	return item
}

func (r *Runner) read(ctx context.Context, src source) (dimensions.Dimensions, error) {
	switch src.kind {
	case dimensions.SourceURL:
		return r.reader.FromURL(ctx, src.id)
	case dimensions.SourceDataURL:
		return r.reader.FromDataURL(src.id)
	default:
		if err := dimensions.CheckExtension(src.id, r.config.Extensions); err != nil {
			return dimensions.Dimensions{}, err
		}
		return r.reader.FromFile(src.id)
	}
}
