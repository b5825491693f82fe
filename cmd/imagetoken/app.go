package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/srinathmkce/imagetoken/pkg/batch"
	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/config"
	"github.com/srinathmkce/imagetoken/pkg/dimensions"
	"github.com/srinathmkce/imagetoken/pkg/processing/costs"
	"github.com/srinathmkce/imagetoken/pkg/processing/tokens"
	"github.com/srinathmkce/imagetoken/pkg/registry"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/metrics"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/tracing"
)

// app holds the components a command needs, built from the configuration.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	registry   *registry.Registry
	estimator  *tokens.Estimator
	calculator *costs.Calculator
	text       *tokens.TextEstimator

	cache   dimensions.Cache
	reader  *dimensions.Reader
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// newApp wires the registry, estimators, dimension reader and telemetry.
// The caller must call close.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: slog.Default(),
	}

	reg, err := loadRegistry(cfg.Registry)
	if err != nil {
		return nil, cli.NewConfigError("registry.file", err.Error())
	}
	a.registry = reg
	a.estimator = tokens.NewEstimator(reg,
		tokens.WithPrefixTokens(cfg.Estimation.PrefixTokens),
		tokens.WithPatchSize(cfg.Estimation.PatchSize),
		tokens.WithTileSize(cfg.Estimation.TileSize),
	)
	a.calculator = costs.NewCalculator(reg)
	a.text = tokens.NewTextEstimator(cfg.Estimation.CharsPerToken)

	if cfg.Telemetry.Metrics.Enabled {
		a.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		a.metrics.UpdateModelCount(reg.Table().Len())
	}

	a.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a.cache, err = dimensions.OpenCache(cfg.Cache)
	if err != nil {
		a.logger.Warn("dimension cache unavailable, continuing without it", "error", err)
		a.cache = nil
	}

	opts := dimensions.FetchOptions(cfg.Fetch)
	opts = append(opts,
		dimensions.WithLogger(a.logger),
		dimensions.WithTracer(a.tracer),
	)
	if a.cache != nil {
		opts = append(opts, dimensions.WithCache(a.cache))
	}
	if a.metrics != nil {
		opts = append(opts, dimensions.WithObserver(a.metrics))
	}
	a.reader = dimensions.NewReader(opts...)

	return a, nil
}

// runner returns a batch runner reporting progress to p.
func (a *app) runner(p cli.ProgressReporter) *batch.Runner {
	return batch.NewRunner(a.estimator, a.reader,
		batch.WithConfig(a.cfg.Batch),
		batch.WithCalculator(a.calculator),
		batch.WithTextEstimator(a.text),
		batch.WithModality(a.cfg.Estimation.InputModality),
		batch.WithLogger(a.logger),
		batch.WithMetrics(a.metrics),
		batch.WithTracer(a.tracer),
		batch.WithProgress(p),
	)
}

// close flushes spans and closes the cache.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if err := a.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// reload re-reads the configuration file at path and swaps in the model
// table it names. On failure the running configuration and table stay in
// place. Only the model table takes effect without a restart.
func (a *app) reload(path string) error {
	err := config.ReloadConfig(path)
	if err == nil {
		var t *registry.Table
		t, err = loadTable(config.MustGetConfig().Registry)
		if err == nil {
			a.registry.Swap(t)
			a.metrics.UpdateModelCount(t.Len())
			a.logger.Info("configuration reloaded", "table_version", t.Version(), "models", t.Len())
		}
	}
	a.metrics.ObserveReload(registry.TriggerManual, err)
	if err != nil {
		a.logger.Error("configuration reload failed, keeping current settings", "error", err)
	}
	return err
}

func loadRegistry(cfg config.RegistryConfig) (*registry.Registry, error) {
	t, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}
	return registry.New(t), nil
}

func loadTable(cfg config.RegistryConfig) (*registry.Table, error) {
	if cfg.File == "" {
		return registry.DefaultTable()
	}
	return registry.LoadFile(cfg.File)
}

// currentConfig returns the loaded configuration, falling back to defaults
// when a command runs without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
