// Package temperature computes a 0-100 "temperature" score for an
// arbitrary topic by fanning out to a registry of trend-data providers,
// normalizing and aggregating their signals by dimension, and emitting
// a structured Report. Run, with its RunDetailed and RunWithin variants,
// is the public entry point; everything else in this package configures
// or renders around it.
package temperature

import (
	"context"
	"fmt"
	"time"

	"temperature/internal/env"
	"temperature/internal/executor"
	"temperature/internal/model"
	"temperature/internal/render"
	"temperature/internal/scoring"
	"temperature/internal/selector"
	"temperature/internal/source"
	"temperature/internal/telemetry/logging"

	_ "temperature/internal/providers/gdelt"
	_ "temperature/internal/providers/npm"
	_ "temperature/internal/providers/pypi"
	_ "temperature/internal/providers/semanticscholar"
	_ "temperature/internal/providers/wikipedia"
)

// Request is the caller-supplied input for one scoring run.
type Request struct {
	Topic      string
	WindowDays int
}

// Run selects the eligible sources for req, fans out to them
// concurrently under cfg's timeout budgets, and scores the collected
// signals into a Report. It never returns a non-nil error merely
// because some sources failed or were skipped; those are recorded in
// the Report's Errors map instead. Run only errors on malformed input
// or an unreadable weights file.
func Run(ctx context.Context, req Request, cfg Config) (model.Report, error) {
	report, _, err := RunDetailed(ctx, req, cfg)
	return report, err
}

// RunDetailed is Run plus the selection/execution status view a CLI
// footer needs (active/skipped/failed/timed-out sources), mirroring the
// original implementation's get_source_status convenience output.
func RunDetailed(ctx context.Context, req Request, cfg Config) (model.Report, render.Status, error) {
	if req.Topic == "" {
		return model.Report{}, render.Status{}, fmt.Errorf("temperature: topic is required")
	}
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}

	weightTable, err := cfg.resolvedWeights()
	if err != nil {
		return model.Report{}, render.Status{}, err
	}

	reg := cfg.registry()

	envCfg := env.Load()
	sel := selector.Select(reg, envCfg, selector.Request{
		Topic:   req.Topic,
		Quick:   cfg.Quick,
		Premium: cfg.Premium,
	})

	srcCfg := source.Config{Values: map[string]string(envCfg)}
	budget := cfg.budget()

	metricsProvider := cfg.metricsProvider()
	if metricsProvider != nil {
		for name := range sel.Selected {
			metricsProvider.SourcesSelected.WithLabelValues(name).Inc()
		}
		for _, reason := range sel.Skipped {
			metricsProvider.SourcesSkipped.WithLabelValues(reason).Inc()
		}
	}

	logger := logging.New(nil)

	signals, results := executor.Run(ctx, sel.Selected, req.Topic, windowDays, srcCfg, budget, logger, metricsProvider)

	errs := map[string]string{}
	for _, res := range results {
		if res.Error != "" {
			errs[res.Source] = res.Error
		}
	}

	configSummary := map[string]any{
		"quick":              cfg.Quick,
		"premium":            cfg.Premium,
		"per_source_timeout": budget.PerSourceTimeout.String(),
		"global_budget":      budget.GlobalBudget.String(),
		"selected_sources":   len(sel.Selected),
		"skipped_sources":    len(sel.Skipped),
	}

	report := scoring.Score(req.Topic, windowDays, signals, weightTable, errs, configSummary)
	status := render.BuildStatus(reg, sel, results)

	return report, status, nil
}

// RunWithin is a convenience wrapper that derives a context bounded by
// cfg's global budget plus a small grace period, for callers that don't
// already manage their own context deadline.
func RunWithin(req Request, cfg Config) (model.Report, error) {
	budget := cfg.budget()
	ctx, cancel := context.WithTimeout(context.Background(), budget.GlobalBudget+2*time.Second)
	defer cancel()
	return Run(ctx, req, cfg)
}
