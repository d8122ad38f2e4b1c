package temperature

import (
	"time"

	"temperature/internal/executor"
	"temperature/internal/scoring"
	"temperature/internal/source"
	"temperature/internal/telemetry/metrics"
	"temperature/internal/weights"
)

// Config gathers the run-level knobs a caller may override. The zero
// value is invalid; build one through Defaults() and mutate the fields
// that matter, mirroring the engine facade's Config/Defaults() split.
type Config struct {
	// Quick restricts selection to Tier 1 sources only.
	Quick bool
	// Premium allows Tier 3 sources in addition to Tier 1 and 2.
	Premium bool

	// PerSourceTimeout bounds a single source's Search call.
	PerSourceTimeout time.Duration
	// GlobalBudget bounds the whole fan-out, regardless of how many
	// sources are still outstanding.
	GlobalBudget time.Duration

	// Weights is the dimension/source weight table the scoring engine
	// aggregates against. Overridden via WeightsFile or by assigning
	// this field directly.
	Weights scoring.Weights
	// WeightsFile, if set, is loaded once at Run time and merged onto
	// Weights (missing file is not an error).
	WeightsFile string

	// MetricsEnabled wires a Prometheus metrics.Provider into the
	// executor so per-source counters/histograms are recorded. If
	// MetricsProvider is nil, RunDetailed constructs a private one that
	// nothing outside the run can observe.
	MetricsEnabled bool
	// MetricsProvider, when non-nil, is the instance RunDetailed records
	// into instead of constructing its own. Set this to the same
	// Provider a caller is already serving over HTTP so the scrape
	// endpoint and the run share one registry.
	MetricsProvider *metrics.Provider

	// Registry overrides the process-wide source.Default registry.
	// Nil means use source.Default; tests substitute a private
	// registry to avoid exercising the real network adapters.
	Registry *source.Registry
}

// Defaults returns the system's documented defaults: Quick and Premium
// both false (selection allows Tier 1 and Tier 2, not Tier 3), the
// 12s/45s timeout budgets, and the built-in weight table.
func Defaults() Config {
	b := executor.DefaultBudget()
	return Config{
		Quick:            false,
		Premium:          false,
		PerSourceTimeout: b.PerSourceTimeout,
		GlobalBudget:     b.GlobalBudget,
		Weights:          scoring.DefaultWeights(),
		MetricsEnabled:   false,
	}
}

// resolvedWeights applies WeightsFile (if any) on top of cfg.Weights.
// A missing override file is not an error; Load returns base unchanged.
func (cfg Config) resolvedWeights() (scoring.Weights, error) {
	if cfg.WeightsFile == "" {
		return cfg.Weights, nil
	}
	return weights.Load(cfg.WeightsFile, cfg.Weights)
}

func (cfg Config) registry() *source.Registry {
	if cfg.Registry != nil {
		return cfg.Registry
	}
	return source.Default
}

// metricsProvider returns the Provider a run should record into: the
// caller-supplied MetricsProvider if set, a freshly constructed one if
// MetricsEnabled but no instance was supplied, or nil if metrics are
// disabled.
func (cfg Config) metricsProvider() *metrics.Provider {
	if !cfg.MetricsEnabled {
		return nil
	}
	if cfg.MetricsProvider != nil {
		return cfg.MetricsProvider
	}
	return metrics.New()
}

func (cfg Config) budget() executor.Budget {
	b := executor.DefaultBudget()
	if cfg.PerSourceTimeout > 0 {
		b.PerSourceTimeout = cfg.PerSourceTimeout
	}
	if cfg.GlobalBudget > 0 {
		b.GlobalBudget = cfg.GlobalBudget
	}
	return b
}
