package scoring

import (
	"time"

	"temperature/internal/model"
)

// Score runs the full pipeline over a flat list of signals gathered by
// the executor and assembles a Report. Signals are mutated in place
// (Velocity/Direction); errs is the per-source error map collected by
// the executor, copied verbatim into the Report.
func Score(topic string, windowDays int, signals []model.Signal, weights Weights, errs map[string]string, configSummary map[string]any) model.Report {
	ScoreSignals(signals)

	groups := GroupByDimension(signals)

	dimensions := make(map[string]model.DimensionScore, len(weights.Dimension))
	for name := range weights.Dimension {
		dimensions[name] = AggregateDimension(name, groups[name], weights.Source[name])
	}
	// A dimension present in the grouped signals but absent from the
	// weight table still gets scored, using a uniform per-signal split.
	for name, group := range groups {
		if _, known := dimensions[name]; !known {
			dimensions[name] = AggregateDimension(name, group, weights.Source[name])
		}
	}

	breakout := DetectBreakout(signals)
	temperature := OverallTemperature(dimensions, weights.Dimension)

	if configSummary == nil {
		configSummary = map[string]any{}
	}
	configSummary["dimension_weight_ceiling"] = temperatureCeiling(weights)

	return model.Report{
		Topic:            topic,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		WindowDays:       windowDays,
		Temperature:      temperature,
		Label:            model.TemperatureLabel(temperature),
		Direction:        OverallDirection(dimensions, breakout),
		Dimensions:       dimensions,
		Convergence:      Convergence(dimensions),
		HottestDimension: HottestDimension(dimensions),
		FastestMover:     FastestMover(dimensions),
		AllSignals:       signals,
		Errors:           errs,
		ConfigSummary:    configSummary,
	}
}

// temperatureCeiling sums the configured dimension weights actually
// backed by a non-empty source table, surfacing the documented v1
// epistemic-uncertainty ceiling (e.g. 80 when only 4 of 5 dimensions
// have a source) in the Report's config_summary, per the Open Question
// resolution in DESIGN.md: overall temperature is not re-normalized
// when dimensions are missing, so callers need the ceiling made visible.
func temperatureCeiling(weights Weights) float64 {
	var sum float64
	for name, w := range weights.Dimension {
		if len(weights.Source[name]) > 0 {
			sum += w
		}
	}
	return sum * 100
}
