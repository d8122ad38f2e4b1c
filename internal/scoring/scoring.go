// Package scoring is the pure normalize → velocity → dimension →
// temperature → convergence pipeline. Every function is side-effect
// free except ScoreSignals, which is documented to write Velocity and
// Direction back onto its input Signals (a deliberate, idempotent
// convenience for downstream renderers).
package scoring

import (
	"math"
	"sort"

	"temperature/internal/model"
)

// Weights configures the per-dimension overall weight and the
// per-source weight tables used during dimension aggregation.
type Weights struct {
	Dimension map[string]float64
	Source    map[string]map[string]float64
}

// DefaultWeights returns the v1 weight tables: equal 0.20 per dimension,
// and the Tier 1 source split within search_interest, media, and
// dev_ecosystem. Financial has no v1 source, so its table is empty.
func DefaultWeights() Weights {
	return Weights{
		Dimension: map[string]float64{
			model.DimensionSearchInterest: 0.20,
			model.DimensionMedia:          0.20,
			model.DimensionDevEcosystem:   0.20,
			model.DimensionFinancial:      0.20,
			model.DimensionAcademic:       0.20,
		},
		Source: map[string]map[string]float64{
			model.DimensionSearchInterest: {"wikipedia": 1.0},
			model.DimensionMedia:          {"gdelt_news_volume": 0.60, "gdelt_news_sentiment": 0.40},
			model.DimensionDevEcosystem:   {"npm": 0.50, "pypi": 0.50},
			model.DimensionFinancial:      {},
			model.DimensionAcademic:       {"semantic_scholar": 1.0},
		},
	}
}

// Clamp restricts value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// NormalizeSignal computes the 0-100 score for a single signal from its
// current value vs. period average. A score of 50 means "at period
// average"; 100 means "twice average"; 25 means "half average".
// news_sentiment signals are routed to NormalizeSentiment instead,
// using CurrentValue as the tone.
func NormalizeSignal(s model.Signal) float64 {
	if s.MetricName == "news_sentiment" {
		tone := 0.0
		if s.CurrentValue != nil {
			tone = *s.CurrentValue
		}
		return NormalizeSentiment(tone)
	}

	if s.CurrentValue == nil {
		return 0
	}
	if s.PeriodAvg == nil || *s.PeriodAvg == 0 {
		if *s.CurrentValue > 0 {
			return 75
		}
		return 0
	}

	ratio := *s.CurrentValue / *s.PeriodAvg
	return Clamp(ratio*50, 0, 100)
}

// NormalizeSentiment maps a GDELT-style tone (practical range [-10,10])
// to a 0-100 score: -10 -> 0, 0 -> 50, +10 -> 100.
func NormalizeSentiment(tone float64) float64 {
	clamped := Clamp(tone, -10, 10)
	return Clamp((clamped+10)*5, 0, 100)
}

// Velocity computes week-over-week percentage change over a value
// series: 14+ points compares the mean of the last 7 to the preceding
// 7; fewer points splits the series at its midpoint.
func Velocity(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var recent, previous []float64
	if len(values) >= 14 {
		recent = values[len(values)-7:]
		previous = values[len(values)-14 : len(values)-7]
	} else {
		mid := len(values) / 2
		previous = values[:mid]
		recent = values[mid:]
	}

	avgRecent := mean(recent)
	avgPrevious := mean(previous)

	if avgPrevious == 0 {
		if avgRecent > 0 {
			return 100
		}
		return 0
	}

	return (avgRecent - avgPrevious) / avgPrevious * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// DirectionFromVelocity maps a velocity percentage to one of the five
// direction bands. First matching band wins.
func DirectionFromVelocity(v float64) string {
	switch {
	case v >= 50:
		return model.DirectionSurging
	case v >= 15:
		return model.DirectionRising
	case v >= -15:
		return model.DirectionStable
	case v >= -50:
		return model.DirectionDeclining
	default:
		return model.DirectionCrashing
	}
}

// DetectBreakout reports whether every signal has fewer than 7
// DataPoints. An empty set is not a breakout.
func DetectBreakout(signals []model.Signal) bool {
	if len(signals) == 0 {
		return false
	}
	maxPoints := 0
	for _, s := range signals {
		if n := len(s.DataPoints); n > maxPoints {
			maxPoints = n
		}
	}
	return maxPoints < 7
}

// weightKey returns the lookup key for a signal's per-source weight:
// the news adapter (gdelt) gets a composite "<source>_<metric>" key so
// volume and sentiment carry distinct weights; every other source uses
// its plain name.
func weightKey(s model.Signal) string {
	if s.Source == "gdelt" {
		return s.Source + "_" + s.MetricName
	}
	return s.Source
}

// ScoreSignals mutates Velocity and Direction on every signal in place,
// from its own DataPoints. Idempotent: running it twice over the same
// input yields the same mutated fields.
func ScoreSignals(signals []model.Signal) {
	for i := range signals {
		v := Velocity(signals[i].Values())
		signals[i].Velocity = v
		signals[i].Direction = DirectionFromVelocity(v)
	}
}

// AggregateDimension groups the supplied signals (already scored by
// ScoreSignals) into one DimensionScore, weighting each signal per the
// configured source table, re-normalized over present signals only.
func AggregateDimension(name string, signals []model.Signal, sourceWeights map[string]float64) model.DimensionScore {
	maxSources := len(sourceWeights)
	if maxSources == 0 {
		maxSources = len(signals)
	}

	if len(signals) == 0 {
		return model.DimensionScore{Name: name, MaxSources: maxSources}
	}

	weights := make([]float64, len(signals))
	var total float64
	for i, s := range signals {
		w, ok := sourceWeights[weightKey(s)]
		if !ok {
			w = 1.0 / float64(len(signals))
		}
		weights[i] = w
		total += w
	}

	if total == 0 {
		uniform := 1.0 / float64(len(signals))
		for i := range weights {
			weights[i] = uniform
		}
	} else {
		for i := range weights {
			weights[i] /= total
		}
	}

	var score, velocity float64
	for i, s := range signals {
		score += weights[i] * NormalizeSignal(s)
		velocity += weights[i] * s.Velocity
	}
	score = Clamp(score, 0, 100)

	return model.DimensionScore{
		Name:          name,
		Score:         int(score),
		Direction:     DirectionFromVelocity(velocity),
		Velocity:      velocity,
		Signals:       signals,
		ActiveSources: len(signals),
		MaxSources:    maxSources,
		Sparkline:     longestSeries(signals),
	}
}

// longestSeries returns the value sequence of the signal with the most
// DataPoints; ties are broken by source name ascending for reproducible
// sparklines, per the documented tie-break policy.
func longestSeries(signals []model.Signal) []float64 {
	if len(signals) == 0 {
		return nil
	}
	ordered := make([]model.Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Source < ordered[j].Source })

	best := ordered[0]
	for _, s := range ordered[1:] {
		if len(s.DataPoints) > len(best.DataPoints) {
			best = s
		}
	}
	return best.Values()
}

// GroupByDimension buckets signals by dimension, folding the
// "sentiment" pseudo-dimension into "media".
func GroupByDimension(signals []model.Signal) map[string][]model.Signal {
	groups := map[string][]model.Signal{}
	for _, s := range signals {
		dim := s.Dimension
		if dim == model.DimensionSentiment {
			dim = model.DimensionMedia
		}
		groups[dim] = append(groups[dim], s)
	}
	return groups
}

// OverallTemperature computes the weighted sum of dimension scores
// against the configured dimension weights. Missing dimensions
// contribute 0 and there is no second re-normalization: this is
// intentional (see DESIGN.md's Open Question decision) and encodes
// epistemic uncertainty when a dimension has no source.
func OverallTemperature(dimensions map[string]model.DimensionScore, dimensionWeights map[string]float64) int {
	var total float64
	for name, w := range dimensionWeights {
		if d, ok := dimensions[name]; ok {
			total += w * float64(d.Score)
		}
	}
	return int(Clamp(total, 0, 100))
}

// Convergence classifies cross-dimension directional agreement over
// dimensions with score > 0.
func Convergence(dimensions map[string]model.DimensionScore) string {
	var considered []model.DimensionScore
	for _, d := range dimensions {
		if d.Score > 0 {
			considered = append(considered, d)
		}
	}
	t := len(considered)
	if t < 2 {
		return "n/a"
	}

	var p, n int
	var absVelocitySum float64
	for _, d := range considered {
		switch d.Direction {
		case model.DirectionSurging, model.DirectionRising:
			p++
		case model.DirectionDeclining, model.DirectionCrashing:
			n++
		}
		absVelocitySum += math.Abs(d.Velocity)
	}
	avgAbsVelocity := absVelocitySum / float64(t)

	switch {
	case p == t && avgAbsVelocity > 30:
		return "strongly converging up"
	case p == t:
		return "converging up"
	case n == t && avgAbsVelocity > 30:
		return "strongly converging down"
	case n == t:
		return "converging down"
	case p > 0 && n > 0:
		return "diverging"
	default:
		return "mixed"
	}
}

// OverallDirection is the mean of active-dimension (score > 0)
// velocities mapped through the direction table, overridden to "new" on
// breakout, or "stable" when there are no active dimensions.
func OverallDirection(dimensions map[string]model.DimensionScore, breakout bool) string {
	if breakout {
		return model.DirectionNew
	}
	var sum float64
	var n int
	for _, d := range dimensions {
		if d.Score > 0 {
			sum += d.Velocity
			n++
		}
	}
	if n == 0 {
		return model.DirectionStable
	}
	return DirectionFromVelocity(sum / float64(n))
}

// HottestDimension returns the name of the dimension with the maximum
// score. Ties are broken by name ascending for a stable, reproducible
// result.
func HottestDimension(dimensions map[string]model.DimensionScore) string {
	return extremeDimension(dimensions, func(d model.DimensionScore) float64 { return float64(d.Score) })
}

// FastestMover returns the name of the dimension with the maximum
// absolute velocity. Ties are broken by name ascending.
func FastestMover(dimensions map[string]model.DimensionScore) string {
	return extremeDimension(dimensions, func(d model.DimensionScore) float64 { return math.Abs(d.Velocity) })
}

func extremeDimension(dimensions map[string]model.DimensionScore, metric func(model.DimensionScore) float64) string {
	if len(dimensions) == 0 {
		return ""
	}
	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	bestVal := metric(dimensions[best])
	for _, name := range names[1:] {
		if v := metric(dimensions[name]); v > bestVal {
			best = name
			bestVal = v
		}
	}
	return best
}
