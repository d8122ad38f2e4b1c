// Package gdelt adapts the GDELT DOC 2.0 API into two Signals per
// search: news_volume (media dimension) and news_sentiment (folds into
// media during dimension grouping). Tier 1, no credential required.
package gdelt

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"temperature/internal/httpclient"
	"temperature/internal/model"
	"temperature/internal/source"
)

const (
	sourceName    = "gdelt"
	displayName   = "GDELT News"
	defaultDelim  = "|||"
	maxWindowDays = 90 // GDELT's rolling window ceiling
)

const defaultBase = "https://api.gdeltproject.org/api/v2/doc/doc"

type adapter struct {
	client  *httpclient.Client
	baseURL string
}

func init() {
	source.Default.Register(newAdapter())
}

func newAdapter() *adapter {
	return &adapter{client: httpclient.New(nil), baseURL: defaultBase}
}

func (a *adapter) Name() string            { return sourceName }
func (a *adapter) DisplayName() string     { return displayName }
func (a *adapter) SourceTier() source.Tier { return source.Tier1 }
func (a *adapter) Dimension() string       { return model.DimensionMedia }

func (a *adapter) IsAvailable(cfg source.Config) bool { return true }
func (a *adapter) ShouldSearch(topic string) bool     { return true }

func (a *adapter) Search(ctx context.Context, topic string, windowDays int, cfg source.Config) ([]model.Signal, error) {
	query := pickVariant(topic)
	clamped := windowDays
	if clamped > maxWindowDays {
		clamped = maxWindowDays
	}
	timespan := fmt.Sprintf("%dd", clamped)

	volume := a.fetchTimeline(ctx, query, "timelinevolraw", timespan, cfg, false)
	tone := a.fetchTimeline(ctx, query, "timelinetone", timespan, cfg, true)

	var signals []model.Signal

	if len(volume) > 0 {
		current, avg := summarize(volume)
		signals = append(signals, model.Signal{
			Source:       sourceName,
			MetricName:   "news_volume",
			MetricUnit:   "articles/day",
			Dimension:    model.DimensionMedia,
			DataPoints:   volume,
			CurrentValue: &current,
			PeriodAvg:    &avg,
		})
	}

	if len(tone) > 0 {
		current, avg := summarize(tone)
		signals = append(signals, model.Signal{
			Source:       sourceName,
			MetricName:   "news_sentiment",
			MetricUnit:   "tone_score",
			Dimension:    model.DimensionSentiment,
			DataPoints:   tone,
			CurrentValue: &current,
			PeriodAvg:    &avg,
			Confidence:   model.ConfidenceMedium,
		})
	}

	return signals, nil
}

func pickVariant(topic string) string {
	parts := strings.SplitN(topic, defaultDelim, 2)
	return strings.TrimSpace(parts[0])
}

func summarize(points []model.DataPoint) (current, avg float64) {
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return points[len(points)-1].Value, sum / float64(len(points))
}

type timelineResponse struct {
	Timeline []struct {
		Data []struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"data"`
	} `json:"timeline"`
}

// fetchTimeline fetches and daily-aggregates one GDELT timeline mode.
// Network and decode failures are swallowed into an empty result: GDELT
// intermittently fails one of the two modes and the adapter still
// reports whichever signal succeeded, rather than failing the whole
// source.
func (a *adapter) fetchTimeline(ctx context.Context, query, mode, timespan string, cfg source.Config, average bool) []model.DataPoint {
	u := fmt.Sprintf(
		"%s?query=%s&mode=%s&format=json&timespan=%s",
		a.baseURL, url.QueryEscape(query), mode, timespan,
	)

	var resp timelineResponse
	if err := a.client.GetJSON(ctx, u, nil, timeout(cfg), &resp); err != nil {
		return nil
	}
	if len(resp.Timeline) == 0 || len(resp.Timeline[0].Data) == 0 {
		return nil
	}

	return aggregateByDate(resp.Timeline[0].Data, average)
}

func aggregateByDate(entries []struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}, average bool) []model.DataPoint {
	byDate := map[string][]float64{}
	for _, e := range entries {
		if len(e.Date) < 8 {
			continue
		}
		dateStr := e.Date[:4] + "-" + e.Date[4:6] + "-" + e.Date[6:8]
		byDate[dateStr] = append(byDate[dateStr], e.Value)
	}

	dateStrs := make([]string, 0, len(byDate))
	for d := range byDate {
		dateStrs = append(dateStrs, d)
	}
	sort.Strings(dateStrs)

	points := make([]model.DataPoint, 0, len(dateStrs))
	for _, d := range dateStrs {
		vals := byDate[d]
		var sum float64
		for _, v := range vals {
			sum += v
		}
		agg := sum
		if average {
			agg = sum / float64(len(vals))
		}
		points = append(points, model.DataPoint{
			Timestamp: d,
			Value:     agg,
			Raw:       map[string]any{"entries": len(vals)},
		})
	}
	return points
}

func timeout(cfg source.Config) time.Duration {
	secs := cfg.PerSourceTimeoutSeconds
	if secs <= 0 {
		secs = 12
	}
	return time.Duration(secs) * time.Second
}
