// Package semanticscholar adapts the Semantic Scholar Graph API into an
// academic Signal, grouped by publication year. Tier 1, with an optional
// API key (env.KeySemanticScholar) for higher rate limits.
package semanticscholar

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"temperature/internal/dates"
	"temperature/internal/env"
	"temperature/internal/httpclient"
	"temperature/internal/model"
	"temperature/internal/source"
)

const (
	sourceName   = "semantic_scholar"
	displayName  = "Semantic Scholar"
	defaultDelim = "|||"
)

const defaultBase = "https://api.semanticscholar.org/graph/v1/paper/search"

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
func (a *adapter) Dimension() string       { return model.DimensionAcademic }

func (a *adapter) IsAvailable(cfg source.Config) bool { return true }
func (a *adapter) ShouldSearch(topic string) bool     { return true }

func (a *adapter) Search(ctx context.Context, topic string, windowDays int, cfg source.Config) ([]model.Signal, error) {
	variants := splitVariants(topic)
	if len(variants) == 0 {
		return nil, nil
	}
	query := variants[0]

	yearRange := computeYearRange(windowDays)

	resp, err := a.searchPapers(ctx, query, yearRange, cfg)
	if err != nil {
		var httpErr *httpclient.Error
		if errors.As(err, &httpErr) && httpErr.StatusCode == 429 {
			return nil, source.NewError(sourceName, "rate limited (shared pool contention)")
		}
		return nil, err
	}

	if resp.Total == 0 || len(resp.Data) == 0 {
		return nil, nil
	}

	yearCounts := map[int]int{}
	for _, paper := range resp.Data {
		if paper.Year != 0 {
			yearCounts[paper.Year]++
		}
	}
	if len(yearCounts) == 0 {
		return nil, nil
	}

	years := make([]int, 0, len(yearCounts))
	for y := range yearCounts {
		years = append(years, y)
	}
	sort.Ints(years)

	points := make([]model.DataPoint, 0, len(years))
	for _, y := range years {
		count := yearCounts[y]
		points = append(points, model.DataPoint{
			Timestamp: strconv.Itoa(y),
			Value:     float64(count),
			Raw:       map[string]any{"year": y, "count": count},
		})
	}

	mostRecentYear := years[len(years)-1]
	current := float64(yearCounts[mostRecentYear])

	var sum float64
	for _, c := range yearCounts {
		sum += float64(c)
	}
	avg := sum / float64(len(yearCounts))

	return []model.Signal{{
		Source:       sourceName,
		MetricName:   "paper_count",
		MetricUnit:   "papers",
		Dimension:    model.DimensionAcademic,
		DataPoints:   points,
		CurrentValue: &current,
		PeriodAvg:    &avg,
		Confidence:   model.ConfidenceLow,
		Metadata: map[string]any{
			"total":      resp.Total,
			"year_range": yearRange,
			"query":      query,
		},
	}}, nil
}

func splitVariants(topic string) []string {
	parts := strings.Split(topic, defaultDelim)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// computeYearRange mirrors the coarse yearly granularity this API
// exposes: windows of a year or less only ever query the current year.
func computeYearRange(windowDays int) string {
	currentYear := dates.CurrentYear()
	if windowDays <= 365 {
		return dates.YearString(currentYear) + "-" + dates.YearString(currentYear)
	}
	startYear := currentYear - windowDays/365
	return dates.YearString(startYear) + "-" + dates.YearString(currentYear)
}

type searchResponse struct {
	Total int `json:"total"`
	Data  []struct {
		Year int `json:"year"`
	} `json:"data"`
}

func (a *adapter) searchPapers(ctx context.Context, query, yearRange string, cfg source.Config) (*searchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("year", yearRange)
	params.Set("fields", "year,citationCount")
	params.Set("limit", "100")

	u := a.baseURL + "?" + params.Encode()

	headers := map[string]string{}
	if key := cfg.Get(env.KeySemanticScholar); key != "" {
		headers["x-api-key"] = key
	}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, u, headers, timeout(cfg), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func timeout(cfg source.Config) time.Duration {
	secs := cfg.PerSourceTimeoutSeconds
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}
