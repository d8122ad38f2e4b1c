// Package wikipedia adapts Wikipedia article pageviews into a
// search_interest Signal. Tier 1, no credential required.
package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"temperature/internal/dates"
	"temperature/internal/httpclient"
	"temperature/internal/model"
	"temperature/internal/source"
)

const (
	sourceName   = "wikipedia"
	displayName  = "Wikipedia Pageviews"
	dimension    = model.DimensionSearchInterest
	defaultDelim = "|||"
)

// techHints bias article resolution toward the technical sense of an
// ambiguous topic name (e.g. "go" the language, not the board game).
var techHints = []string{
	"programming", "software", "library", "framework", "language",
	"computing", "technology", "web", "tool", "protocol",
	"algorithm", "database", "api",
}

const (
	defaultSearchBase    = "https://en.wikipedia.org/w/api.php"
	defaultPageviewsBase = "https://wikimedia.org/api/rest_v1/metrics/pageviews/per-article/en.wikipedia.org/all-access/user"
)

type adapter struct {
	client        *httpclient.Client
	searchBase    string
	pageviewsBase string
}

func init() {
	source.Default.Register(newAdapter())
}

func newAdapter() *adapter {
	return &adapter{
		client:        httpclient.New(nil),
		searchBase:    defaultSearchBase,
		pageviewsBase: defaultPageviewsBase,
	}
}

func (a *adapter) Name() string            { return sourceName }
func (a *adapter) DisplayName() string     { return displayName }
func (a *adapter) SourceTier() source.Tier { return source.Tier1 }
func (a *adapter) Dimension() string       { return dimension }

func (a *adapter) IsAvailable(cfg source.Config) bool { return true }
func (a *adapter) ShouldSearch(topic string) bool     { return true }

func (a *adapter) Search(ctx context.Context, topic string, windowDays int, cfg source.Config) ([]model.Signal, error) {
	variants := variants(topic)

	var article string
	for _, v := range variants {
		resolved, err := a.resolveArticle(ctx, v, cfg)
		if err != nil {
			return nil, err
		}
		if resolved != "" {
			article = resolved
			break
		}
	}
	if article == "" {
		return nil, nil
	}

	from, to := dates.Range(windowDays)
	start := dates.ToWikimediaFormat(from)
	end := dates.ToWikimediaFormat(to)

	points, err := a.fetchPageviews(ctx, article, start, end, cfg)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}

	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	current := points[len(points)-1].Value
	avg := sum / float64(len(points))

	return []model.Signal{{
		Source:       sourceName,
		MetricName:   "pageviews",
		MetricUnit:   "views/day",
		Dimension:    dimension,
		DataPoints:   points,
		CurrentValue: &current,
		PeriodAvg:    &avg,
		Metadata:     map[string]any{"article": article},
	}}, nil
}

func variants(topic string) []string {
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

type searchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func (a *adapter) resolveArticle(ctx context.Context, topic string, cfg source.Config) (string, error) {
	u := fmt.Sprintf(
		"%s?action=query&list=search&srsearch=%s&srlimit=5&format=json",
		a.searchBase, url.QueryEscape(topic),
	)

	var resp searchResponse
	if err := a.client.GetJSON(ctx, u, nil, timeout(cfg), &resp); err != nil {
		return "", err
	}
	results := resp.Query.Search
	if len(results) == 0 {
		return "", nil
	}

	best := results[0].Title
	bestScore := 0
	for _, r := range results {
		score := 0
		lowerTitle := strings.ToLower(r.Title)
		lowerSnippet := strings.ToLower(r.Snippet)
		for _, hint := range techHints {
			if strings.Contains(lowerTitle, hint) || strings.Contains(lowerSnippet, hint) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = r.Title
		}
	}
	return strings.ReplaceAll(best, " ", "_"), nil
}

type pageviewsResponse struct {
	Items []struct {
		Timestamp string `json:"timestamp"`
		Views     int64  `json:"views"`
	} `json:"items"`
}

func (a *adapter) fetchPageviews(ctx context.Context, article, start, end string, cfg source.Config) ([]model.DataPoint, error) {
	u := fmt.Sprintf(
		"%s/%s/daily/%s/%s",
		a.pageviewsBase, url.PathEscape(article), start, end,
	)

	var resp pageviewsResponse
	if err := a.client.GetJSON(ctx, u, nil, timeout(cfg), &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, source.NewError(sourceName, "response missing items field")
	}

	points := make([]model.DataPoint, 0, len(resp.Items))
	for _, item := range resp.Items {
		ts := item.Timestamp
		if len(ts) < 8 {
			continue
		}
		dateStr := ts[:4] + "-" + ts[4:6] + "-" + ts[6:8]
		points = append(points, model.DataPoint{
			Timestamp: dateStr,
			Value:     float64(item.Views),
			Raw:       map[string]any{"views": item.Views},
		})
	}
	return points, nil
}

func timeout(cfg source.Config) time.Duration {
	secs := cfg.PerSourceTimeoutSeconds
	if secs <= 0 {
		secs = 8
	}
	return time.Duration(secs) * time.Second
}
