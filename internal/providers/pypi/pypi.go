// Package pypi adapts the pypistats.org downloads API into a
// dev_ecosystem Signal. Tier 1, no credential required.
package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"temperature/internal/dates"
	"temperature/internal/httpclient"
	"temperature/internal/model"
	"temperature/internal/source"
)

const (
	sourceName   = "pypi"
	displayName  = "PyPI Downloads"
	defaultDelim = "|||"
)

const (
	defaultExistsBase = "https://pypi.org/pypi"
	defaultStatsBase  = "https://pypistats.org/api/packages"
)

type adapter struct {
	client     *httpclient.Client
	existsBase string
	statsBase  string
}

func init() {
	source.Default.Register(newAdapter())
}

func newAdapter() *adapter {
	return &adapter{
		client:     httpclient.New(nil),
		existsBase: defaultExistsBase,
		statsBase:  defaultStatsBase,
	}
}

func (a *adapter) Name() string            { return sourceName }
func (a *adapter) DisplayName() string     { return displayName }
func (a *adapter) SourceTier() source.Tier { return source.Tier1 }
func (a *adapter) Dimension() string       { return model.DimensionDevEcosystem }

func (a *adapter) IsAvailable(cfg source.Config) bool { return true }
func (a *adapter) ShouldSearch(topic string) bool     { return true }

func (a *adapter) Search(ctx context.Context, topic string, windowDays int, cfg source.Config) ([]model.Signal, error) {
	variants := splitVariants(topic)
	if len(variants) == 0 {
		return nil, nil
	}

	var pkg string
	for _, v := range variants {
		candidate := strings.ToLower(strings.TrimSpace(v))
		exists, err := a.packageExists(ctx, candidate, cfg)
		if err != nil {
			continue
		}
		if exists {
			pkg = candidate
			break
		}
	}
	if pkg == "" {
		return nil, nil
	}

	points, err := a.fetchDownloads(ctx, pkg, cfg)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}

	// pypistats returns up to 180 days; filter to the requested window.
	cutoff, _ := dates.Range(windowDays)

	filtered := points[:0:0]
	for _, p := range points {
		if p.Timestamp >= cutoff {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	var sum float64
	for _, p := range filtered {
		sum += p.Value
	}
	current := filtered[len(filtered)-1].Value
	avg := sum / float64(len(filtered))

	return []model.Signal{{
		Source:       sourceName,
		MetricName:   "downloads",
		MetricUnit:   "downloads/day",
		Dimension:    model.DimensionDevEcosystem,
		DataPoints:   filtered,
		CurrentValue: &current,
		PeriodAvg:    &avg,
		Metadata:     map[string]any{"package": pkg},
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

func (a *adapter) packageExists(ctx context.Context, pkg string, cfg source.Config) (bool, error) {
	u := fmt.Sprintf("%s/%s/json", a.existsBase, url.PathEscape(pkg))
	err := a.client.GetJSON(ctx, u, nil, 5*time.Second, nil)
	if err == nil {
		return true, nil
	}
	var httpErr *httpclient.Error
	if errors.As(err, &httpErr) && httpErr.StatusCode == 404 {
		return false, nil
	}
	return false, err
}

type statsResponse struct {
	Data []struct {
		Category  string `json:"category"`
		Date      string `json:"date"`
		Downloads int64  `json:"downloads"`
	} `json:"data"`
}

func (a *adapter) fetchDownloads(ctx context.Context, pkg string, cfg source.Config) ([]model.DataPoint, error) {
	u := fmt.Sprintf("%s/%s/overall?mirrors=false", a.statsBase, url.PathEscape(pkg))

	var resp statsResponse
	if err := a.client.GetJSON(ctx, u, nil, timeout(cfg), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, source.NewError(sourceName, "response missing data field")
	}

	points := make([]model.DataPoint, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if entry.Category != "without_mirrors" {
			continue
		}
		points = append(points, model.DataPoint{
			Timestamp: entry.Date,
			Value:     float64(entry.Downloads),
			Raw:       map[string]any{"downloads": entry.Downloads, "category": entry.Category},
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	return points, nil
}

func timeout(cfg source.Config) time.Duration {
	secs := cfg.PerSourceTimeoutSeconds
	if secs <= 0 {
		secs = 8
	}
	return time.Duration(secs) * time.Second
}
