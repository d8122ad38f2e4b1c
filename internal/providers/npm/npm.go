// Package npm adapts the npm registry downloads API into a
// dev_ecosystem Signal. Tier 1, no credential required.
package npm

import (
	"context"
	"errors"
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
	sourceName   = "npm"
	displayName  = "npm Downloads"
	defaultDelim = "|||"
)

const (
	defaultPointBase = "https://api.npmjs.org/downloads/point/last-week"
	defaultRangeBase = "https://api.npmjs.org/downloads/range"
)

type adapter struct {
	client    *httpclient.Client
	pointBase string
	rangeBase string
}

func init() {
	source.Default.Register(newAdapter())
}

func newAdapter() *adapter {
	return &adapter{
		client:    httpclient.New(nil),
		pointBase: defaultPointBase,
		rangeBase: defaultRangeBase,
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
			return nil, err // non-404 error: provider failure, not a missing package
		}
		if exists {
			pkg = candidate
			break
		}
	}
	if pkg == "" {
		return nil, nil
	}

	from, to := dates.Range(windowDays)
	points, err := a.fetchDownloads(ctx, pkg, from, to, cfg)
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
		MetricName:   "downloads",
		MetricUnit:   "downloads/day",
		Dimension:    model.DimensionDevEcosystem,
		DataPoints:   points,
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

// packageExists probes the npm registry's point-download endpoint: 200
// means the package exists, 404 means it does not, and any other error
// propagates so the caller can distinguish "try next variant" from a
// genuine provider failure.
func (a *adapter) packageExists(ctx context.Context, pkg string, cfg source.Config) (bool, error) {
	u := fmt.Sprintf("%s/%s", a.pointBase, url.PathEscape(pkg))
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

type downloadsResponse struct {
	Downloads []struct {
		Day       string `json:"day"`
		Downloads int64  `json:"downloads"`
	} `json:"downloads"`
}

func (a *adapter) fetchDownloads(ctx context.Context, pkg, start, end string, cfg source.Config) ([]model.DataPoint, error) {
	u := fmt.Sprintf("%s/%s:%s/%s", a.rangeBase, start, end, url.PathEscape(pkg))

	var resp downloadsResponse
	if err := a.client.GetJSON(ctx, u, nil, timeout(cfg), &resp); err != nil {
		return nil, err
	}
	if resp.Downloads == nil {
		return nil, source.NewError(sourceName, "response missing downloads field")
	}

	points := make([]model.DataPoint, 0, len(resp.Downloads))
	for _, entry := range resp.Downloads {
		points = append(points, model.DataPoint{
			Timestamp: entry.Day,
			Value:     float64(entry.Downloads),
			Raw:       map[string]any{"downloads": entry.Downloads},
		})
	}
	return points, nil
}

func timeout(cfg source.Config) time.Duration {
	secs := cfg.PerSourceTimeoutSeconds
	if secs <= 0 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}
