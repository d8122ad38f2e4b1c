package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temperature/internal/httpclient"
	"temperature/internal/model"
	"temperature/internal/source"
)

type fakeSource struct {
	name   string
	tier   source.Tier
	dim    string
	delay  time.Duration
	result []model.Signal
	err    error
}

func (f fakeSource) Name() string             { return f.name }
func (f fakeSource) DisplayName() string      { return f.name }
func (f fakeSource) SourceTier() source.Tier  { return f.tier }
func (f fakeSource) Dimension() string        { return f.dim }
func (f fakeSource) IsAvailable(source.Config) bool { return true }
func (f fakeSource) ShouldSearch(string) bool { return true }

func (f fakeSource) Search(ctx context.Context, topic string, windowDays int, cfg source.Config) ([]model.Signal, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func TestClassifyErrorLaw(t *testing.T) {
	assert.Equal(t, ErrTypeSource, ClassifyError(source.NewError("x", "broken")))
	assert.Equal(t, ErrTypeRateLimit, ClassifyError(&httpclient.Error{StatusCode: 429}))
	assert.Equal(t, ErrTypeAuth, ClassifyError(&httpclient.Error{StatusCode: 401}))
	assert.Equal(t, ErrTypeAuth, ClassifyError(&httpclient.Error{StatusCode: 403}))
	assert.Equal(t, ErrTypeHTTP, ClassifyError(&httpclient.Error{StatusCode: 500}))
}

func TestRunPartialTimeout(t *testing.T) {
	v := 1.0
	fast := fakeSource{
		name: "fast", tier: source.Tier1, dim: model.DimensionSearchInterest,
		delay:  10 * time.Millisecond,
		result: []model.Signal{{Source: "fast", CurrentValue: &v, PeriodAvg: &v}},
	}
	slow := fakeSource{
		name: "slow", tier: source.Tier1, dim: model.DimensionMedia,
		delay: 3 * time.Second,
	}

	selected := map[string]source.Source{"fast": fast, "slow": slow}
	budget := Budget{PerSourceTimeout: 5 * time.Second, GlobalBudget: 200 * time.Millisecond}

	signals, allResults := Run(context.Background(), selected, "topic", 30, source.Config{}, budget, nil, nil)

	require.Len(t, signals, 1)
	assert.Equal(t, "fast", signals[0].Source)

	slowResult, ok := allResults["slow"]
	require.True(t, ok)
	assert.Equal(t, ErrTypeTimeout, slowResult.ErrorType)
	assert.Equal(t, 0, slowResult.ElapsedMS)
	assert.Nil(t, slowResult.Signal)
}

func TestRunNoSelectedSources(t *testing.T) {
	signals, allResults := Run(context.Background(), map[string]source.Source{}, "topic", 30, source.Config{}, DefaultBudget(), nil, nil)
	assert.Empty(t, signals)
	assert.Empty(t, allResults)
}

func TestRunMultiSignalProviderCompositeKeys(t *testing.T) {
	v := 1.0
	multi := fakeSource{
		name: "gdelt", tier: source.Tier1, dim: model.DimensionMedia,
		delay: time.Millisecond,
		result: []model.Signal{
			{Source: "gdelt", MetricName: "news_volume", CurrentValue: &v, PeriodAvg: &v},
			{Source: "gdelt", MetricName: "news_sentiment", CurrentValue: &v},
		},
	}
	selected := map[string]source.Source{"gdelt": multi}
	_, allResults := Run(context.Background(), selected, "topic", 30, source.Config{}, DefaultBudget(), nil, nil)

	_, hasVolume := allResults["gdelt_news_volume"]
	_, hasSentiment := allResults["gdelt_news_sentiment"]
	assert.True(t, hasVolume)
	assert.True(t, hasSentiment)
}
