package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temperature/internal/executor"
	"temperature/internal/model"
	"temperature/internal/selector"
	"temperature/internal/source"
)

type stubSource struct {
	name string
	disp string
}

func (s stubSource) Name() string                           { return s.name }
func (s stubSource) DisplayName() string                    { return s.disp }
func (s stubSource) SourceTier() source.Tier                { return source.Tier1 }
func (s stubSource) Dimension() string                      { return model.DimensionMedia }
func (s stubSource) IsAvailable(cfg source.Config) bool      { return true }
func (s stubSource) ShouldSearch(topic string) bool          { return true }
func (s stubSource) Search(ctx context.Context, topic string, windowDays int, cfg source.Config) ([]model.Signal, error) {
	return nil, nil
}

func sampleReport() model.Report {
	return model.Report{
		Topic:       "golang",
		Temperature: 62,
		Label:       "Hot",
		Direction:   model.DirectionRising,
		Convergence: "converging up",
		Dimensions: map[string]model.DimensionScore{
			model.DimensionSearchInterest: {
				Name: model.DimensionSearchInterest, Score: 70, Direction: model.DirectionRising,
				ActiveSources: 1, Sparkline: []float64{1, 2, 3, 4},
			},
			model.DimensionMedia: {
				Name: model.DimensionMedia, Score: 50, Direction: model.DirectionStable,
				ActiveSources: 1,
			},
			model.DimensionFinancial: {
				Name: model.DimensionFinancial, Score: 0, Direction: model.DirectionStable,
			},
		},
		HottestDimension: model.DimensionSearchInterest,
		FastestMover:     model.DimensionSearchInterest,
		Errors:           map[string]string{"npm": "rate limited"},
		AllSignals:       []model.Signal{},
		ConfigSummary:    map[string]any{},
	}
}

func TestNarrativeIncludesCoreFields(t *testing.T) {
	out := Narrative(sampleReport())
	assert.Contains(t, out, "62/100")
	assert.Contains(t, out, "Hot")
	assert.Contains(t, out, "Hottest: "+model.DimensionSearchInterest)
	assert.Contains(t, out, "converging up")
	assert.Contains(t, out, "✗ npm: rate limited")
	assert.NotContains(t, out, model.DimensionFinancial) // zero-score dimension omitted
}

func TestCompactIsSingleLine(t *testing.T) {
	out := Compact(sampleReport())
	assert.False(t, strings.Contains(out, "\n"))
	assert.Contains(t, out, "golang")
	assert.Contains(t, out, "62/100")
}

func TestJSONRoundTrips(t *testing.T) {
	out, err := JSON(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, out, `"topic": "golang"`)
}

func TestContextOmitsDecoration(t *testing.T) {
	out := Context(sampleReport())
	assert.Contains(t, out, "topic: golang")
	assert.Contains(t, out, "temperature: 62 (Hot, rising)")
	assert.NotContains(t, out, "🌡️")
}

func TestRenderDispatch(t *testing.T) {
	r := sampleReport()
	for _, f := range []Format{FormatNarrative, FormatCompact, FormatJSON, FormatContext} {
		out, err := Render(r, f)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	}
	_, err := Render(r, "bogus")
	assert.Error(t, err)
}

func TestEmptyDimensionsNarrative(t *testing.T) {
	r := sampleReport()
	r.Dimensions = map[string]model.DimensionScore{}
	out := Narrative(r)
	assert.Contains(t, out, "No dimension data available.")
}

func TestBuildStatusClassifiesOutcomes(t *testing.T) {
	reg := source.NewRegistry()
	reg.Register(stubSource{name: "wikipedia", disp: "Wikipedia"})
	reg.Register(stubSource{name: "npm", disp: "npm"})
	reg.Register(stubSource{name: "gdelt", disp: "GDELT"})

	sel := selector.Result{
		Selected: map[string]source.Source{
			"wikipedia": stubSource{name: "wikipedia", disp: "Wikipedia"},
			"npm":       stubSource{name: "npm", disp: "npm"},
		},
		Skipped: map[string]string{"gdelt": "not relevant for topic"},
	}
	results := map[string]executor.Result{
		"wikipedia": {Name: "wikipedia", Source: "wikipedia"},
		"npm":       {Name: "npm", Source: "npm", Error: "global timeout exceeded", ErrorType: executor.ErrTypeTimeout},
	}

	st := BuildStatus(reg, sel, results)
	assert.Equal(t, 3, st.TotalDiscovered)
	assert.Equal(t, 1, st.ActiveCount)
	require.Len(t, st.Active, 1)
	assert.Equal(t, "Wikipedia", st.Active[0].DisplayName)
	require.Len(t, st.TimedOut, 1)
	assert.Equal(t, "npm", st.TimedOut[0].Name)
	require.Len(t, st.Skipped, 1)
	assert.Equal(t, "gdelt", st.Skipped[0].Name)
}
