// Package render converts a Report into one of four output formats:
// narrative, compact, json, and context. Each is a pure function from
// Report to string.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"temperature/internal/executor"
	"temperature/internal/model"
	"temperature/internal/selector"
	"temperature/internal/source"
	"temperature/internal/sparkline"
)

var directionArrows = map[string]string{
	model.DirectionSurging:   "⬆",
	model.DirectionRising:    "↑",
	model.DirectionStable:    "→",
	model.DirectionDeclining: "↓",
	model.DirectionCrashing:  "⬇",
	model.DirectionNew:       "🆕",
}

var dimAbbrev = map[string]string{
	model.DimensionSearchInterest: "search",
	model.DimensionMedia:          "media",
	model.DimensionDevEcosystem:   "dev",
	model.DimensionFinancial:      "fin",
	model.DimensionAcademic:       "acad",
}

func arrow(direction string) string {
	if a, ok := directionArrows[direction]; ok {
		return a
	}
	return "→"
}

func dimName(name string) string {
	if a, ok := dimAbbrev[name]; ok {
		return a
	}
	return name
}

// activeDimensions returns dimensions with score > 0, sorted by score
// descending then name ascending for a stable order.
func activeDimensions(dims map[string]model.DimensionScore) []model.DimensionScore {
	out := make([]model.DimensionScore, 0, len(dims))
	for _, d := range dims {
		if d.Score > 0 {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func gauge(score int, width int) string {
	filled := score * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func countActiveSources(r model.Report) int {
	total := 0
	for _, d := range r.Dimensions {
		total += d.ActiveSources
	}
	return total
}

func countFailedSources(r model.Report) int {
	return len(r.Errors)
}

// Narrative renders the full visual report: gauge, dimension table,
// hottest dimension and fastest mover, convergence, and source status
// footer.
func Narrative(r model.Report) string {
	var lines []string

	a := arrow(r.Direction)
	g := gauge(r.Temperature, 28)
	lines = append(lines, fmt.Sprintf("🌡️ %d/100 %s %s %s %s", r.Temperature, g, r.Label, a, r.Direction))
	lines = append(lines, "")

	active := activeDimensions(r.Dimensions)
	if len(active) > 0 {
		lines = append(lines, fmt.Sprintf("%-16s %5s  %-20s  Dir", "Dimension", "Score", "Trend"))
		lines = append(lines, strings.Repeat("─", 55))
		for _, d := range active {
			spark := ""
			if len(d.Sparkline) > 0 {
				spark = sparkline.Render(d.Sparkline, 20)
			}
			lines = append(lines, fmt.Sprintf("%-16s %5d  %-20s  %s %s", dimName(d.Name), d.Score, spark, arrow(d.Direction), d.Direction))
		}
	} else {
		lines = append(lines, "No dimension data available.")
	}
	lines = append(lines, "")

	if r.HottestDimension != "" {
		lines = append(lines, "Hottest: "+r.HottestDimension)
	}
	if r.FastestMover != "" {
		lines = append(lines, "Fastest mover: "+r.FastestMover)
	}

	if r.Convergence != "" && r.Convergence != "n/a" {
		lines = append(lines, "Convergence: "+r.Convergence)
	}

	lines = append(lines, "")

	activeCount := countActiveSources(r)
	failedCount := countFailedSources(r)
	lines = append(lines, fmt.Sprintf("Sources: %d active, %d failed", activeCount, failedCount))
	if len(r.Errors) > 0 {
		names := make([]string, 0, len(r.Errors))
		for name := range r.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  ✗ %s: %s", name, r.Errors[name]))
		}
	}

	return strings.Join(lines, "\n")
}

// Compact renders a single-line summary.
func Compact(r model.Report) string {
	a := arrow(r.Direction)
	active := activeDimensions(r.Dimensions)
	parts := make([]string, 0, len(active))
	for _, d := range active {
		parts = append(parts, fmt.Sprintf("%s:%d", dimName(d.Name), d.Score))
	}
	dimStr := strings.Join(parts, " ")
	sourceCount := countActiveSources(r)

	return fmt.Sprintf("🌡️ %s: %d/100 %s %s | %s | %d sources", r.Topic, r.Temperature, r.Label, a, dimStr, sourceCount)
}

// JSON renders the report as indented JSON.
func JSON(r model.Report) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Context renders a token-efficient key-value format intended for
// downstream LLM pipelines. No sparklines or decorative elements.
func Context(r model.Report) string {
	var lines []string

	lines = append(lines, "topic: "+r.Topic)
	lines = append(lines, fmt.Sprintf("temperature: %d (%s, %s)", r.Temperature, r.Label, r.Direction))

	active := activeDimensions(r.Dimensions)
	if len(active) > 0 {
		parts := make([]string, 0, len(active))
		for _, d := range active {
			parts = append(parts, fmt.Sprintf("%s=%d%s", dimName(d.Name), d.Score, arrow(d.Direction)))
		}
		lines = append(lines, "dimensions: "+strings.Join(parts, " "))
	} else {
		lines = append(lines, "dimensions: none")
	}

	lines = append(lines, "convergence: "+r.Convergence)
	lines = append(lines, fmt.Sprintf("sources: %d active, %d failed", countActiveSources(r), countFailedSources(r)))

	return strings.Join(lines, "\n")
}

// Format is one of the four supported renderer names.
type Format string

const (
	FormatNarrative Format = "narrative"
	FormatCompact   Format = "compact"
	FormatJSON      Format = "json"
	FormatContext   Format = "context"
)

// Render dispatches to the renderer named by format.
func Render(r model.Report, format Format) (string, error) {
	switch format {
	case FormatNarrative:
		return Narrative(r), nil
	case FormatCompact:
		return Compact(r), nil
	case FormatJSON:
		return JSON(r)
	case FormatContext:
		return Context(r), nil
	default:
		return "", fmt.Errorf("render: unknown format %q", format)
	}
}

// Status summarizes selection and execution outcomes for the CLI's
// diagnostic output (the renderers' own footers count sources from the
// Report instead), mirroring the convenience view
// the original implementation's get_source_status built over the same
// underlying data.
type Status struct {
	ActiveCount     int
	TotalDiscovered int
	Active          []SourceStatusEntry
	Skipped         []SkippedEntry
	Failed          []SourceStatusEntry
	TimedOut        []SourceStatusEntry
}

// SourceStatusEntry describes one source's outcome.
type SourceStatusEntry struct {
	Name        string
	DisplayName string
	Error       string
	ErrorType   string
	ElapsedMS   int
}

// SkippedEntry describes why a registered source did not run.
type SkippedEntry struct {
	Name   string
	Reason string
}

// BuildStatus assembles a Status from a registry and one run's
// selection and execution outcomes. reg supplies TotalDiscovered and
// display names; sel is the selector's selected/skipped split; results
// is the executor's per-source outcome map.
func BuildStatus(reg *source.Registry, sel selector.Result, results map[string]executor.Result) Status {
	displayName := make(map[string]string, reg.Len())
	for _, s := range reg.All() {
		displayName[s.Name()] = s.DisplayName()
	}

	st := Status{TotalDiscovered: reg.Len()}

	skippedNames := make([]string, 0, len(sel.Skipped))
	for name := range sel.Skipped {
		skippedNames = append(skippedNames, name)
	}
	sort.Strings(skippedNames)
	for _, name := range skippedNames {
		st.Skipped = append(st.Skipped, SkippedEntry{Name: name, Reason: sel.Skipped[name]})
	}

	resultNames := make([]string, 0, len(results))
	for name := range results {
		resultNames = append(resultNames, name)
	}
	sort.Strings(resultNames)

	for _, name := range resultNames {
		res := results[name]
		entry := SourceStatusEntry{
			Name:        name,
			DisplayName: displayName[res.Source],
			Error:       res.Error,
			ErrorType:   res.ErrorType,
			ElapsedMS:   res.ElapsedMS,
		}
		switch {
		case res.Error == "":
			st.Active = append(st.Active, entry)
		case res.ErrorType == executor.ErrTypeTimeout:
			st.TimedOut = append(st.TimedOut, entry)
		default:
			st.Failed = append(st.Failed, entry)
		}
	}
	st.ActiveCount = len(st.Active)

	return st
}
