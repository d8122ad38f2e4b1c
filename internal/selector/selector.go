// Package selector applies the tier/key/availability/relevance gating
// that decides which registered sources run for a given request.
package selector

import (
	"fmt"

	"temperature/internal/env"
	"temperature/internal/source"
)

// Request carries the selection-relevant flags for one run.
type Request struct {
	Topic   string
	Quick   bool // restrict to Tier 1
	Premium bool // allow Tier 3
}

// Result is the output of Select: which sources will run, and why the
// rest were skipped.
type Result struct {
	Selected map[string]source.Source
	Skipped  map[string]string
}

// Select gates every registered source in order — tier, then key, then
// availability, then relevance — first failure wins.
func Select(reg *source.Registry, cfg env.Config, req Request) Result {
	tiers := env.Resolve(cfg)

	allowed := map[source.Tier]bool{source.Tier1: true}
	if !req.Quick {
		allowed[source.Tier2] = true
	}
	if req.Premium {
		allowed[source.Tier3] = true
	}

	res := Result{
		Selected: map[string]source.Source{},
		Skipped:  map[string]string{},
	}

	srcCfg := source.Config{Values: map[string]string(cfg)}

	for _, s := range reg.All() {
		name := s.Name()
		tier := s.SourceTier()

		if !allowed[tier] {
			res.Skipped[name] = fmt.Sprintf("tier %d not enabled", tier)
			continue
		}

		if tier >= source.Tier2 {
			if !tiers.Has(int(tier), name) {
				res.Skipped[name] = "API key not configured"
				continue
			}
		}

		if !s.IsAvailable(srcCfg) {
			res.Skipped[name] = "not available"
			continue
		}

		if !s.ShouldSearch(req.Topic) {
			res.Skipped[name] = "not relevant for topic"
			continue
		}

		res.Selected[name] = s
	}

	return res
}
