// Package source defines the fixed contract every provider adapter
// implements (the "source protocol") and the compile-time registry that
// replaces the original dynamic directory-scan discovery with explicit
// registration, per the statically-typed-target guidance in the design
// notes this system was distilled from.
package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"temperature/internal/model"
)

// Tier classifies an adapter by cost/availability.
type Tier int

const (
	Tier1 Tier = 1 // always available, no credential
	Tier2 Tier = 2 // requires one credential
	Tier3 Tier = 3 // requires credential AND explicit opt-in (premium)
)

// Error is raised by an adapter when the provider is broken for this
// request — distinct from "no data for this topic", which is signaled
// by Search returning a nil slice. Never retried by the executor.
type Error struct {
	Source  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// NewError constructs a source Error.
func NewError(src, message string) *Error {
	return &Error{Source: src, Message: message}
}

// Config is the per-call configuration handed to every adapter. It
// carries credentials (merged from the environment provider) plus the
// per-source timeout budget under PerSourceTimeoutSeconds.
type Config struct {
	Values                map[string]string
	PerSourceTimeoutSeconds int
}

// Get returns a credential value, or "" if absent.
func (c Config) Get(key string) string {
	return c.Values[key]
}

// Source is the fixed capability set every provider adapter exposes.
// Adapters register themselves at package-init time via Register; the
// in-Go equivalent of the original directory-scan discovery protocol.
//
// A single Source instance is never called concurrently within one run
// (the executor schedules one Search per adapter per run), but distinct
// Source instances may run concurrently with each other, so a Source
// implementation must not share mutable state across adapters.
type Source interface {
	Name() string
	DisplayName() string
	SourceTier() Tier
	Dimension() string

	// IsAvailable is pure and cheap: does the adapter have what it needs
	// at all (keys, required dependencies)?
	IsAvailable(cfg Config) bool

	// ShouldSearch is pure: is this adapter relevant for the topic?
	ShouldSearch(topic string) bool

	// Search performs I/O and returns zero or more Signals for the
	// topic, or a *Error if the provider is broken for this request.
	// Multi-signal providers (e.g. news volume + sentiment) return more
	// than one Signal; single-signal providers return a one-element
	// slice. No data for the topic is a nil slice, nil error.
	Search(ctx context.Context, topic string, windowDays int, cfg Config) ([]model.Signal, error)
}

// Registry is a read-only-after-startup map from SOURCE_NAME to Source.
type Registry struct {
	mu      sync.Mutex
	sources map[string]Source
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds an adapter to the registry. Two adapters with the same
// Name is a startup error (panic), mirroring the conflict behavior
// called for in the source registry component: discovered conflicts are
// fatal, not silently resolved.
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := s.Name()
	if _, exists := r.sources[name]; exists {
		panic(fmt.Sprintf("source: duplicate registration for %q", name))
	}
	r.sources[name] = s
}

// All returns every registered source, sorted by name for deterministic
// iteration order (so downstream sparkline tie-breaks are reproducible).
func (r *Registry) All() []Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Len reports how many sources are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}

// Default is the process-wide registry that provider adapters register
// into from their init() functions.
var Default = NewRegistry()
