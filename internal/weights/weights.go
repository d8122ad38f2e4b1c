// Package weights loads an optional YAML override of the scoring
// engine's dimension/source weight tables and can watch the override
// file for changes, adapted from the teacher's configuration hot-reload
// system (trimmed to the single concern this system needs: reloading a
// weight table, not full config versioning or A/B testing).
package weights

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"temperature/internal/scoring"
)

// Override is the YAML shape of a weight-table override file. Either
// section may be partial or absent; Apply only overwrites the keys it
// names.
type Override struct {
	Dimension map[string]float64            `yaml:"dimension"`
	Source    map[string]map[string]float64 `yaml:"source"`
}

// Load reads a YAML override file and applies it on top of base,
// returning a new Weights value. A missing file returns base unchanged.
func Load(path string, base scoring.Weights) (scoring.Weights, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("weights: read override file: %w", err)
	}

	var override Override
	if err := yaml.Unmarshal(data, &override); err != nil {
		return base, fmt.Errorf("weights: parse override file: %w", err)
	}

	return Apply(base, override), nil
}

// Apply merges override onto base, returning a new Weights value. base
// is not mutated.
func Apply(base scoring.Weights, override Override) scoring.Weights {
	out := scoring.Weights{
		Dimension: make(map[string]float64, len(base.Dimension)),
		Source:    make(map[string]map[string]float64, len(base.Source)),
	}
	for k, v := range base.Dimension {
		out.Dimension[k] = v
	}
	for dim, sources := range base.Source {
		out.Source[dim] = make(map[string]float64, len(sources))
		for k, v := range sources {
			out.Source[dim][k] = v
		}
	}

	for k, v := range override.Dimension {
		out.Dimension[k] = v
	}
	for dim, sources := range override.Source {
		if out.Source[dim] == nil {
			out.Source[dim] = make(map[string]float64, len(sources))
		}
		for k, v := range sources {
			out.Source[dim][k] = v
		}
	}
	return out
}

// Watcher reloads the override file on write and hands the merged
// Weights to a callback. It is optional infrastructure: callers that
// only need a one-time load should use Load directly.
type Watcher struct {
	path     string
	base     scoring.Weights
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watching bool
}

// NewWatcher creates a Watcher for path, re-merging onto base on every
// change.
func NewWatcher(path string, base scoring.Weights) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("weights: create file watcher: %w", err)
	}
	return &Watcher{path: path, base: base, watcher: fw}, nil
}

// Watch starts watching the override file's directory (fsnotify cannot
// watch a not-yet-existing file directly) and sends merged Weights to
// the returned channel on every write event. The channel closes when
// stop is closed.
func (w *Watcher) Watch(stop <-chan struct{}) (<-chan scoring.Weights, <-chan error) {
	updates := make(chan scoring.Weights, 1)
	errs := make(chan error, 1)

	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		close(updates)
		close(errs)
		return updates, errs
	}
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Unlock()
		errs <- fmt.Errorf("weights: watch dir %s: %w", dir, err)
		close(updates)
		close(errs)
		return updates, errs
	}
	w.watching = true
	w.mu.Unlock()

	go func() {
		defer close(updates)
		defer close(errs)
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if ev.Name != w.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				merged, err := Load(w.path, w.base)
				if err != nil {
					errs <- err
					continue
				}
				updates <- merged
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				errs <- err
			case <-stop:
				return
			}
		}
	}()
	return updates, errs
}

// Close stops watching and releases the underlying file descriptor.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watching = false
	return w.watcher.Close()
}
