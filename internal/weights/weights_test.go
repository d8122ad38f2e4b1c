package weights

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temperature/internal/scoring"
)

func TestLoadMissingFileReturnsBaseUnchanged(t *testing.T) {
	base := scoring.DefaultWeights()
	out, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), base)
	require.NoError(t, err)
	assert.Equal(t, base, out)
}

func TestLoadMergesPartialOverride(t *testing.T) {
	base := scoring.DefaultWeights()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := "dimension:\n  academic: 0.5\nsource:\n  media:\n    gdelt_news_volume: 0.9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := Load(path, base)
	require.NoError(t, err)

	assert.Equal(t, 0.5, out.Dimension["academic"])
	assert.Equal(t, base.Dimension["search_interest"], out.Dimension["search_interest"])
	assert.Equal(t, 0.9, out.Source["media"]["gdelt_news_volume"])
}

func TestApplyDoesNotMutateBase(t *testing.T) {
	base := scoring.DefaultWeights()
	originalAcademic := base.Dimension["academic"]

	Apply(base, Override{Dimension: map[string]float64{"academic": 0.99}})

	assert.Equal(t, originalAcademic, base.Dimension["academic"])
}

func TestWatcherEmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dimension:\n  academic: 0.1\n"), 0644))

	base := scoring.DefaultWeights()
	w, err := NewWatcher(path, base)
	require.NoError(t, err)
	defer w.Close()

	stop := make(chan struct{})
	defer close(stop)
	updates, errs := w.Watch(stop)

	require.NoError(t, os.WriteFile(path, []byte("dimension:\n  academic: 0.42\n"), 0644))

	select {
	case merged := <-updates:
		assert.Equal(t, 0.42, merged.Dimension["academic"])
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher update")
	}
}
