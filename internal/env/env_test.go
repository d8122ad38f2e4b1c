package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileParsesQuotesAndComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nSERPAPI_KEY=\"abc=123\"\nGITHUB_TOKEN='token-1'\nBLANK=\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out := loadFile(path)
	assert.Equal(t, "abc=123", out["SERPAPI_KEY"])
	assert.Equal(t, "token-1", out["GITHUB_TOKEN"])
	_, ok := out["BLANK"]
	assert.False(t, ok)
}

func TestLoadFileMissingReturnsEmpty(t *testing.T) {
	out := loadFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Empty(t, out)
}

func TestLoadEnvTakesPrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERPAPI_KEY=from-file\n"), 0644))

	t.Setenv(ConfigDirEnvVar, dir)
	t.Setenv(KeySerpAPI, "from-env")

	cfg := Load()
	assert.Equal(t, "from-env", cfg.Get(KeySerpAPI))
}

func TestConfigDirEnvVarEmptyDisablesFile(t *testing.T) {
	t.Setenv(ConfigDirEnvVar, "")
	assert.Nil(t, configFilePath())
}

func TestResolveTier1AlwaysAvailable(t *testing.T) {
	tiers := Resolve(Config{})
	assert.Contains(t, tiers.Tier1, "wikipedia")
	assert.True(t, tiers.Has(1, "npm"))
	assert.False(t, tiers.Has(2, "alpha_vantage"))
}

func TestResolveTier2RequiresKey(t *testing.T) {
	tiers := Resolve(Config{KeyAlphaVantage: "x"})
	assert.True(t, tiers.Has(2, "alpha_vantage"))
	assert.False(t, tiers.Has(2, "coingecko"))
}

func TestResolveDataForSEORequiresBothCredentials(t *testing.T) {
	tiers := Resolve(Config{KeyDataForSEOLogin: "x"})
	assert.False(t, tiers.Has(3, "dataforseo"))

	tiers = Resolve(Config{KeyDataForSEOLogin: "x", KeyDataForSEOPass: "y"})
	assert.True(t, tiers.Has(3, "dataforseo"))
}
