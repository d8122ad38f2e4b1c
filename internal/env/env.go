// Package env loads credentials from a key=value file and the process
// environment, and derives which Tier 2/3 sources are available for a
// given credential set.
package env

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Credential keys recognized by the configuration file and environment.
const (
	KeyAlphaVantage      = "ALPHA_VANTAGE_KEY"
	KeyCoinGeckoDemo     = "COINGECKO_DEMO_KEY"
	KeyCloudflareToken   = "CLOUDFLARE_API_TOKEN"
	KeySemanticScholar   = "SEMANTIC_SCHOLAR_KEY"
	KeySerpAPI           = "SERPAPI_KEY"
	KeyDataForSEOLogin   = "DATAFORSEO_LOGIN"
	KeyDataForSEOPass    = "DATAFORSEO_PASSWORD"
	KeyGlimpseAPI        = "GLIMPSE_API_KEY"
	KeyGitHubToken       = "GITHUB_TOKEN"
)

var recognizedKeys = []string{
	KeyAlphaVantage, KeyCoinGeckoDemo, KeyCloudflareToken, KeySemanticScholar,
	KeySerpAPI, KeyDataForSEOLogin, KeyDataForSEOPass, KeyGlimpseAPI, KeyGitHubToken,
}

// tier1Sources never need a credential.
var tier1Sources = []string{"wikipedia", "gdelt", "npm", "pypi", "semantic_scholar"}

// tier2KeyMap names the single credential each Tier 2 source requires.
var tier2KeyMap = map[string]string{
	"alpha_vantage":          KeyAlphaVantage,
	"coingecko":              KeyCoinGeckoDemo,
	"cloudflare_radar":       KeyCloudflareToken,
	"semantic_scholar_keyed": KeySemanticScholar,
}

// tier3KeyMap names the credential(s) each Tier 3 source requires.
// "dataforseo" is special-cased: it needs both login and password.
var tier3KeyMap = map[string]string{
	"serpapi":    KeySerpAPI,
	"dataforseo": KeyDataForSEOLogin,
	"glimpse":    KeyGlimpseAPI,
}

// ConfigDirEnvVar is checked before falling back to the default
// per-user config directory. Set to the empty string to disable file
// loading entirely ("clean mode").
const ConfigDirEnvVar = "TEMPERATURE_CONFIG_DIR"

// configFilePath resolves the credential file location per
// ConfigDirEnvVar semantics. A nil return means "no file" (clean mode).
func configFilePath() *string {
	override, isSet := os.LookupEnv(ConfigDirEnvVar)
	if isSet && override == "" {
		return nil
	}
	if isSet {
		p := filepath.Join(override, ".env")
		return &p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	p := filepath.Join(home, ".config", "temperature", ".env")
	return &p
}

// loadFile parses a key=value credential file. Comment lines (#-prefixed)
// and blank lines are ignored; surrounding whitespace is stripped; values
// may be single- or double-quoted (quotes stripped iff the value starts
// and ends with the same quote character); values may themselves contain
// "=" (the line is split on the first "=" only).
func loadFile(path string) map[string]string {
	out := map[string]string{}
	f, err := os.Open(path)
	if err != nil {
		return out
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if len(value) >= 2 {
			first, last := value[0], value[len(value)-1]
			if (first == '"' || first == '\'') && first == last {
				value = value[1 : len(value)-1]
			}
		}
		if key != "" && value != "" {
			out[key] = value
		}
	}
	return out
}

// Config is the flat credential map returned by Load. Keys missing from
// both the environment and the config file are simply absent.
type Config map[string]string

// Get returns the credential value, or "" if absent.
func (c Config) Get(key string) string { return c[key] }

// Load reads credentials from the config file (if any) and the process
// environment. Environment variables take precedence over file values.
func Load() Config {
	var fileValues map[string]string
	if path := configFilePath(); path != nil {
		fileValues = loadFile(*path)
	}

	cfg := make(Config, len(recognizedKeys))
	for _, key := range recognizedKeys {
		if v := os.Getenv(key); v != "" {
			cfg[key] = v
			continue
		}
		if v, ok := fileValues[key]; ok && v != "" {
			cfg[key] = v
		}
	}
	return cfg
}

// AvailableTiers reports, for a given credential Config, which Tier 2
// and Tier 3 source names have the credentials they require. Tier 1 is
// always fully available.
type AvailableTiers struct {
	Tier1 []string
	Tier2 []string
	Tier3 []string
}

// Has reports whether name is present in tier's list.
func (a AvailableTiers) Has(tier int, name string) bool {
	var list []string
	switch tier {
	case 1:
		list = a.Tier1
	case 2:
		list = a.Tier2
	case 3:
		list = a.Tier3
	}
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// Resolve computes AvailableTiers from a credential Config.
func Resolve(cfg Config) AvailableTiers {
	tier1 := append([]string(nil), tier1Sources...)

	var tier2 []string
	for name, key := range tier2KeyMap {
		if cfg.Get(key) != "" {
			tier2 = append(tier2, name)
		}
	}

	var tier3 []string
	for name, key := range tier3KeyMap {
		if name == "dataforseo" {
			if cfg.Get(KeyDataForSEOLogin) != "" && cfg.Get(KeyDataForSEOPass) != "" {
				tier3 = append(tier3, name)
			}
			continue
		}
		if cfg.Get(key) != "" {
			tier3 = append(tier3, name)
		}
	}

	return AvailableTiers{Tier1: tier1, Tier2: tier2, Tier3: tier3}
}
