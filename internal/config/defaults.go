package config

import (
	"os"
	"path/filepath"
)

// GetDefaults returns the default configuration values keyed by config name.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"model":                 "openai/gpt-5-mini",
		"language":              "English",
		"days_back":             7,
		"commits_per_chunk":     5,
		"max_concurrent_chunks": 3,
		"merge_batch_size":      5,
		"max_retries":           3,
		"request_timeout":       30,
		"cache_dir":             defaultCacheDir(),
		"cache_max_age_hours":   48,
		"changelog_path":        "CHANGELOG.md",
		"repo_url":              "",
	}
}

// defaultCacheDir prefers the XDG cache directory, falling back to the
// system temp dir when no cache home is resolvable.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "gitweekly", "chunks")
}

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# gitweekly Configuration
# Values here override user config; GITWEEKLY_* env vars override both.
# The API key is only ever read from the OPENROUTER_API_KEY env var.

model: openai/gpt-5-mini       # OpenRouter model identifier
language: English              # English | Dutch | German | French | Spanish

days_back: 7                   # Commit window in days

commits_per_chunk: 5           # Chunk size; larger sets are split
max_concurrent_chunks: 3       # Parallel chunk requests per summary kind
merge_batch_size: 5            # Starting batch size for hierarchical merge

max_retries: 3                 # Retry attempts per API call
request_timeout: 30            # Per-request HTTP timeout in seconds

cache_dir: ""                  # Chunk cache dir (empty = XDG cache)
cache_max_age_hours: 48        # Entries older than this are swept at startup

changelog_path: CHANGELOG.md   # Output file
repo_url: ""                   # Commit link base (empty = origin remote)
`
}
