// Package config provides hierarchical configuration management for
// gitweekly using koanf. Configuration is loaded with priority:
// environment variables > project config (.gitweekly/config.yml) >
// user config (~/.config/gitweekly/config.yml) > defaults. Legacy JSON
// project configs are still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces gitweekly's own overrides. The API key is read
// from OPENROUTER_API_KEY directly and never from config files.
const envPrefix = "GITWEEKLY_"

// Configuration holds all settings for a changelog run.
type Configuration struct {
	// Model is the OpenRouter model identifier.
	Model string `koanf:"model" validate:"required"`
	// Language selects the output language for summaries and labels.
	Language string `koanf:"language"`

	// DaysBack bounds the commit window.
	DaysBack int `koanf:"days_back" validate:"min=1"`

	// CommitsPerChunk caps chunk size; sets above it trigger chunking.
	CommitsPerChunk int `koanf:"commits_per_chunk" validate:"min=1"`
	// MaxConcurrentChunks bounds parallel chunk requests per summary kind.
	MaxConcurrentChunks int `koanf:"max_concurrent_chunks" validate:"min=1"`
	// MergeBatchSize is the starting batch size for hierarchical merging.
	MergeBatchSize int `koanf:"merge_batch_size" validate:"min=2"`

	MaxRetries int `koanf:"max_retries" validate:"min=0"`
	// RequestTimeoutSecs is the per-request HTTP timeout in seconds.
	RequestTimeoutSecs int `koanf:"request_timeout" validate:"min=1"`

	CacheDir string `koanf:"cache_dir"`
	// CacheMaxAgeHours is the stale-entry threshold for the startup sweep.
	CacheMaxAgeHours int `koanf:"cache_max_age_hours" validate:"min=1"`

	ChangelogPath string `koanf:"changelog_path"`
	// RepoURL overrides the commit-link base URL; empty means derive it
	// from the origin remote.
	RepoURL string `koanf:"repo_url"`

	// APIKey comes from OPENROUTER_API_KEY only.
	APIKey string `koanf:"-"`
}

// RequestTimeout returns the HTTP timeout as a duration.
func (c *Configuration) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// CacheMaxAge returns the sweep threshold as a duration.
func (c *Configuration) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeHours) * time.Hour
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path
	// (default: .gitweekly/config.yml).
	ProjectConfigPath string
	// WarningWriter receives migration warnings (default: os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses migration warnings.
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: environment variables > project config > user config > defaults.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadUserConfig loads the XDG user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load user config %s: %w", path, err)
	}
	return nil
}

// loadProjectConfig loads project-level config, YAML preferred. A legacy
// JSON config is still honored with a migration warning.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()

	if fileExists(yamlPath) {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load project config %s: %w", yamlPath, err)
		}
		if fileExists(legacyPath) && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		}
		return nil
	}

	if fileExists(legacyPath) {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Move it to %s in YAML format.\n", yamlPath)
		}
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: GITWEEKLY_DAYS_BACK -> days_back.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
