// Package config provides configuration management for changelogd using
// koanf. Values are loaded with priority: environment variables
// (CHANGELOGD_*) > config file (.changelogd.yml) > defaults. Legacy JSON
// config files are still accepted when the configured path ends in .json.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPath is the project config file looked up when no --config
// flag is given.
const DefaultConfigPath = ".changelogd.yml"

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "CHANGELOGD_"

// Configuration holds all changelogd settings.
type Configuration struct {
	// RepoPath is the repository whose history is read. Empty means the
	// current working directory; the repository root is detected by
	// walking up the tree.
	RepoPath string `koanf:"repo_path"`

	// ChangelogPath is where the generate command writes the markdown
	// rendering.
	ChangelogPath string `koanf:"changelog_path"`

	// VersionPath is where version info is persisted and looked up.
	VersionPath string `koanf:"version_path"`

	// ListenAddr is the serve command's bind address.
	ListenAddr string `koanf:"listen_addr"`

	// CacheTTL is the snapshot lifetime in seconds. Zero disables
	// time-based expiry.
	CacheTTL int `koanf:"cache_ttl"`

	// LogTimeout bounds a single history read, in seconds.
	LogTimeout int `koanf:"log_timeout"`

	// SectionsFromTags cuts the changelog into one section per release
	// tag. Off by default: everything lands in a single Unreleased
	// section.
	SectionsFromTags bool `koanf:"sections_from_tags"`

	// Watch invalidates the cache when repository refs change.
	Watch bool `koanf:"watch"`

	// Debug enables debug logging.
	Debug bool `koanf:"debug"`
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c *Configuration) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// LogTimeoutDuration returns the history read bound as a duration.
func (c *Configuration) LogTimeoutDuration() time.Duration {
	return time.Duration(c.LogTimeout) * time.Second
}

// Load loads configuration from the given config file path and the
// environment. An empty path falls back to DefaultConfigPath; a missing file
// is only an error when the path was given explicitly.
func Load(configPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadFileConfig(k, configPath); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range Defaults() {
		k.Set(key, value)
	}
}

func loadFileConfig(k *koanf.Koanf, configPath string) error {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	if _, err := os.Stat(configPath); err != nil {
		if explicit {
			return fmt.Errorf("config file %s: %w", configPath, err)
		}
		return nil
	}

	if strings.HasSuffix(configPath, ".json") {
		if err := k.Load(file.Provider(configPath), json.Parser()); err != nil {
			return fmt.Errorf("loading JSON config %s: %w", configPath, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(configPath); err != nil {
		return fmt.Errorf("validating config syntax: %w", err)
	}
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOGD_CACHE_TTL -> cache_ttl
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
