package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cerrors "github.com/raveheart1/changelogd/internal/errors"
)

// Validate checks configuration values for consistency.
func Validate(cfg *Configuration) error {
	if cfg.ListenAddr == "" {
		return cerrors.NewConfigError(
			"listen_addr cannot be empty",
			"Set listen_addr in the config file or CHANGELOGD_LISTEN_ADDR in the environment",
		)
	}
	if cfg.CacheTTL < 0 {
		return cerrors.NewConfigError(
			fmt.Sprintf("cache_ttl must be >= 0, got %d", cfg.CacheTTL),
			"Use 0 to disable time-based expiry",
		)
	}
	if cfg.LogTimeout <= 0 {
		return cerrors.NewConfigError(
			fmt.Sprintf("log_timeout must be > 0, got %d", cfg.LogTimeout),
		)
	}
	if cfg.ChangelogPath == "" {
		return cerrors.NewConfigError("changelog_path cannot be empty")
	}
	return nil
}

// ValidateYAMLSyntax parses the file with the YAML decoder before handing it
// to koanf, so syntax errors carry the file position instead of a generic
// provider failure.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return nil
}
