package config

// Defaults returns the default configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"repo_path":          "",
		"changelog_path":     "CHANGELOG.md",
		"version_path":       "version.json",
		"listen_addr":        ":8080",
		"cache_ttl":          300,
		"log_timeout":        30,
		"sections_from_tags": false,
		"watch":              false,
		"debug":              false,
	}
}
