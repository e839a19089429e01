package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from a directory with no config file.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.RepoPath)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
	assert.Equal(t, "version.json", cfg.VersionPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 300, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTLDuration())
	assert.Equal(t, 30*time.Second, cfg.LogTimeoutDuration())
	assert.False(t, cfg.SectionsFromTags)
	assert.False(t, cfg.Watch)
	assert.False(t, cfg.Debug)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `listen_addr: ":9090"
cache_ttl: 60
sections_from_tags: true
repo_path: /srv/repo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 60, cfg.CacheTTL)
	assert.True(t, cfg.SectionsFromTags)
	assert.Equal(t, "/srv/repo", cfg.RepoPath)
	// Unset keys keep their defaults.
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
}

func TestLoadLegacyJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"listen_addr": ":7070", "watch": true}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.True(t, cfg.Watch)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("cache_ttl: 60\n"), 0o644))

	t.Setenv("CHANGELOGD_CACHE_TTL", "120")
	t.Setenv("CHANGELOGD_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.CacheTTL)
	assert.True(t, cfg.Debug)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadMissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("")
	assert.NoError(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"defaults are valid", func(c *Configuration) {}, false},
		{"empty listen addr", func(c *Configuration) { c.ListenAddr = "" }, true},
		{"negative cache ttl", func(c *Configuration) { c.CacheTTL = -1 }, true},
		{"zero cache ttl disables expiry", func(c *Configuration) { c.CacheTTL = 0 }, false},
		{"zero log timeout", func(c *Configuration) { c.LogTimeout = 0 }, true},
		{"empty changelog path", func(c *Configuration) { c.ChangelogPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Configuration{
				ChangelogPath: "CHANGELOG.md",
				VersionPath:   "version.json",
				ListenAddr:    ":8080",
				CacheTTL:      300,
				LogTimeout:    30,
			}
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
