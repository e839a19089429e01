// Package version derives the API version from repository tags and manages
// the version.json artifact served by the version endpoint.
package version

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raveheart1/changelogd/internal/gitlog"
)

// DefaultVersion is reported when the repository carries no version tags.
const DefaultVersion = "0.1.0"

// Info describes the running API build.
type Info struct {
	Version      string `json:"version"`
	Commit       string `json:"commit"`
	Date         string `json:"date"`
	Dirty        bool   `json:"dirty"`
	Branch       string `json:"branch"`
	GitAvailable bool   `json:"git_available"`
}

// Derive computes version info from the repository: the newest semver tag
// (v prefix stripped) as the version, plus the current commit, branch, and
// worktree dirtiness. A missing repository yields a defaults-only Info with
// GitAvailable false.
func Derive(r *gitlog.Reader) Info {
	info := Info{
		Version: DefaultVersion,
		Commit:  "unknown",
		Date:    time.Now().Format("2006-01-02 15:04:05 -0700"),
		Branch:  "main",
	}

	if !r.Available() {
		return info
	}
	info.GitAvailable = true

	if tags, err := r.Tags(); err == nil && len(tags) > 0 {
		info.Version = gitlog.NormalizeVersion(tags[0].Name)
	}

	head, err := r.Head()
	if err != nil {
		return info
	}
	info.Commit = head.Commit
	info.Dirty = head.Dirty
	if head.Branch != "" {
		info.Branch = head.Branch
	}
	if !head.Time.IsZero() {
		info.Date = head.Time.Format("2006-01-02 15:04:05 -0700")
	}

	return info
}

// Save writes the info as JSON, creating parent directories as needed.
func Save(path string, info Info) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating version file directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding version info: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

// Load reads a previously saved version file.
func Load(path string) (Info, error) {
	var info Info

	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("reading version file: %w", err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parsing version file: %w", err)
	}
	return info, nil
}

// Resolver serves version info, preferring the persisted version.json and
// falling back to live derivation from the repository.
type Resolver struct {
	reader *gitlog.Reader
	path   string
}

// NewResolver creates a resolver over the given reader and version file path.
// An empty path disables the file lookup.
func NewResolver(reader *gitlog.Reader, path string) *Resolver {
	return &Resolver{reader: reader, path: path}
}

// Info returns the best available version info.
func (r *Resolver) Info() Info {
	if r.path != "" {
		if info, err := Load(r.path); err == nil {
			return info
		}
	}
	return Derive(r.reader)
}
