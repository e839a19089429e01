package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/raveheart1/changelogd/internal/cache"
	"github.com/raveheart1/changelogd/internal/changelog"
	"github.com/raveheart1/changelogd/internal/config"
	"github.com/raveheart1/changelogd/internal/gitlog"
	"github.com/raveheart1/changelogd/internal/server"
	"github.com/raveheart1/changelogd/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the changelog HTTP server",
	Long: `Run the HTTP server exposing the changelog read endpoints.

Endpoints:
  GET /api/v1/changelog        Structured changelog (JSON)
  GET /api/v1/changelog/html   HTML rendering
  GET /api/v1/version          Version info derived from tags
  GET /health                  Liveness check

The changelog is regenerated on cache expiry; concurrent requests share a
single rebuild. An unreadable repository serves an empty changelog instead of
failing.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	reader := gitlog.NewReader(cfg.RepoPath)
	c := cache.New(cfg.CacheTTLDuration(), newBuildFunc(cfg, reader))

	if cfg.Watch {
		startWatcher(reader, c)
	}

	// Warm the cache so the first request is served from memory.
	if _, err := c.Get(context.Background()); err != nil {
		return fmt.Errorf("initial changelog build: %w", err)
	}

	resolver := version.NewResolver(reader, cfg.VersionPath)
	srv := server.New(c, resolver)

	fmt.Fprintf(cmd.OutOrStdout(), "changelogd listening on %s\n", cfg.ListenAddr)
	return srv.Run(cfg.ListenAddr)
}

// newBuildFunc wires the repository reader into the cache. The log read is
// bounded by the configured timeout; source failures degrade to an empty
// changelog inside Generate, so the build function itself only fails on
// defects.
func newBuildFunc(cfg *config.Configuration, reader *gitlog.Reader) cache.BuildFunc {
	return func(ctx context.Context) (*changelog.Changelog, error) {
		ctx, cancel := context.WithTimeout(ctx, cfg.LogTimeoutDuration())
		defer cancel()
		return reader.Generate(ctx, cfg.SectionsFromTags, time.Now()), nil
	}
}

// startWatcher invalidates the cache on ref changes. Watch failures are not
// fatal; the TTL still bounds staleness.
func startWatcher(reader *gitlog.Reader, c *cache.Cache) {
	gitDir, err := reader.GitDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: repository watch disabled: %v\n", err)
		return
	}

	w, err := cache.NewWatcher(gitDir, c.Invalidate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: repository watch disabled: %v\n", err)
		return
	}

	go func() {
		if err := w.Run(context.Background()); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "Warning: repository watcher stopped: %v\n", err)
		}
	}()
}
