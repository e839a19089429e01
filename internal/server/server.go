// Package server exposes the changelog read endpoints over HTTP. Handlers
// only read from the cache service; they never trigger writes or mutate
// state, so every endpoint is idempotent and cacheable.
package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/raveheart1/changelogd/internal/cache"
	"github.com/raveheart1/changelogd/internal/version"
)

// ChangelogProvider supplies the current changelog snapshot.
type ChangelogProvider interface {
	Get(ctx context.Context) (*cache.Snapshot, error)
}

// VersionProvider supplies the API version info.
type VersionProvider interface {
	Info() version.Info
}

// Server is the changelogd HTTP server.
type Server struct {
	changelogs ChangelogProvider
	versions   VersionProvider
	router     *gin.Engine
}

// New creates a server and registers its routes.
func New(changelogs ChangelogProvider, versions VersionProvider) *Server {
	router := gin.Default()

	s := &Server{
		changelogs: changelogs,
		versions:   versions,
		router:     router,
	}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.GET("/changelog", s.handleChangelog)
		api.GET("/changelog/html", s.handleChangelogHTML)
		api.GET("/version", s.handleVersion)
	}

	return s
}

// Router returns the underlying gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
