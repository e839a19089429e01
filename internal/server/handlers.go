package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raveheart1/changelogd/internal/changelog"
)

// ChangelogResponse is the body of GET /api/v1/changelog.
type ChangelogResponse struct {
	Entries       []changelog.StructuredVersion `json:"entries"`
	LatestVersion string                        `json:"latest_version"`
	APIVersion    string                        `json:"api_version"`
}

// handleChangelog serves the structured changelog projection. Source-level
// failures are already absorbed during generation, so a degraded repository
// still answers 200 with an empty entry list; an error here means a defect in
// the build function itself.
func (s *Server) handleChangelog(c *gin.Context) {
	snap, err := s.changelogs.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generating changelog failed"})
		return
	}

	apiVersion := s.versions.Info().Version
	latest := snap.Log.LatestVersion()
	if latest == "" {
		latest = apiVersion
	}

	c.JSON(http.StatusOK, ChangelogResponse{
		Entries:       changelog.ToStructured(snap.Log),
		LatestVersion: latest,
		APIVersion:    apiVersion,
	})
}

// handleChangelogHTML serves the HTML projection of the same changelog value.
func (s *Server) handleChangelogHTML(c *gin.Context) {
	snap, err := s.changelogs.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generating changelog failed"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(changelog.RenderHTML(snap.Log)))
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, s.versions.Info())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
