package site

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vempatir/portfolio/internal/analytics"
	"github.com/vempatir/portfolio/internal/projects"
)

var linkEvents = map[projects.LinkKind]analytics.EventKind{
	projects.LinkLive:   analytics.EventOpenLive,
	projects.LinkSource: analytics.EventOpenSource,
}

// outbound records the click and redirects to the project's link. Only links
// a card would actually draw are reachable.
func (s *Server) outbound(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	kind, ok := projects.ParseLinkKind(c.Param("kind"))
	if !ok {
		c.String(http.StatusNotFound, "not found")
		return
	}
	target, ok := s.catalog.LinkTarget(id, kind)
	if !ok {
		c.String(http.StatusNotFound, "not found")
		return
	}

	if err := s.recorder.RecordEvent(c.Request.Context(), linkEvents[kind], target); err != nil {
		s.logger.Error("error recording outbound click", "project", id, "kind", kind, "error", err)
	}
	c.Redirect(http.StatusFound, target)
}
