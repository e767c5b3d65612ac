// Package site serves the portfolio page. Server is the root controller: it
// owns the content and builds a fresh, immutable Page for every request.
package site

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vempatir/portfolio/internal/analytics"
	"github.com/vempatir/portfolio/internal/contact"
	"github.com/vempatir/portfolio/internal/projects"
	"github.com/vempatir/portfolio/internal/rotator"
	"github.com/vempatir/portfolio/internal/web"
)

type Config struct {
	Content          Content
	RotationInterval time.Duration
	Recorder         analytics.Recorder
	Logger           *slog.Logger

	// Images is served under /images. Cards whose site-relative image is
	// missing from it render without the image.
	Images fs.FS

	// Retention is how long visits are kept; zero means tracking is off.
	// It is only shown on the privacy page.
	Retention time.Duration

	// NewTicker and Now are replaced in tests.
	NewTicker rotator.TickerFunc
	Now       func() time.Time
}

type Server struct {
	content   Content
	catalog   *projects.Catalog
	copy      *contact.CopyAction
	interval  time.Duration
	recorder  analytics.Recorder
	logger    *slog.Logger
	images    fs.FS
	retention time.Duration
	newTicker rotator.TickerFunc
	now       func() time.Time
	templates *template.Template
}

// New validates the content and parses templates. Any error here means the
// site cannot be served.
func New(cfg Config) (*Server, error) {
	if len(cfg.Content.Labels) == 0 {
		return nil, fmt.Errorf("site content: %w", rotator.ErrNoLabels)
	}
	if cfg.Content.Email == "" {
		return nil, errors.New("site content: email is required")
	}
	catalog, err := projects.NewCatalog(cfg.Content.Projects)
	if err != nil {
		return nil, fmt.Errorf("site content: %w", err)
	}

	tmpl, err := web.Templates(template.FuncMap{})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		content:   cfg.Content,
		catalog:   catalog,
		interval:  cfg.RotationInterval,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger,
		images:    cfg.Images,
		retention: cfg.Retention,
		newTicker: cfg.NewTicker,
		now:       cfg.Now,
		templates: tmpl,
	}
	if s.interval <= 0 {
		s.interval = rotator.DefaultInterval
	}
	if s.recorder == nil {
		s.recorder = analytics.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newTicker == nil {
		s.newTicker = rotator.NewTimeTicker
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.copy = contact.NewCopyAction(cfg.Content.Email, s.logger)

	for _, card := range catalog.Cards() {
		if card.HasImage() && !s.imageServed(card.Image.URL) {
			s.logger.Warn("project image not found, card renders without it", "project", card.ID, "src", card.Image.URL)
		}
	}
	return s, nil
}

// Templates is shared with the admin pages so the engine has one HTML renderer.
func (s *Server) Templates() *template.Template { return s.templates }

// Engine builds a gin engine with the site routes. Extra middleware runs
// before every route.
func (s *Server) Engine(middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware...)

	r.SetHTMLTemplate(s.templates)
	r.StaticFS("/static", http.FS(web.Static()))
	if s.images != nil {
		r.StaticFS("/images", http.FS(s.images))
	}
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r gin.IRouter) {
	// Home page route
	r.GET("/", s.index)

	// Hero label: first label as a fragment, then the rotating stream
	r.GET("/hero/label", s.heroLabel)
	r.GET("/hero/label/stream", s.streamLabel)

	// Copy email (HTMX)
	r.POST("/contact/copy", s.copyEmail)

	r.POST("/contact/copy/result", s.copyResult)

	// Outbound project links
	r.GET("/out/:id/:kind", s.outbound)

	// Privacy policy route
	r.GET("/privacy", s.privacy)
}

// RenderIndex writes the standalone page used by the export command.
func (s *Server) RenderIndex(w io.Writer, theme Theme) error {
	return s.templates.ExecuteTemplate(w, "index.html", s.page(theme, modeStatic))
}

func (s *Server) index(c *gin.Context) {
	theme := ParseTheme(c.Query("theme"))
	c.HTML(http.StatusOK, "index.html", s.page(theme, modeServed))
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", PrivacyPage{
		Theme:         ParseTheme(c.Query("theme")),
		Name:          s.content.Name,
		Tracking:      s.retention > 0,
		RetentionDays: int(s.retention.Hours() / 24),
	})
}

func (s *Server) heroLabel(c *gin.Context) {
	c.HTML(http.StatusOK, "hero-label", HeroLabel{
		Index:     0,
		Label:     s.content.Labels[0],
		StreamURL: "/hero/label/stream",
	})
}
