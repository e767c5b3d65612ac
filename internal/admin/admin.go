// Package admin serves the private dashboard over the analytics store.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vempatir/portfolio/internal/analytics"
)

const (
	tokenCookie = "admin_token"

	// visitorsPageLimit caps the visitors table.
	visitorsPageLimit = 200

	defaultRetention = 365 * 24 * time.Hour
)

// Store is the part of the analytics store the admin pages use.
type Store interface {
	Stats(ctx context.Context) (*analytics.Stats, error)
	RecentVisitors(ctx context.Context, limit int) ([]analytics.Visit, error)
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
	DeleteVisitor(ctx context.Context, hashedIP string) (int64, error)
	HashIP(ip string) string
}

type Credentials struct {
	Username string
	Password string
}

type Config struct {
	Credentials  Credentials
	SecureCookie bool
	Logger       *slog.Logger

	// Retention is applied by the manual privacy cleanup.
	Retention time.Duration
}

type Handler struct {
	stats     Store
	creds     Credentials
	token     string
	secure    bool
	retention time.Duration
	logger    *slog.Logger
}

// New creates a handler with a random per-process session token. Empty
// credentials fall back to development defaults with a warning.
func New(stats Store, cfg Config) (*Handler, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	creds, logger := cfg.Credentials, cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if creds.Username == "" {
		creds.Username = "admin"
		logger.Warn("using default admin username, set ADMIN_USERNAME")
	}
	if creds.Password == "" {
		creds.Password = "admin123"
		logger.Warn("using default admin password, set ADMIN_PASSWORD")
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultRetention
	}

	logger.Info("admin access available", "path", "/admin/login")
	if gin.Mode() == gin.DebugMode {
		logger.Debug("admin token (dev only)", "token", token)
	}

	return &Handler{
		stats:     stats,
		creds:     creds,
		token:     token,
		secure:    cfg.SecureCookie,
		retention: retention,
		logger:    logger,
	}, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// RequireToken redirects to the login page unless the session cookie matches.
func (h *Handler) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RegisterRoutes mounts the login flow and the protected admin pages.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/admin/login", h.loginPage)
	r.POST("/admin/login", h.login)
	r.GET("/admin/logout", h.logout)

	group := r.Group("/admin")
	group.Use(h.RequireToken())
	group.GET("/dashboard", h.dashboard)
	group.GET("/api/stats", h.apiStats)
	group.GET("/visitors", h.visitors)

	// Admin statistics export (for backups or analysis)
	group.GET("/export/stats", h.exportStats)

	// Delete one visitor's records, or everything past retention
	group.POST("/privacy/delete-visitor-data", h.deleteVisitorData)
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-login.html", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.creds.Password)) == 1
	if !userOK || !passOK {
		h.logger.Warn("failed admin login attempt", "visitor", h.stats.HashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
		return
	}

	// 24 hours
	c.SetCookie(tokenCookie, h.token, 3600*24, "/admin", "", h.secure, true)
	h.logger.Info("admin login successful", "visitor", h.stats.HashIP(c.ClientIP()))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/admin", "", h.secure, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("error loading admin stats", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load statistics")
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
}

func (h *Handler) apiStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("error loading admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) visitors(c *gin.Context) {
	visits, err := h.stats.RecentVisitors(c.Request.Context(), visitorsPageLimit)
	if err != nil {
		h.logger.Error("error loading visitors", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load visitors")
		return
	}
	c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visits})
}

func (h *Handler) exportStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("error loading admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	h.logger.Info("admin stats exported", "visitor", h.stats.HashIP(c.ClientIP()))
	c.JSON(http.StatusOK, stats)
}

// deleteVisitorData removes the visits of the IP given in the "ip" form
// field. Without one it runs the retention cleanup immediately.
func (h *Handler) deleteVisitorData(c *gin.Context) {
	ctx := c.Request.Context()

	if ip := strings.TrimSpace(c.PostForm("ip")); ip != "" {
		n, err := h.stats.DeleteVisitor(ctx, h.stats.HashIP(ip))
		if err != nil {
			h.logger.Error("error deleting visitor data", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete visitor data"})
			return
		}
		h.logger.Info("visitor data deleted on request", "count", n)
		c.JSON(http.StatusOK, gin.H{"message": "Visitor data deleted", "removed": n})
		return
	}

	n, err := h.stats.Cleanup(ctx, h.retention)
	if err != nil {
		h.logger.Error("privacy cleanup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "privacy cleanup failed"})
		return
	}
	h.logger.Info("privacy cleanup run by admin", "count", n, "retention", h.retention)
	c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
}
