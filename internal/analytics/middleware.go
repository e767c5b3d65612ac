package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/hero/label",
	"/out/",
	"/contact/",
}

func tracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Tracker records page views in the background. Wait blocks until every
// visit it started has been written, so the store can be closed after it.
type Tracker struct {
	rec    Recorder
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewTracker(rec Recorder, logger *slog.Logger) *Tracker {
	return &Tracker{rec: rec, logger: logger}
}

// Middleware skips requests with DNT: 1, static assets, admin pages and
// action endpoints.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !tracked(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		ctx := context.WithoutCancel(c.Request.Context())
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			if err := t.rec.RecordVisit(ctx, ip, ua, path); err != nil {
				t.logger.Error("error recording visitor", "error", err)
			}
		}()
		c.Next()
	}
}

// Wait returns once all in-flight visits are recorded.
func (t *Tracker) Wait() { t.wg.Wait() }
