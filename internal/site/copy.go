package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vempatir/portfolio/internal/analytics"
	"github.com/vempatir/portfolio/internal/contact"
)

const (
	// clipboardEvent is the HX-Trigger event app.js turns into navigator.clipboard.writeText.
	clipboardEvent = "clipboard-write"
	// copyResultURL is where app.js reports the outcome once writeText settles.
	copyResultURL = "/contact/copy/result"
)

// responseClipboard hands the text to the browser in the HX-Trigger header of
// the current response. The browser does the actual write.
type responseClipboard struct {
	c *gin.Context
}

func (r responseClipboard) WriteText(_ context.Context, text string) error {
	if r.c.Writer.Written() {
		return errors.New("response already written")
	}
	payload, err := json.Marshal(map[string]any{
		clipboardEvent: map[string]string{"text": text, "result": copyResultURL},
	})
	if err != nil {
		return err
	}
	r.c.Header("HX-Trigger", string(payload))
	return nil
}

// deferredNotifier only keeps failures. A successful hand-off is not yet a
// successful copy, so that notice waits for the browser's report.
type deferredNotifier struct {
	failure *contact.Notice
}

func (d *deferredNotifier) Notify(n contact.Notice) {
	if !n.OK() {
		d.failure = &n
	}
}

// copyEmail answers 204 with only the trigger, so no toast is shown until
// the browser has tried the write.
func (s *Server) copyEmail(c *gin.Context) {
	notices := &deferredNotifier{}
	s.copy.Copy(c.Request.Context(), responseClipboard{c: c}, notices)

	if notices.failure != nil {
		c.HTML(http.StatusOK, "toast", *notices.failure)
		return
	}
	c.Status(http.StatusNoContent)
}

// copyResult renders the single toast for a finished browser-side write.
func (s *Server) copyResult(c *gin.Context) {
	status, ok := contact.ParseStatus(c.PostForm("status"))
	if !ok {
		c.String(http.StatusBadRequest, "unknown status")
		return
	}

	ctx := c.Request.Context()
	notice := s.copy.Settle(status == contact.StatusSuccess)
	if notice.OK() {
		if err := s.recorder.RecordEvent(ctx, analytics.EventCopyEmail, s.content.Email); err != nil {
			s.logger.Error("error recording copy event", "error", err)
		}
	}
	c.HTML(http.StatusOK, "toast", notice)
}
