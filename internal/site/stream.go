package site

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vempatir/portfolio/internal/rotator"
)

type labelEvent struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// offer keeps only the newest event when the client falls behind.
func offer(ch chan labelEvent, ev labelEvent) {
	select {
	case ch <- ev:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}

// streamLabel mounts a rotator for the lifetime of one SSE connection. The
// timer is cancelled as soon as the client goes away.
func (s *Server) streamLabel(c *gin.Context) {
	streamID := uuid.NewString()
	log := s.logger.With("stream", streamID)

	rot, err := rotator.New(s.content.Labels, rotator.WithTicker(s.newTicker))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no labels configured"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	updates := make(chan labelEvent, 1)
	if err := rot.Start(s.interval, func(i int, label string) {
		offer(updates, labelEvent{Index: i, Label: label})
	}); err != nil {
		log.Error("failed to start label rotation", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	defer rot.Stop()
	log.Debug("label stream opened", "interval", s.interval)

	c.SSEvent("label", labelEvent{Index: rot.Index(), Label: rot.Current()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			log.Debug("label stream closed")
			return
		case ev := <-updates:
			c.SSEvent("label", ev)
			c.Writer.Flush()
		}
	}
}
