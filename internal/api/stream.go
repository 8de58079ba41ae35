package api

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

var streamHeartbeat = 15 * time.Second

// streamAlerts pushes alert batches as server-sent events. ?hazards=a,b
// limits the stream to those hazard types.
func (h *Handler) streamAlerts(c *gin.Context) {
	hazards := parseHazards(c.Query("hazards"))

	id, ch := h.broadcaster.Subscribe(hazards...)
	defer h.broadcaster.Unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.SSEvent("ready", gin.H{"subscriber": id})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case batch, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("alerts", batch)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		}
	})
}

func parseHazards(raw string) []models.HazardType {
	var out []models.HazardType
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, models.HazardType(part))
		}
	}
	return out
}
