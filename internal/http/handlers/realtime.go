package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const sseKeepAlive = 25 * time.Second

// GET /api/realtime/:table streams row changes as server-sent events.
func StreamChanges(c *gin.Context) {
	hub := current().Hub
	if hub == nil {
		RespondError(c, http.StatusServiceUnavailable, "realtime is not enabled", nil)
		return
	}
	ch, cancel := hub.Subscribe(c.Param("table"))
	defer cancel()

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
