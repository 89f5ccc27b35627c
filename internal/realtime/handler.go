package realtime

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
)

const heartbeatInterval = 25 * time.Second

// Handler serves the per-user event feed over Server-Sent Events.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Stream holds the connection open and writes the session user's
// events as they arrive. A periodic heartbeat comment keeps proxies
// from closing the idle connection.
func (h *Handler) Stream(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	feed, cancel := h.hub.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-feed:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return true
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			return true
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
