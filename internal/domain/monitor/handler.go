package monitor

import (
	"log"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleWebSocket upgrades the request and serves the dashboard stream.
//
// Endpoint: GET /ws/monitor
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("monitor: websocket upgrade failed: %v", err)
		return
	}
	h.hub.ServeWS(conn)
}
