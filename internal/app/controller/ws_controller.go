package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/vestiapp/vesti-backend/internal/middleware"
	"github.com/vestiapp/vesti-backend/internal/websocket"
)

type WebSocketController struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Listeners only ever receive store events; any origin may
			// subscribe.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// StoreEvents upgrades the connection and streams store-created events
// GET /ws/stores
func (ctrl *WebSocketController) StoreEvents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, nil)
		return
	}

	client := websocket.NewClient(ctrl.hub, conn)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
