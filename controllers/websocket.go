package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/n0S3curity/AquaGrow/models"
)

// Hub pushes sensor updates and alert events to connected dashboard
// clients over websockets.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Handle upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.Info("dashboard client connected", "remote", conn.RemoteAddr().String())

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		h.log.Info("dashboard client disconnected", "remote", conn.RemoteAddr().String())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// BroadcastUpdate sends a sensor snapshot to every connected client.
func (h *Hub) BroadcastUpdate(snap models.SensorSnapshot) {
	h.broadcast(wsMessage{Type: "update", Data: snap})
}

// BroadcastAlert sends a dispatched dry-plant alert to every connected
// client.
func (h *Hub) BroadcastAlert(event models.AlertEvent) {
	h.broadcast(wsMessage{Type: "alert", Data: event})
}

func (h *Hub) broadcast(msg wsMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshalling websocket message failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
