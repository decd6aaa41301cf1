package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev tool.
	},
}

// Hub manages browser WebSocket clients and pushes rendered pages to them.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]string
	snapshot func() dashboard.Page
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewHub creates a hub. snapshot supplies the page sent on connect.
func NewHub(snapshot func() dashboard.Page, m *metrics.Metrics, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:  make(map[*websocket.Conn]string),
		snapshot: snapshot,
		metrics:  m,
		log:      log,
	}
}

// HandleWebSocket upgrades the HTTP connection, sends the current page and
// registers the client for broadcasts.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	id := uuid.NewString()
	log := h.log.With(zap.String("client", id))

	h.mu.Lock()
	if h.snapshot != nil {
		if err := conn.WriteJSON(h.snapshot()); err != nil {
			h.mu.Unlock()
			log.Debug("initial page write failed", zap.Error(err))
			conn.Close()
			return
		}
	}
	h.clients[conn] = id
	h.mu.Unlock()
	h.metrics.BrowserConnected(1)
	log.Debug("browser connected")

	// Read loop keeps the connection alive and notices disconnects.
	go func() {
		defer func() {
			h.mu.Lock()
			_, ok := h.clients[conn]
			delete(h.clients, conn)
			h.mu.Unlock()
			if ok {
				h.metrics.BrowserConnected(-1)
			}
			conn.Close()
			log.Debug("browser disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Broadcast sends a page to all connected clients.
func (h *Hub) Broadcast(p dashboard.Page) {
	data, err := json.Marshal(p)
	if err != nil {
		h.log.Error("websocket marshal error", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, id := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write error", zap.String("client", id), zap.Error(err))
			conn.Close()
			// The read goroutine removes the client.
		}
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
