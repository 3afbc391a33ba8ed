package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local dev server only; origin checking is deliberately off.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadHub tracks connected live-reload clients and pushes reload
// notifications to all of them after a successful rebuild.
type reloadHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *reloadHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	slog.Debug("live-reload client connected")
}

func (h *reloadHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		slog.Debug("live-reload client disconnected")
	}
}

func (h *reloadHub) broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Warn("dropping live-reload client", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// serveWS upgrades the connection and parks it in the hub until the
// browser goes away. Clients never send meaningful messages; the read
// loop only detects disconnects.
func serveWS(hub *reloadHub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	hub.add(conn)
	defer hub.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
