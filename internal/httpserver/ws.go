package httpserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"grocermart/internal/domain"
	"github.com/gorilla/websocket"
)

// Hub fans new orders out to connected admin dashboards. It is the only
// cross-request shared state in the process; the client set is mutex-guarded.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Serve upgrades the connection and keeps it registered until the client
// drops. Inbound messages are discarded; the feed is one-way.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// OrderCreated broadcasts the order to every connected client. Write failures
// drop the client.
func (h *Hub) OrderCreated(o domain.Order) {
	data, err := json.Marshal(toOrderView(o))
	if err != nil {
		h.logger.Printf("order feed: marshal order %s: %v", o.OrderID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount reports the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
