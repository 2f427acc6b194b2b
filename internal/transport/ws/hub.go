// Package ws broadcasts toast-style notifications to connected UI clients
// over websockets. The hub runs on its own listener next to the REST API.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"backtest_server/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Hub struct {
	logger    zerolog.Logger
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	lock      sync.Mutex
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:    logger.With().Str("component", "ws").Logger(),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 16),
	}
}

// Run pumps broadcast messages to every connected client, dropping clients
// whose writes fail. Call it once in its own goroutine.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.lock.Lock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.lock.Unlock()
	}
}

// Notify implements domain.Notifier. Messages are dropped rather than
// blocking the simulation run when the broadcast buffer is full.
func (h *Hub) Notify(_ context.Context, n domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal notification")
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn().Str("instrument", n.Instrument).Msg("notification dropped, broadcast buffer full")
	}
}

func (h *Hub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade")
		return
	}

	h.lock.Lock()
	h.clients[conn] = true
	h.lock.Unlock()
	h.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
}

// Serve listens on addr and accepts websocket clients at /ws. It blocks
// until the listener fails.
func (h *Hub) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handle)

	h.logger.Info().Str("addr", addr).Msg("notification hub listening")
	return http.ListenAndServe(addr, mux)
}
