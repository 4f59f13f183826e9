package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"otc_go/internal/domain"
	"otc_go/internal/infra"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans executed trades out to connected WebSocket clients. Trades are
// broadcast after the engine commits state, so a rejected order never
// produces a feed message.
type Hub struct {
	clients    map[*feedClient]bool
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	metrics    *infra.Metrics
	logger     *slog.Logger
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an idle hub; call Run to start it.
func NewHub(metrics *infra.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		metrics:    metrics,
		logger:     slog.Default().With("module", "trade_feed"),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.metrics.IncrementFeedClients()
			h.logger.Info("feed client connected", slog.Int("total", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.DecrementFeedClients()
				h.logger.Info("feed client disconnected", slog.Int("total", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it.
					close(client.send)
					delete(h.clients, client)
					h.metrics.DecrementFeedClients()
				}
			}
		}
	}
}

// BroadcastTrade queues a trade for all connected clients.
func (h *Hub) BroadcastTrade(trade domain.Trade) {
	message, err := json.Marshal(trade)
	if err != nil {
		h.logger.Error("trade marshal failed", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("feed broadcast buffer full, dropping trade",
			slog.String("trade_id", trade.TradeID))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, 64)}
	s.hub.register <- client

	go client.writePump()
	go client.readPump(s.hub)
}

// writePump drains the send channel onto the connection.
func (c *feedClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the feed is one-way. It exists to
// detect disconnects.
func (c *feedClient) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
