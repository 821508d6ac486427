// Package realtime pushes notifications to websocket clients grouped in rooms.
// A room is a notification topic such as "user:<id>" or "vendor:<id>".
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var ErrHubStopped = errors.New("realtime hub is stopped")

// Client is one websocket connection subscribed to a fixed set of rooms.
type Client struct {
	conn  *websocket.Conn
	send  chan []byte
	rooms []string
}

type broadcastMsg struct {
	room string
	data []byte
}

// Hub owns the rooms. Run must be started before clients are served.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger.With("component", "realtime-hub"),
	}
}

// Run dispatches registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			for _, room := range c.rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[*Client]struct{})
				}
				h.rooms[room][c] = struct{}{}
			}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.room] {
				select {
				case c.send <- m.data:
				default:
					h.logger.Warn("dropping slow websocket client", "room", m.room)
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish implements ports.EventPublisher for clients connected to this instance.
func (h *Hub) Publish(ctx context.Context, n ports.Notification) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- broadcastMsg{room: n.Topic, data: data}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribers counts the clients in a room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Serve registers an upgraded connection and starts its pumps. It returns
// immediately; the connection is closed when the client goes away or the hub stops.
func (h *Hub) Serve(conn *websocket.Conn, rooms []string) error {
	c := &Client{conn: conn, send: make(chan []byte, sendBuffer), rooms: rooms}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubStopped
	}

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// remove must be called with mu held. It is safe to call twice.
func (h *Hub) remove(c *Client) {
	registered := false
	for _, room := range c.rooms {
		clients := h.rooms[room]
		if _, ok := clients[c]; !ok {
			continue
		}
		registered = true
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	if registered {
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[*Client]struct{})
	for _, clients := range h.rooms {
		for c := range clients {
			seen[c] = struct{}{}
		}
	}
	for c := range seen {
		h.remove(c)
	}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the close; clients do not send commands.
func (h *Hub) readPump(c *Client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
