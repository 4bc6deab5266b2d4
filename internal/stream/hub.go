// Package stream pushes dashboard updates to browsers over WebSocket.
package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8
)

// Message is one frame sent to clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans messages out to all connected clients. A client whose buffer is
// full is disconnected rather than holding up the others.
type Hub struct {
	originPatterns []string
	initial        func() Message
	logger         zerolog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	send chan Message
	gone chan struct{}
	once sync.Once
}

func (c *client) drop() {
	c.once.Do(func() { close(c.gone) })
}

// NewHub creates a Hub. initial, when non-nil, produces the first message
// each new client receives. originPatterns are passed to websocket.Accept.
func NewHub(initial func() Message, originPatterns []string, logger zerolog.Logger) *Hub {
	return &Hub{
		originPatterns: originPatterns,
		initial:        initial,
		logger:         logger.With().Str("component", "stream").Logger(),
		clients:        make(map[*client]struct{}),
	}
}

// Broadcast queues msg for every connected client.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn().Msg("stream client too slow, disconnecting")
			delete(h.clients, c)
			c.drop()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.drop()
	}
}

// ServeHTTP upgrades the request and streams messages until the client
// goes away or the hub is closed. Client frames are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	c := &client{send: make(chan Message, sendBuffer), gone: make(chan struct{})}
	if !h.register(c) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unregister(c)

	ctx := conn.CloseRead(r.Context())
	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("stream client connected")

	for {
		select {
		case msg := <-c.send:
			if err := write(ctx, conn, msg); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.logger.Debug().Err(err).Msg("stream write failed")
				}
				return
			}
		case <-c.gone:
			conn.Close(websocket.StatusGoingAway, "disconnected")
			return
		case <-ctx.Done():
			return
		}
	}
}

// register adds c and queues the initial message in one critical section,
// so no broadcast can fall between the two.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.initial != nil {
		c.send <- h.initial()
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	c.drop()
}

func write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
