// Package statsfeed streams collection statistics to websocket clients and
// receives layer commands from them.
package statsfeed

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/hips"
)

const (
	writeTimeout = 2 * time.Second
	commandQueue = 16
)

// Command changes the metadata of a layer. Nil fields are left unchanged.
type Command struct {
	Layer   string   `json:"layer"`
	Opacity *float32 `json:"opacity,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
}

// Apply updates the layer meta in c.
func (cmd Command) Apply(c *hips.Collection) error {
	meta, err := c.LayerMeta(cmd.Layer)
	if err != nil {
		return err
	}
	if cmd.Opacity != nil {
		meta.Opacity = *cmd.Opacity
	}
	if cmd.Visible != nil {
		meta.Visible = *cmd.Visible
	}
	return c.SetLayerMeta(cmd.Layer, meta)
}

// Hub is an http.Handler upgrading requests to websockets. Every snapshot
// passed to Publish is sent to all connected clients as JSON.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	last    *hips.Stats
	closed  bool

	commands chan Command
}

// New returns a Hub logging to logger, or to hips.Logger() when nil.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = hips.Logger()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:   logger,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		commands: make(chan Command, commandQueue),
	}
}

// Commands returns the layer commands received from clients. Commands are
// dropped while the channel is full.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP implements http.Handler.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("statsfeed: upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.clients[conn] = connMu
	last := h.last
	// The first snapshot goes out before any Publish can reach the client.
	connMu.Lock()
	h.mu.Unlock()
	if last != nil {
		_ = h.write(conn, last)
	}
	connMu.Unlock()
	h.logger.Debug("statsfeed: client connected", slog.String("remote", r.RemoteAddr))

	defer h.remove(conn)
	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("statsfeed: read failed", slog.String("error", err.Error()))
			}
			return
		}
		if cmd.Layer == "" {
			continue
		}
		select {
		case h.commands <- cmd:
		default:
			h.logger.Warn("statsfeed: command dropped", slog.String("layer", cmd.Layer))
		}
	}
}

// Publish sends st to every client. Clients failing the write are closed.
func (h *Hub) Publish(st hips.Stats) {
	h.mu.Lock()
	h.last = &st
	h.mu.Unlock()

	var failed []*websocket.Conn
	h.mu.RLock()
	for conn, connMu := range h.clients {
		connMu.Lock()
		err := h.write(conn, &st)
		connMu.Unlock()
		if err != nil {
			h.logger.Debug("statsfeed: write failed", slog.String("error", err.Error()))
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range failed {
		conn.Close()
		h.remove(conn)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) write(conn *websocket.Conn, st *hips.Stats) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(st)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
