// Package monitor broadcasts the live action state to WebSocket clients.
//
// A Hub fans serialized frames out to connected clients. Each client has its
// own queue and write pump so one slow client never blocks the others; a
// client whose queue is full is disconnected.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// HubConfig sizes the hub's queues. Zero values use defaults.
type HubConfig struct {
	SendBuf      int // per-client outbound frames
	BroadcastBuf int // frames waiting for fan-out
}

// Hub owns the set of connected clients. Clients join and leave under the
// hub lock, so a disconnecting client never waits on the Run loop.
type Hub struct {
	logger    *slog.Logger
	broadcast chan []byte
	sendBuf   int
	done      chan struct{}

	mu      sync.Mutex
	clients map[*client]struct{}
	stopped bool
}

// NewHub constructs a hub. Call Run(ctx) to start fan-out.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	if cfg.SendBuf <= 0 {
		cfg.SendBuf = 32
	}
	if cfg.BroadcastBuf <= 0 {
		cfg.BroadcastBuf = 128
	}
	return &Hub{
		logger:    logger,
		broadcast: make(chan []byte, cfg.BroadcastBuf),
		sendBuf:   cfg.SendBuf,
		done:      make(chan struct{}),
		clients:   make(map[*client]struct{}),
	}
}

// Run fans out broadcast frames until ctx is done, then disconnects every
// client. Clients that arrive afterwards are refused.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("monitor hub starting")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.stop()
			h.logger.Info("monitor hub stopped")
			return
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastBytes enqueues a serialized frame for every client. It never
// blocks; a full queue drops the frame.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("monitor broadcast queue full, dropping frame", "bytes", len(msg))
	}
}

func (h *Hub) fanOut(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropLocked(c, "slow_client")
		}
	}
}

// add registers c. It reports false once the hub has stopped.
func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.clients[c] = struct{}{}
	h.logger.Info("monitor client registered", "remote_addr", c.remoteAddr, "clients", len(h.clients))
	return true
}

// remove unregisters c if it is still connected. It never blocks on Run.
func (h *Hub) remove(c *client, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c, reason)
}

func (h *Hub) dropLocked(c *client, reason string) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.logger.Info("monitor client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", len(h.clients))
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for c := range h.clients {
		h.dropLocked(c, "shutdown")
	}
}

// client is one WebSocket connection with its outbound queue
type client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	once       sync.Once
	remoteAddr string
}

func newClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *client {
	return &client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, hub.sendBuf),
		remoteAddr: remoteAddr,
	}
}

// close ends the write pump and the connection. Safe to call repeatedly.
func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writePump writes queued frames and keepalive pings until the queue is
// closed or a write fails
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var err error
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			err = c.conn.WriteMessage(websocket.TextMessage, msg)
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = c.conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			c.hub.remove(c, "write_error")
			return
		}
	}
}

// readPump discards incoming frames so pongs and disconnects are noticed
func (c *client) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.logger.Debug("monitor client read ended", "remote_addr", c.remoteAddr, "error", err)
			c.hub.remove(c, "read_error")
			return
		}
	}
}
