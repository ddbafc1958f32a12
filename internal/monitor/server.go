package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// envelope is the wire format of every frame
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// StateData is the payload of "state" frames. Actions without a magnitude
// map to null.
type StateData struct {
	Tick    uint64              `json:"tick"`
	Actions map[string]*float32 `json:"actions"`
}

// Server serves the action state over WebSocket
type Server struct {
	logger *slog.Logger
	hub    *Hub

	mu     sync.Mutex
	last   map[string]*float32
	latest []byte
}

// ServerConfig configures a Server
type ServerConfig struct {
	Hub HubConfig
}

// NewServer constructs the server and its hub. Start the hub with
// Hub().Run(ctx) or use ListenAndServe.
func NewServer(logger *slog.Logger, cfg ServerConfig) *Server {
	return &Server{
		logger: logger,
		hub:    NewHub(logger, cfg.Hub),
	}
}

// Hub returns the server's client hub
func (s *Server) Hub() *Hub { return s.hub }

// Register registers the WebSocket handler on mux
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleState)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("monitor upgrade failed", "error", err)
		return
	}

	c := newClient(s.hub, conn, r.RemoteAddr)

	// Queue the current state before registering so it is the first frame
	s.mu.Lock()
	if s.latest != nil {
		c.send <- s.latest
	}
	s.mu.Unlock()

	if !s.hub.add(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}

	// The pumps outlive the request; the hub owns the connection lifetime
	go c.writePump()
	go c.readPump()
}

// Publish broadcasts the state of one tick when it differs from the last
// published state. Safe to call from the tick loop: it never blocks.
func (s *Server) Publish(tick uint64, actions map[string]*float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != nil && equalState(s.last, actions) {
		return
	}

	now := time.Now().UTC()
	msg, err := json.Marshal(envelope{
		Type: "state",
		Ts:   &now,
		Data: StateData{Tick: tick, Actions: actions},
	})
	if err != nil {
		s.logger.Warn("monitor marshal failed", "error", err)
		return
	}

	s.last = maps.Clone(actions)
	s.latest = msg
	s.hub.BroadcastBytes(msg)
}

func equalState(a, b map[string]*float32) bool {
	return maps.EqualFunc(a, b, func(x, y *float32) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	})
}

// ListenAndServe serves the monitor on addr until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.Register(mux, "/state")

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("monitor listen %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go s.hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("monitor listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitor serve: %w", err)
	}
	return nil
}

// Actions converts an action snapshot to its wire form, keyed by the
// action's string form
func Actions[A comparable](snap map[A]*float32) map[string]*float32 {
	out := make(map[string]*float32, len(snap))
	for a, v := range snap {
		out[fmt.Sprint(a)] = v
	}
	return out
}
