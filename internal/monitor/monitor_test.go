package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pleimann/camel-input/internal/logging"
)

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func testClient(hub *Hub, name string) *client {
	return &client{
		hub:        hub,
		send:       make(chan []byte, hub.sendBuf),
		remoteAddr: name,
	}
}

func TestHubBroadcastDeliveredToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logging.Discard(), HubConfig{SendBuf: 4, BroadcastBuf: 8})
	go hub.Run(ctx)

	c1 := testClient(hub, "c1")
	c2 := testClient(hub, "c2")
	if !hub.add(c1) || !hub.add(c2) {
		t.Fatal("add() refused a client on a running hub")
	}

	msg := []byte(`{"type":"state"}`)
	hub.BroadcastBytes(msg)

	for _, c := range []*client{c1, c2} {
		select {
		case got := <-c.send:
			if string(got) != string(msg) {
				t.Errorf("%s got %s, want %s", c.remoteAddr, got, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s did not receive broadcast", c.remoteAddr)
		}
	}
}

func TestHubDisconnectsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logging.Discard(), HubConfig{SendBuf: 1, BroadcastBuf: 8})
	go hub.Run(ctx)

	slow := testClient(hub, "slow")
	hub.add(slow)

	hub.BroadcastBytes([]byte("1"))
	hub.BroadcastBytes([]byte("2"))

	waitUntil(t, time.Second, func() bool { return hub.Clients() == 0 }, "slow client not removed")

	// Send queue is closed after the buffered frame
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("send channel still open after removal")
	}
}

func TestHubRemoveAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard(), HubConfig{})
	go hub.Run(ctx)

	clients := make([]*client, 100)
	for i := range clients {
		clients[i] = testClient(hub, "c")
		hub.add(clients[i])
	}

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// Every pump exits through remove once the hub is gone
	finished := make(chan struct{})
	go func() {
		for _, c := range clients {
			hub.remove(c, "read_error")
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("remove blocked after the hub stopped")
	}

	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after stop, want 0", hub.Clients())
	}
	if hub.add(testClient(hub, "late")) {
		t.Error("add() accepted a client after the hub stopped")
	}
}

func TestEqualState(t *testing.T) {
	one, other := float32(1), float32(2)
	tests := []struct {
		name string
		a, b map[string]*float32
		want bool
	}{
		{"both empty", nil, map[string]*float32{}, true},
		{"same button", map[string]*float32{"jump": nil}, map[string]*float32{"jump": nil}, true},
		{"same value", map[string]*float32{"x": &one}, map[string]*float32{"x": ptr(1)}, true},
		{"different value", map[string]*float32{"x": &one}, map[string]*float32{"x": &other}, false},
		{"button vs value", map[string]*float32{"x": nil}, map[string]*float32{"x": &one}, false},
		{"different keys", map[string]*float32{"x": nil}, map[string]*float32{"y": nil}, false},
	}

	for _, tt := range tests {
		if got := equalState(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: equalState() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func ptr(v float32) *float32 { return &v }

type act string

func TestActions(t *testing.T) {
	got := Actions(map[act]*float32{"jump": nil, "steer": ptr(0.5)})
	if len(got) != 2 || got["jump"] != nil || *got["steer"] != 0.5 {
		t.Errorf("Actions() = %v", got)
	}
}

func TestServerStreamsState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewServer(logging.Discard(), ServerConfig{})
	go s.Hub().Run(ctx)

	// State published before the client connects is sent on connect
	s.Publish(1, map[string]*float32{"jump": nil})

	mux := http.NewServeMux()
	s.Register(mux, "/state")
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/state"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	read := func() StateData {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var env struct {
			Type string    `json:"type"`
			Data StateData `json:"data"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if env.Type != "state" {
			t.Fatalf("frame type = %q, want state", env.Type)
		}
		return env.Data
	}

	first := read()
	if first.Tick != 1 || len(first.Actions) != 1 {
		t.Errorf("initial frame = %+v, want tick 1 with jump", first)
	}

	waitUntil(t, time.Second, func() bool { return s.Hub().Clients() == 1 }, "client not registered")

	// Unchanged state is not re-sent
	s.Publish(2, map[string]*float32{"jump": nil})
	s.Publish(3, map[string]*float32{"steer": ptr(-0.25)})

	next := read()
	if next.Tick != 3 {
		t.Errorf("next frame tick = %d, want 3", next.Tick)
	}
	if v := next.Actions["steer"]; v == nil || *v != -0.25 {
		t.Errorf("next frame actions = %v, want steer: -0.25", next.Actions)
	}
}

func TestEnvelopeOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(envelope{Type: "state"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"state"}` {
		t.Errorf("Marshal(envelope) = %s", data)
	}
}
