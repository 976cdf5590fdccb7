package net

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"LocalBoard/internal/align"
	"LocalBoard/internal/board"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
	"LocalBoard/internal/tool"
)

func newServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	eng, err := align.NewEngine(align.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	loop := board.NewLoop(board.NewController(shape.NewStore(), eng))
	hub := NewHub(loop, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := loop.Do(func(c *board.Controller) { c.OnFrame(hub.Broadcast) }); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewRouter(hub))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		loop.Close()
	})
	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg Message) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
}

func isFrame(m Message) bool { return m.Type == MessageFrame && m.Frame != nil }

func TestDriverInputProducesFrame(t *testing.T) {
	srv, hub := newServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, isFrame)
	if hub.Driver() == "" {
		t.Fatal("no driver after connect")
	}

	send(t, conn, Message{Type: MessageTool, Tool: tool.NameRectangle})
	for _, ev := range []input.Event{input.Down(0, 0), input.Move(20, 20), input.Up(20, 20)} {
		send(t, conn, Message{Type: MessageInput, Event: &ev})
	}

	msg := readUntil(t, conn, func(m Message) bool { return isFrame(m) && len(m.Frame.Shapes) == 1 })
	s := msg.Frame.Shapes[0]
	if s.Kind != shape.KindRectangle || s.Width != 20 || s.Height != 20 {
		t.Errorf("shape = %+v", s)
	}
}

func TestWatcherCannotDrive(t *testing.T) {
	srv, hub := newServer(t)
	driver := dial(t, srv)
	readUntil(t, driver, isFrame)
	watcher := dial(t, srv)
	readUntil(t, watcher, isFrame)
	if hub.PeerCount() != 2 {
		t.Fatalf("peers = %d", hub.PeerCount())
	}

	ev := input.Down(1, 1)
	send(t, watcher, Message{Type: MessageInput, Event: &ev})
	msg := readUntil(t, watcher, func(m Message) bool { return m.Type == MessageError })
	if msg.Error != ErrNotDriver.Error() {
		t.Errorf("error = %q", msg.Error)
	}

	// Driver input reaches the watcher as a frame.
	send(t, driver, Message{Type: MessageInput, Event: &ev})
	readUntil(t, watcher, func(m Message) bool { return isFrame(m) && m.Frame.State == tool.StateSelecting })
}

func TestBadOptionsRejected(t *testing.T) {
	srv, _ := newServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, isFrame)

	send(t, conn, Message{Type: MessageOptions, Options: map[string]any{"snapThreshold": -2}})
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == MessageError })
	if !strings.Contains(msg.Error, "invalid config") {
		t.Errorf("error = %q", msg.Error)
	}
}

func TestHTTPEndpoints(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/frame")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var f board.Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.Tool != tool.NameSelect || f.Camera.Zoom != 1 {
		t.Errorf("frame = %+v", f)
	}
}
