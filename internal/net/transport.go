package net

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"LocalBoard/internal/align"
	"LocalBoard/internal/apperr"
	"LocalBoard/internal/board"
	"LocalBoard/internal/input"
	"LocalBoard/internal/tool"
)

// MessageType tags a websocket message.
type MessageType string

const (
	MessageInput   MessageType = "input"
	MessageTool    MessageType = "tool"
	MessageOptions MessageType = "options"
	MessageFrame   MessageType = "frame"
	MessageError   MessageType = "error"
)

// Message is the JSON envelope exchanged with peers. Peers send input, tool
// and options messages; the hub sends frame and error messages.
type Message struct {
	Type    MessageType    `json:"type"`
	Event   *input.Event   `json:"event,omitempty"`
	Tool    tool.Name      `json:"tool,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	Frame   *board.Frame   `json:"frame,omitempty"`
	Error   string         `json:"error,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// Peer is one websocket connection.
type Peer struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to websocket peers and feeds the driver's input into
// the board loop. The first peer to connect drives; the others watch. When
// the driver leaves, the longest-connected watcher takes over.
type Hub struct {
	loop     *board.Loop
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.RWMutex
	peers map[string]*Peer
	order []string
}

// NewHub returns a hub that dispatches into loop.
func NewHub(loop *board.Loop, logger *slog.Logger) *Hub {
	return &Hub{
		loop:     loop,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		logger:   logger,
		peers:    make(map[string]*Peer),
	}
}

// Broadcast sends f to every peer. It never blocks: a peer whose buffer is
// full misses the frame and catches up on the next one.
func (h *Hub) Broadcast(f board.Frame) {
	raw, err := json.Marshal(Message{Type: MessageFrame, Frame: &f})
	if err != nil {
		h.logger.Error("net: encode frame", slog.String("error", err.Error()))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.peers {
		select {
		case p.send <- raw:
		default:
		}
	}
}

// PeerCount returns the number of connected peers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Driver returns the id of the peer whose input is applied.
func (h *Hub) Driver() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.order) == 0 {
		return ""
	}
	return h.order[0]
}

func (h *Hub) register(p *Peer) {
	h.mu.Lock()
	h.peers[p.ID] = p
	h.order = append(h.order, p.ID)
	h.mu.Unlock()
	h.logger.Info("net: peer connected", slog.String("peer", p.ID), slog.String("remote", p.conn.RemoteAddr().String()))
}

func (h *Hub) unregister(p *Peer) {
	h.mu.Lock()
	if _, ok := h.peers[p.ID]; ok {
		delete(h.peers, p.ID)
		h.order = slices.DeleteFunc(h.order, func(id string) bool { return id == p.ID })
		close(p.send)
	}
	h.mu.Unlock()
	h.logger.Info("net: peer disconnected", slog.String("peer", p.ID))
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.RLock()
	peers := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()
	for _, p := range peers {
		_ = p.conn.Close()
	}
}

// ServeWS upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("net: upgrade failed", slog.String("error", err.Error()))
		return
	}
	p := &Peer{ID: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(p)

	if f, err := h.loop.Frame(); err == nil {
		h.reply(p, Message{Type: MessageFrame, Frame: &f})
	}

	go h.writePump(p)
	h.readPump(p)
}

func (h *Hub) readPump(p *Peer) {
	defer func() {
		h.unregister(p)
		_ = p.conn.Close()
	}()
	p.conn.SetReadLimit(1 << 20)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("net: read failed", slog.String("peer", p.ID), slog.String("error", err.Error()))
			}
			return
		}
		if err := h.handle(p, msg); err != nil {
			h.reply(p, Message{Type: MessageError, Error: err.Error()})
		}
	}
}

// ErrNotDriver is sent to watchers that try to change the board.
var ErrNotDriver = errors.New("only the driving peer may change the board")

func (h *Hub) handle(p *Peer, msg Message) error {
	if h.Driver() != p.ID {
		return ErrNotDriver
	}
	switch msg.Type {
	case MessageInput:
		if msg.Event == nil {
			return fmt.Errorf("input message without event: %w", apperr.ErrInvalidGeometry)
		}
		_, err := h.loop.Dispatch(*msg.Event)
		return err
	case MessageTool:
		return h.loop.SetTool(msg.Tool)
	case MessageOptions:
		opts, err := align.OptionsFromMap(msg.Options)
		if err != nil {
			return err
		}
		var setErr error
		if err := h.loop.Do(func(c *board.Controller) { setErr = c.SetAlignmentOptions(opts) }); err != nil {
			return err
		}
		return setErr
	}
	return fmt.Errorf("message type %q: %w", msg.Type, apperr.ErrInvalidConfig)
}

// reply queues msg for p alone.
func (h *Hub) reply(p *Peer, msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.peers[p.ID]; !ok {
		return
	}
	select {
	case p.send <- raw:
	default:
	}
}

func (h *Hub) writePump(p *Peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()
	for {
		select {
		case raw, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
