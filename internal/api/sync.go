package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tutorgo/pkg/model"
	"tutorgo/pkg/playback"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The engine binds to loopback; surfaces are local windows on the same
	// served origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SyncHub pushes whole PlaybackState snapshots to every connected rendering
// surface. A surface receives the current snapshot on connect and a fresh
// one on every change; patches are never sent.
type SyncHub struct {
	machine *playback.Machine

	mu      sync.Mutex
	clients map[*websocket.Conn]chan model.PlaybackState
}

// NewSyncHub creates the hub.
func NewSyncHub(m *playback.Machine) *SyncHub {
	return &SyncHub{
		machine: m,
		clients: make(map[*websocket.Conn]chan model.PlaybackState),
	}
}

// Run pumps machine snapshots to all clients until ctx is done.
func (h *SyncHub) Run(ctx context.Context) {
	updates, cancel := h.machine.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case st, ok := <-updates:
			if !ok {
				h.closeAll()
				return
			}
			h.mu.Lock()
			for _, ch := range h.clients {
				select {
				case ch <- st:
				default: // slow surface, it will catch up on the next snapshot
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleWS handles GET /ws/state.
func (h *SyncHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)
		return
	}

	ch := make(chan model.PlaybackState, 8)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	slog.Info("Render surface connected", "remote", conn.RemoteAddr().String())

	// Current snapshot immediately, so a late-joining surface renders the
	// same frame as everyone else.
	ch <- h.machine.Snapshot()

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

func (h *SyncHub) writeLoop(conn *websocket.Conn, ch chan model.PlaybackState) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(st); err != nil {
				h.drop(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(conn)
				return
			}
		}
	}
}

// readLoop drains the connection; surfaces never send state upstream, but
// reading is required to process control frames and notice disconnects.
func (h *SyncHub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(conn)
			return
		}
	}
}

func (h *SyncHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	ch, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
		slog.Info("Render surface disconnected", "remote", conn.RemoteAddr().String())
	}
}

func (h *SyncHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		delete(h.clients, conn)
		close(ch)
		_ = conn.Close()
	}
}
