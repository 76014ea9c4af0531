// Package realtime pushes history changes to every open connection of a session.
package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vaultpass/passgen/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is how many events may queue for a client before it is dropped.
	sendBuffer = 8

	// EventHistory is the type of the message sent when a session's history changes.
	EventHistory = "history"
)

type client struct {
	conn *websocket.Conn
	send chan model.HistoryEvent

	// guards send against enqueue after close and orders the snapshot before publishes
	mu        sync.Mutex
	closed    bool
	closeCode int
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan model.HistoryEvent, sendBuffer),
	}
}

// enqueue queues ev without blocking. It reports false when the client is
// closed or its buffer is full. c.mu must be held.
func (c *client) enqueue(ev model.HistoryEvent) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// shutdown closes the send queue; the writer then sends a close frame with code.
// c.mu must be held.
func (c *client) shutdown(code int) {
	if c.closed {
		return
	}
	c.closed = true
	c.closeCode = code
	close(c.send)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.mu.Lock()
				code := c.closeCode
				c.mu.Unlock()
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""))
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub tracks websocket connections per session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*client]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*client]struct{})}
}

// Serve registers conn under sessionID, sends it the history returned by
// snapshot and blocks until the peer goes away.
//
// snapshot runs after registration, and publishes for the session wait until
// its result is queued, so the connection never misses a change.
func (h *Hub) Serve(conn *websocket.Conn, sessionID string, snapshot func() ([]model.HistoryEntry, error)) {
	c := newClient(conn)
	go c.writePump()

	c.mu.Lock()
	h.add(sessionID, c)
	entries, err := snapshot()
	if err != nil {
		slog.Error("websocket snapshot failed", "session_id", sessionID, "error", err)
		c.shutdown(websocket.CloseInternalServerErr)
	} else {
		c.enqueue(historyEvent(entries))
	}
	c.mu.Unlock()

	defer h.drop(sessionID, c, websocket.CloseNormalClosure)
	if err != nil {
		return
	}

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// inbound messages are ignored; reading drives control frames and close detection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed", "session_id", sessionID, "error", err)
			}
			return
		}
	}
}

// Publish queues entries for every connection of sessionID without blocking.
// Connections whose queue is full are dropped.
func (h *Hub) Publish(sessionID string, entries []model.HistoryEntry) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	event := historyEvent(entries)
	for _, c := range clients {
		c.mu.Lock()
		ok := c.enqueue(event)
		c.mu.Unlock()

		if !ok {
			slog.Warn("dropping slow websocket client", "session_id", sessionID)
			h.drop(sessionID, c, websocket.ClosePolicyViolation)
		}
	}
}

// Connections returns the number of open connections for sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*client
	for sid, clients := range h.sessions {
		for c := range clients {
			all = append(all, c)
		}
		delete(h.sessions, sid)
	}
	h.mu.Unlock()

	// client locks are taken without h.mu held; Serve locks them in the other order
	for _, c := range all {
		c.mu.Lock()
		c.shutdown(websocket.CloseGoingAway)
		c.mu.Unlock()
	}
}

func (h *Hub) add(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[sessionID]
	if !ok {
		clients = make(map[*client]struct{})
		h.sessions[sessionID] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) drop(sessionID string, c *client, code int) {
	h.mu.Lock()
	delete(h.sessions[sessionID], c)
	if len(h.sessions[sessionID]) == 0 {
		delete(h.sessions, sessionID)
	}
	h.mu.Unlock()

	c.mu.Lock()
	c.shutdown(code)
	c.mu.Unlock()
}

func historyEvent(entries []model.HistoryEntry) model.HistoryEvent {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return model.HistoryEvent{Type: EventHistory, Entries: entries}
}
