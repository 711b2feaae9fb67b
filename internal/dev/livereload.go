package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// MessageType identifies a live-reload message.
type MessageType string

const (
	TypeReload MessageType = "reload"
	TypeError  MessageType = "error"
	TypeClear  MessageType = "clear"
)

// Message is sent to connected browsers over the WebSocket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
	File  string      `json:"file,omitempty"`
}

// Reloader manages live-reload WebSocket connections. When route
// modules change, call Reload to ask every connected browser to
// refresh the page.
type Reloader struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewReloader creates a reloader with no connected clients.
func NewReloader() *Reloader {
	return &Reloader{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Development only; any origin may connect.
				return true
			},
		},
	}
}

// ServeHTTP upgrades the request to a WebSocket and keeps the
// connection registered until the client disconnects.
func (rl *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := rl.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	rl.mu.Lock()
	rl.clients[conn] = struct{}{}
	rl.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	rl.mu.Lock()
	delete(rl.clients, conn)
	rl.mu.Unlock()
	conn.Close()
}

// Reload asks every connected browser to refresh. The file name is
// informational and may be empty.
func (rl *Reloader) Reload(file string) {
	rl.broadcast(Message{Type: TypeReload, File: file})
}

// ReportError shows an error overlay on every connected browser.
func (rl *Reloader) ReportError(errMsg string) {
	rl.broadcast(Message{Type: TypeError, Error: errMsg})
}

// ClearError removes the error overlay from every connected browser.
func (rl *Reloader) ClearError() {
	rl.broadcast(Message{Type: TypeClear})
}

// ClientCount reports the number of connected browsers.
func (rl *Reloader) ClientCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

func (rl *Reloader) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	rl.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(rl.clients))
	for conn := range rl.clients {
		clients = append(clients, conn)
	}
	rl.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			rl.mu.Lock()
			delete(rl.clients, conn)
			rl.mu.Unlock()
			conn.Close()
		}
	}
}
