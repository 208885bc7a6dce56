// Package websocket handles real-time push of scoring updates to live
// scoreboard clients.
// file: websocket/connection.go
package websocket

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"go-iron-flow/logger"
)

// WSConn is an interface for the WebSocket connection, so tests can
// substitute a mock.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single scoreboard client, subscribed to one
// tournament.
type Connection struct {
	conn         WSConn
	send         chan []byte
	tournamentID string
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Upgrader upgrades HTTP requests to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// scoreboard displays are public; auth belongs to the HTTP layer
		return true
	},
}

// ServeWs upgrades the HTTP request and starts the read and write pumps.
// The client must name the tournament it wants updates for.
func ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.URL.Query().Get("tournamentId")
	if tournamentID == "" {
		logger.Error.Println("[ServeWs] no tournament selected; rejecting WebSocket connection")
		http.Error(w, "No tournament selected", http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[ServeWs] upgrading to WS: remoteAddr=%v, tournament=%q", r.RemoteAddr, tournamentID)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		conn:         wsConn,
		send:         make(chan []byte, 256),
		tournamentID: tournamentID,
	}
	registerConnection(c)

	go c.readPump()
	go c.writePump()
}

func registerConnection(c *Connection) {
	connectionsMu.Lock()
	connections[c] = true
	count := len(connections)
	connectionsMu.Unlock()
	PublishScoreboardConnections(count, c.tournamentID)
}

func unregisterConnection(c *Connection) {
	connectionsMu.Lock()
	if _, ok := connections[c]; ok {
		delete(connections, c)
		close(c.send)
	}
	count := len(connections)
	connectionsMu.Unlock()
	PublishScoreboardConnections(count, c.tournamentID)
}

// readPump drains inbound frames. Scoreboard clients are read-only from
// the server's point of view; we only care about pongs and disconnects.
func (c *Connection) readPump() {
	defer func() {
		unregisterConnection(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug.Printf("[readPump] connection %v closed: %v", c.conn.RemoteAddr(), err)
			break
		}
		// inbound payloads are ignored
	}
}

// writePump pushes queued messages and periodic pings to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] write error to %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
