package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

var (
	ErrClientClosed = errors.New("client connection closed")
	ErrSendTimeout  = errors.New("send timeout, client buffer full")
)

// Client is one websocket connection. It learns its player identity and
// room on the first successful create_room or join_room and keeps them
// for the life of the connection.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	logger zerolog.Logger

	mu       sync.RWMutex
	playerID string
	roomCode string
	closed   bool
	done     chan struct{}
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, server *Server, logger zerolog.Logger) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: server,
		logger: logger.With().Str("component", "client").Logger(),
		done:   make(chan struct{}),
	}
}

// PlayerID returns the bound player ID, empty before room entry.
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// RoomCode returns the bound room code, empty before room entry.
func (c *Client) RoomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

func (c *Client) bind(playerID, roomCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.roomCode = roomCode
}

// Send queues an envelope for the write pump. Drops the connection's
// claim to liveness rather than blocking the caller.
func (c *Client) Send(msg *Message) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClientClosed
	}
	c.mu.RUnlock()

	data, err := msg.encode()
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	case <-time.After(time.Second):
		return ErrSendTimeout
	}
}

func (m *Message) encode() ([]byte, error) {
	return json.Marshal(m)
}

func (c *Client) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// ReadPump reads frames until the connection drops, dispatching each to
// the server. It owns teardown: on exit the client is unregistered and
// its player leaves the room.
func (c *Client) ReadPump() {
	defer func() {
		c.server.disconnect(c)
		_ = c.conn.Close()
		c.markClosed()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Str("player_id", c.PlayerID()).Msg("unexpected websocket close")
			}
			break
		}
		c.server.handleMessage(c, data)
	}
}

// WritePump writes queued frames and keeps the connection alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		c.markClosed()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
