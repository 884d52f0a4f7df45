package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/pokertables/internal/lobby"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection is one player's WebSocket session, bound to an identity key.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	key       string
	lobby     *lobby.Lobby
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	sendMu    sync.Mutex
	closed    bool
}

// NewConnection wraps conn for the player holding key.
func NewConnection(conn *websocket.Conn, key string, l *lobby.Lobby, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 64),
		key:    key,
		lobby:  l,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A full buffer closes the
// connection.
func (c *Connection) SendMessage(msg *Message) error {
	c.sendMu.Lock()
	if c.closed {
		c.sendMu.Unlock()
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		c.sendMu.Unlock()
		return nil
	default:
	}
	c.sendMu.Unlock()

	c.logger.Warn("Connection send buffer full, closing connection")
	_ = c.Close()
	return ErrConnectionClosed
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeGetTable:
		c.sendView()

	case MessageTypeAction:
		var data actionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			if status, _ := classify(err); status == http.StatusInternalServerError {
				err = fmt.Errorf("%w: %v", ErrBadRequest, err)
			}
			c.sendError(err)
			return
		}
		if !data.Action.IsSet() {
			c.sendError(fmt.Errorf("%w: action is required", ErrBadRequest))
			return
		}
		// Success is answered by the table broadcast.
		if err := c.lobby.Act(c.key, data.Action.Action); err != nil {
			c.sendError(err)
		}

	default:
		c.sendErrorCode("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendView sends the player's current view of their table.
func (c *Connection) sendView() {
	view, err := c.lobby.View(c.key)
	if err != nil {
		c.sendError(err)
		return
	}
	msg, err := NewMessage(MessageTypeTable, view)
	if err != nil {
		c.logger.Error("Failed to create table message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(err error) {
	_, code := classify(err)
	c.sendErrorCode(code, err.Error())
}

func (c *Connection) sendErrorCode(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
