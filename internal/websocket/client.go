// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
	sendBuffer     = 256
)

// clientIDCounter orders clients for broadcast and shutdown.
var clientIDCounter atomic.Uint64

// Handler answers one inbound message. Replies go to the sending client only.
type Handler interface {
	Handle(ctx context.Context, msg InboundMessage) []Message
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg InboundMessage) []Message

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, msg InboundMessage) []Message {
	return f(ctx, msg)
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id        uint64
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	handler   Handler
	send      chan Message

	mu     sync.Mutex
	closed bool
}

// NewClient creates a client for conn. handler may be nil, in which case only
// ping is answered.
func NewClient(hub *Hub, conn *websocket.Conn, handler Handler) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		sessionID: uuid.NewString(),
		hub:       hub,
		conn:      conn,
		handler:   handler,
		send:      make(chan Message, sendBuffer),
	}
}

// ID returns the client's connection-order identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// SessionID returns the random identifier used in logs.
func (c *Client) SessionID() string {
	return c.sessionID
}

// enqueue queues msg without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) enqueue(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close stops the write pump. It is safe to call more than once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Start registers the client with the hub and starts its pumps. The request
// context's values (request ID, claims) are kept, but its cancellation is not:
// the connection outlives the upgrade handler.
func (c *Client) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ctx = logging.ContextWithLogger(ctx, logging.With().Str("session_id", c.sessionID).Logger())

	c.hub.Register <- c
	go c.writePump()
	go c.readPump(ctx, cancel)
}

// readPump reads client messages and dispatches them to the handler in order.
func (c *Client) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer func() {
		cancel()
		select {
		case c.hub.Unregister <- c:
		case <-time.After(writeWait):
			c.close()
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				logging.Ctx(ctx).Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		for _, reply := range c.dispatch(ctx, data) {
			if !c.enqueue(reply) {
				metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
				logging.Ctx(ctx).Warn().Str("message_type", reply.Type).Msg("dropping websocket reply")
			}
		}
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte) []Message {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.WSErrors.WithLabelValues("decode").Inc()
		return []Message{errorMessage(ErrCodeBadRequest, "Invalid message: "+err.Error())}
	}

	if msg.Type == MessageTypePing {
		return []Message{{Type: MessageTypePong}}
	}
	if c.handler == nil {
		return []Message{errorMessage(ErrCodeBadRequest, "Unknown message type: "+msg.Type)}
	}
	return c.handler.Handle(ctx, msg)
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := MarshalMessage(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("encode").Inc()
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
