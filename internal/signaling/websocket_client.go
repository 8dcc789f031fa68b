package signaling

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/okieraised/udashboard/internal/common"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

// allPages is the page subscription of a client that wants whole frames.
const allPages = -1

type WebsocketClient struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	hub  *WebsocketHub
	page atomic.Int64

	writeMu  sync.Mutex
	sendMu   sync.Mutex
	send     chan common.FrameMessage
	isClosed bool
	closed   chan struct{}
}

// NewWebsocketClient creates a new websocket client subscribed to every page.
func NewWebsocketClient(id uuid.UUID, conn *websocket.Conn, hub *WebsocketHub) *WebsocketClient {
	c := &WebsocketClient{
		ID:     id,
		Conn:   conn,
		send:   make(chan common.FrameMessage, sendBuffer),
		hub:    hub,
		closed: make(chan struct{}),
	}
	c.page.Store(allPages)

	go c.pingLoop()

	return c
}

// Page returns the subscribed page, or -1 for every page.
func (c *WebsocketClient) Page() int {
	return int(c.page.Load())
}

// Send queues msg without blocking. It reports false when the buffer is full
// or the client is closed.
func (c *WebsocketClient) Send(msg common.FrameMessage) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.isClosed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *WebsocketClient) Read() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.closed:
		}
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	err := c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	if err != nil {
		log.Default().Info(errors.Wrap(err, "failed to set read deadline").Error())
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Default().Info(errors.Wrap(err, "failed to set read deadline").Error())
		}
		return nil
	})

	for {
		var msg common.FrameMessage
		err = c.Conn.ReadJSON(&msg)
		if err != nil {
			log.Default().Info(errors.Wrap(err, "failed to read message").Error())
			break
		}
		c.handleMessage(msg)
	}
}

func (c *WebsocketClient) handleMessage(msg common.FrameMessage) {
	if err := msg.ValidateSubscribe(); err != nil {
		c.Send(common.FrameMessage{
			Header:  c.hub.header(),
			Payload: common.FrameBody{Type: constants.MsgTypeError, Error: err.Error()},
		})
		return
	}

	page := allPages
	if msg.Payload.Page != nil {
		page = *msg.Payload.Page
	}
	c.page.Store(int64(page))
	log.Default().Debug(fmt.Sprintf("Client [%s] subscribed to page [%d]", c.ID, page))
}

func (c *WebsocketClient) Write() {
	for message := range c.send {
		if err := c.WriteJSON(message); err != nil {
			log.Default().Info(errors.Wrap(err, "failed to send message").Error())
			return
		}
	}

	// Channel closed -> send close frame
	if err := c.safeWrite(websocket.CloseMessage, []byte{}); err != nil {
		log.Default().Debug(errors.Wrap(err, "failed to send close message").Error())
	}
}

func (c *WebsocketClient) safeWrite(msgType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(msgType, data)
}

func (c *WebsocketClient) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(v)
}

func (c *WebsocketClient) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.safeWrite(websocket.PingMessage, nil); err != nil {
				log.Default().Error(errors.Wrap(err, fmt.Sprintf("client [%s] ping error", c.ID.String())).Error())
				return
			}
		case <-c.closed:
			return
		}
	}
}

// Close stops the client. The writer drains queued messages and then sends
// a close frame.
func (c *WebsocketClient) Close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.isClosed {
		return
	}
	c.isClosed = true
	close(c.closed)
	close(c.send)
}
