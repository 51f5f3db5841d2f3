package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/logging"
	"github.com/sirupsen/logrus"
)

// DialOptions configures a Client.
type DialOptions struct {
	// Origin is sent with the upgrade request and checked by the Hub.
	Origin     string
	SendBuffer int
	Logger     *logrus.Entry
}

// Client is the embedded side of a cross-process bridge.
type Client struct {
	conn     *websocket.Conn
	handlers bridge.Handlers
	logger   *logrus.Entry

	mu     sync.RWMutex
	send   chan []byte
	closed bool
	done   chan struct{}
}

var _ bridge.Endpoint = (*Client)(nil)

// Dial connects to a Hub at url.
func Dial(ctx context.Context, url string, opts DialOptions) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("bridge-client")
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = config.DefaultSendBuffer
	}

	header := http.Header{}
	if opts.Origin != "" {
		header.Set("Origin", opts.Origin)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		e := errors.BridgeDial(url, err)
		if resp != nil {
			e = e.WithDetail("status", resp.StatusCode)
		}
		return nil, e
	}

	c := &Client{
		conn:   conn,
		logger: logger.WithField("url", url),
		send:   make(chan []byte, opts.SendBuffer),
		done:   make(chan struct{}),
	}
	go c.writePump()
	go c.readPump()

	c.logger.Debug("Connected to bridge")
	return c, nil
}

// Notify queues m for the host without blocking. Messages sent after the
// connection closed, or while the queue is full, are dropped.
func (c *Client) Notify(m bridge.Message) {
	data, err := bridge.Encode(m)
	if err != nil {
		c.logger.WithError(err).Warn("Dropping message that cannot be encoded")
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.logger.WithField("type", m.Type()).Debug("Bridge closed; message dropped")
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.WithField("type", m.Type()).Warn("Send buffer full; message dropped")
	}
}

// OnMessage registers h for messages from the host.
func (c *Client) OnMessage(h bridge.Handler) func() {
	return c.handlers.Add(h)
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close flushes queued messages and closes the connection.
func (c *Client) Close() error {
	c.shutdown()
	select {
	case <-c.done:
	case <-time.After(writeWait):
		return c.conn.Close()
	}
	return nil
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.shutdown()
		c.conn.Close()
		close(c.done)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Debug("Bridge read failed")
			}
			return
		}
		dispatch(&c.handlers, data, c.logger)
	}
}

func (c *Client) writePump() {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.WithError(err).Debug("Bridge write failed")
			c.conn.Close()
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
