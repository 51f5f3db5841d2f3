// Package ws carries bridge messages across processes over websockets. The
// host runs a Hub; embedded applications connect with Dial.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/logging"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// HubOptions configures a Hub.
type HubOptions struct {
	// AllowedOrigins lists the origins allowed to connect. Empty trusts all.
	AllowedOrigins []string
	// SendBuffer bounds the outbound queue of each peer. Messages for a peer
	// whose queue is full are dropped.
	SendBuffer int
	Logger     *logrus.Entry
}

// Hub is the host side of a cross-process bridge. It is an http.Handler that
// upgrades requests to websocket peers. Messages from peers reach the Hub's
// handlers; Notify fans out to every connected peer.
type Hub struct {
	upgrader   websocket.Upgrader
	origins    *bridge.OriginPolicy
	handlers   bridge.Handlers
	sendBuffer int
	logger     *logrus.Entry

	mu     sync.RWMutex
	peers  map[string]*peer
	closed bool
}

type peer struct {
	id     string
	origin string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (p *peer) close() {
	p.once.Do(func() { close(p.send) })
}

var _ bridge.Endpoint = (*Hub)(nil)

// NewHub creates a Hub.
func NewHub(opts HubOptions) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("bridge-hub")
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = config.DefaultSendBuffer
	}

	h := &Hub{
		origins:    bridge.NewOriginPolicy(opts.AllowedOrigins, logger),
		sendBuffer: opts.SendBuffer,
		logger:     logger,
		peers:      make(map[string]*peer),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.origins.Allow(r.Header.Get("Origin"))
		},
	}
	return h
}

// ServeHTTP upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !h.origins.Allow(origin) {
		err := errors.OriginRejected(origin)
		h.logger.WithField("remote", r.RemoteAddr).WithError(err).Warn("Rejected bridge connection")
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	p := &peer{
		id:     uuid.NewString(),
		origin: origin,
		conn:   conn,
		send:   make(chan []byte, h.sendBuffer),
	}
	if !h.register(p) {
		conn.Close()
		return
	}

	log := h.logger.WithFields(logrus.Fields{"peer": p.id, "origin": origin})
	log.Info("Bridge peer connected")

	go h.writePump(p, log)
	h.readPump(p, log)

	h.unregister(p)
	log.Info("Bridge peer disconnected")
}

// Notify queues m for every connected peer without blocking.
func (h *Hub) Notify(m bridge.Message) {
	data, err := bridge.Encode(m)
	if err != nil {
		h.logger.WithError(err).Warn("Dropping message that cannot be encoded")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.peers) == 0 {
		h.logger.WithField("type", m.Type()).Debug("No bridge peers; message dropped")
		return
	}
	for _, p := range h.peers {
		select {
		case p.send <- data:
		default:
			h.logger.WithFields(logrus.Fields{"peer": p.id, "type": m.Type()}).Warn("Peer send buffer full; message dropped")
		}
	}
}

// OnMessage registers h for messages from any peer.
func (h *Hub) OnMessage(fn bridge.Handler) func() {
	return h.handlers.Add(fn)
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	peers := make([]*peer, 0, len(h.peers))
	for id, p := range h.peers {
		peers = append(peers, p)
		delete(h.peers, id)
	}
	h.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
	h.handlers.Clear()
	return nil
}

func (h *Hub) register(p *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.peers[p.id] = p
	return true
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	delete(h.peers, p.id)
	h.mu.Unlock()
	p.close()
}

func (h *Hub) readPump(p *peer, log *logrus.Entry) {
	defer p.conn.Close()

	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("Bridge peer read failed")
			}
			return
		}
		dispatch(&h.handlers, data, log)
	}
}

func (h *Hub) writePump(p *peer, log *logrus.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case data, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.WithError(err).Debug("Bridge peer write failed")
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

// dispatch decodes data and hands it to handlers. Undecodable messages are
// logged and ignored.
func dispatch(handlers *bridge.Handlers, data []byte, log *logrus.Entry) {
	m, err := bridge.Decode(data)
	if err != nil {
		if bridge.IsUnknownType(err) {
			log.WithError(err).Debug("Ignoring message of unknown type")
		} else {
			log.WithError(err).Warn("Ignoring malformed message")
		}
		return
	}
	if handlers.Dispatch(m) == 0 {
		log.WithField("type", m.Type()).Debug("No listener; message dropped")
	}
}
