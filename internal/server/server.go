// Package server provides the host HTTP server: session state over JSON and
// SSE, and the websocket endpoint embedded applications dial.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/grovetools/sessionsync/bridge/ws"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/grovetools/sessionsync/session"
	"github.com/grovetools/sessionsync/state"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// RunningInfo describes the session a host is serving. It is exposed via
// /api/info so clients can check what they are talking to.
type RunningInfo struct {
	SessionID string    `json:"session_id"`
	Key       string    `json:"key"`
	Backend   string    `json:"backend"`
	Peers     int       `json:"peers"`
	StartedAt time.Time `json:"started_at"`
}

// Server serves one session over HTTP.
type Server struct {
	logger    *logrus.Entry
	mu        sync.Mutex
	server    *http.Server
	session   *session.Session
	hub       *ws.Hub
	backend   string
	startedAt time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Server for sess. hub handles /bridge upgrades.
func New(sess *session.Session, hub *ws.Hub, backend string, logger *logrus.Entry) *Server {
	return &Server{
		logger:    logger,
		session:   sess,
		hub:       hub,
		backend:   backend,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// Handler returns the routes wrapped for cleartext HTTP/2.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/info", s.handleGetInfo)
	mux.HandleFunc("/api/stream", s.handleStreamState)
	mux.Handle("/bridge", s.hub)

	return h2c.NewHandler(mux, &http2.Server{})
}

// ListenAndServe listens on addr and serves until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve serves on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.WithField("addr", listener.Addr().String()).Info("Host listening")
	err := srv.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, ends open streams and disconnects
// bridge peers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.stopOnce.Do(func() { close(s.done) })
	s.hub.Close()

	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// stateResponse is the /api/state payload.
type stateResponse struct {
	State   models.SessionState `json:"state"`
	Summary models.CartSummary  `json:"summary"`
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.session.State()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stateResponse{State: st, Summary: st.Summary()})
}

func (s *Server) handleGetInfo(w http.ResponseWriter, r *http.Request) {
	info := RunningInfo{
		SessionID: s.session.ID(),
		Key:       s.session.Store().Key(),
		Backend:   s.backend,
		Peers:     s.hub.Peers(),
		StartedAt: s.startedAt,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// streamUpdate is one SSE event.
type streamUpdate struct {
	Op    string              `json:"op"`
	State models.SessionState `json:"state"`
}

// handleStreamState sends the current state, then one event per store
// mutation, as Server-Sent Events.
func (s *Server) handleStreamState(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan state.Update, 100)
	unsubscribe := s.session.Store().Subscribe(func(u state.Update) {
		select {
		case ch <- u:
		default:
			s.logger.WithField("op", u.Op).Warn("SSE client too slow; update dropped")
		}
	})
	defer unsubscribe()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()
	s.logger.Debug("SSE client connected")

	write := func(u streamUpdate) {
		data, err := json.Marshal(u)
		if err != nil {
			s.logger.WithError(err).Error("Failed to marshal update")
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
	write(streamUpdate{Op: "initial", State: s.session.State()})

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case <-s.done:
			return
		case u := <-ch:
			write(streamUpdate{Op: string(u.Op), State: u.State})
		}
	}
}
