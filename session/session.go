// Package session ties the persisted store and the message bridge together
// into one user session shared by a host application and the applications
// embedded in it.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/logging"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/grovetools/sessionsync/pkg/paths"
	"github.com/grovetools/sessionsync/pkg/storage"
	"github.com/grovetools/sessionsync/state"
	"github.com/sirupsen/logrus"
)

// AutoID asks ResolveID for a freshly generated session id.
const AutoID = "auto"

// Session is one activation of a user session. Sessions never expire on
// their own; they end when the user signs out or the durable scope is gone.
type Session struct {
	id      string
	store   *state.Store
	storage storage.Storage
	logger  *logrus.Entry

	mu      sync.Mutex
	watcher *state.Watcher
	cancel  context.CancelFunc
	closed  bool
}

// ResolveID returns the configured session id, generating one for "auto".
func ResolveID(id string) string {
	id = strings.TrimSpace(id)
	switch id {
	case "":
		return config.DefaultSessionID
	case AutoID:
		return uuid.NewString()
	default:
		return id
	}
}

// OpenStorage opens the durable storage selected by cfg. The file backend
// and the default SQLite database live under the sessions directory unless
// cfg names another one.
func OpenStorage(cfg *config.Config, sessionID string) (storage.Storage, error) {
	sc := cfg.Session.Storage
	dir := sc.Dir
	if dir == "" {
		dir = paths.SessionsDir()
	}
	return storage.Open(storage.Options{
		Backend:   sc.Backend,
		Dir:       paths.Expand(dir),
		Path:      paths.Expand(sc.Path),
		SessionID: sessionID,
	})
}

// Open activates a session over st. With no durable record the session
// starts empty; otherwise it picks up where the last activation left off.
// When cfg enables watching and st is file-backed, the store also reloads
// whenever another process rewrites the snapshot.
func Open(cfg *config.Config, st storage.Storage, logger *logrus.Entry) (*Session, error) {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.SetDefaults()
	}
	if logger == nil {
		logger = logging.NewLogger("session")
	}

	id := ResolveID(cfg.Session.ID)
	s := &Session{
		id:      id,
		storage: st,
		logger:  logger.WithField("session", id),
	}
	s.store = state.New(st, state.WithKey(cfg.Session.Key), state.WithLogger(s.logger))

	if fs, ok := st.(*storage.File); ok && cfg.Session.Watch {
		debounce := time.Duration(cfg.Session.DebounceMs) * time.Millisecond
		w, err := state.NewWatcher(s.store, fs.PathFor(s.store.Key()), debounce)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithCancel(context.Background())
		s.watcher = w
		s.cancel = cancel
		go w.Start(ctx)
		s.logger.WithField("dir", fs.Dir()).Debug("Watching snapshot for external changes")
	}

	s.logger.WithField("cart", s.store.CartCount()).Debug("Session opened")
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Store returns the session's persisted store.
func (s *Session) Store() *state.Store {
	return s.store
}

// State returns a copy of the current session state.
func (s *Session) State() models.SessionState {
	return s.store.State()
}

// RecordRoute records an observed navigation. It is not coordinated with any
// other field.
func (s *Session) RecordRoute(path string) {
	s.store.SetCurrentRoute(path)
}

// SignOut clears the user and the cart. The catalog and the route are kept.
func (s *Session) SignOut() {
	s.store.SetUser(nil)
	s.store.ClearCart()
	s.logger.Info("Signed out")
}

// Reset discards everything and returns the session to its initial state.
func (s *Session) Reset() {
	s.store.Reset()
	s.logger.Info("Session reset")
}

// Close stops the watcher, drops store observers and releases the storage.
// The durable record is kept for the next activation.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.cancel != nil {
		s.cancel()
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.store.Close()
	return s.storage.Close()
}
