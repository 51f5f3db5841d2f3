// Package state holds the persisted, observable session state shared by every
// application of one session.
//
// A Store owns one SessionState. Every mutation first picks up any newer
// record another process wrote, is applied in memory, written to durable
// storage under a fixed key, and then announced to observers, all before the
// call returns. Persistence faults never reach callers: a record
// that cannot be decoded is discarded and the session starts empty, and a
// state that cannot be encoded is kept in memory only.
package state

import (
	"bytes"
	"reflect"
	"sync"

	"github.com/grovetools/sessionsync/config"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/logging"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/grovetools/sessionsync/pkg/storage"
	"github.com/sirupsen/logrus"
)

// Op names the mutation that produced an Update.
type Op string

const (
	OpRehydrate       Op = "rehydrate"
	OpSetProducts     Op = "set_products"
	OpAddToCart       Op = "add_to_cart"
	OpRemoveFromCart  Op = "remove_from_cart"
	OpClearCart       Op = "clear_cart"
	OpSetUser         Op = "set_user"
	OpSetCurrentRoute Op = "set_current_route"
	OpReload          Op = "reload"
	OpReset           Op = "reset"
)

// Update is delivered to observers after each mutation.
type Update struct {
	Op    Op
	State models.SessionState
}

// Observer is called synchronously after every mutation.
type Observer func(Update)

type observer struct {
	id int
	fn Observer
}

// Store is the single source of truth for one session.
type Store struct {
	mu        sync.Mutex
	state     models.SessionState
	storage   storage.Storage
	key       string
	logger    *logrus.Entry
	observers []observer
	nextID    int

	// synced is the record this Store last read or wrote.
	synced []byte
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the durable record key. Defaults to "mfe-global-state".
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store backed by st and rehydrates it from the durable record.
// A missing record yields the initial state; a corrupt one is discarded.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     config.DefaultSessionKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("store")
	}
	s.logger = s.logger.WithField("key", s.key)

	s.mu.Lock()
	s.state = s.rehydrate()
	s.mu.Unlock()
	return s
}

// Key returns the durable record key.
func (s *Store) Key() string {
	return s.key
}

// State returns a deep copy of the current session state.
func (s *Store) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CartCount returns the number of cart lines.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Cart)
}

// SetProducts replaces the catalog wholesale. Input is not validated.
func (s *Store) SetProducts(products []models.Product) {
	list := make([]models.Product, len(products))
	copy(list, products)
	if models.HasNegativePrice(list) {
		s.logger.Warn("Catalog contains negative prices; accepting as given")
	}
	s.mutate(OpSetProducts, func(st *models.SessionState) {
		st.Products = list
	})
}

// AddToCart appends a copy of product to the cart. Duplicates are kept.
func (s *Store) AddToCart(product models.Product) {
	s.mutate(OpAddToCart, func(st *models.SessionState) {
		st.Cart = append(st.Cart, product)
	})
}

// RemoveFromCart removes every cart line whose id matches.
func (s *Store) RemoveFromCart(id string) {
	s.mutate(OpRemoveFromCart, func(st *models.SessionState) {
		kept := make([]models.CartLine, 0, len(st.Cart))
		for _, line := range st.Cart {
			if line.ID != id {
				kept = append(kept, line)
			}
		}
		st.Cart = kept
	})
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mutate(OpClearCart, func(st *models.SessionState) {
		st.Cart = []models.CartLine{}
	})
}

// SetUser replaces the signed-in user. nil signs the user out.
func (s *Store) SetUser(user *models.User) {
	var u *models.User
	if user != nil {
		copied := *user
		u = &copied
	}
	s.mutate(OpSetUser, func(st *models.SessionState) {
		st.User = u
	})
}

// SetCurrentRoute records the last observed path.
func (s *Store) SetCurrentRoute(path string) {
	s.mutate(OpSetCurrentRoute, func(st *models.SessionState) {
		st.CurrentRoute = path
	})
}

// Reset replaces the whole state with the initial state.
func (s *Store) Reset() {
	s.mutate(OpReset, func(st *models.SessionState) {
		*st = models.NewSessionState()
	})
}

// Reload re-reads the durable record, which another process may have
// rewritten. A missing or corrupt record leaves the in-memory state as is.
// Observers are notified only when the state actually changed.
func (s *Store) Reload() bool {
	s.mu.Lock()
	if !s.syncLocked() {
		s.mu.Unlock()
		return false
	}
	observers := s.snapshotObservers()
	update := Update{Op: OpReload, State: s.state.Clone()}
	s.mu.Unlock()

	s.logger.Debug("Reloaded state from snapshot")
	notify(observers, update)
	return true
}

// syncLocked adopts the durable record when it differs from the one this
// Store last read or wrote. It reports whether the in-memory state changed.
func (s *Store) syncLocked() bool {
	data, ok, err := s.storage.GetItem(s.key)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read snapshot; keeping in-memory state")
		return false
	}
	if !ok || bytes.Equal(data, s.synced) {
		return false
	}
	next, err := Decode(data)
	if err != nil {
		s.logger.WithError(errors.SnapshotDecode(s.key, err)).Warn("Ignoring unreadable snapshot; keeping in-memory state")
		return false
	}
	s.synced = data
	if reflect.DeepEqual(s.state, next) {
		return false
	}
	s.state = next
	return true
}

// Subscribe registers fn to run after every mutation. The returned function
// unregisters it; calling it more than once is harmless.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Close drops all observers. The durable record is left in place.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = nil
}

// mutate applies fn on top of the latest durable record, persists the result
// and notifies observers. Read and write happen under the lock so the durable
// record follows call order.
func (s *Store) mutate(op Op, fn func(*models.SessionState)) {
	s.mu.Lock()
	s.syncLocked()
	fn(&s.state)
	s.persistLocked()
	observers := s.snapshotObservers()
	var update Update
	if len(observers) > 0 {
		update = Update{Op: op, State: s.state.Clone()}
	}
	s.mu.Unlock()

	notify(observers, update)
}

func (s *Store) persistLocked() {
	data, err := Encode(s.state)
	if err != nil {
		s.logger.WithError(errors.SnapshotEncode(s.key, err)).Error("State not persisted")
		return
	}
	if err := s.storage.SetItem(s.key, data); err != nil {
		s.logger.WithError(err).Error("State not persisted")
		return
	}
	s.synced = data
}

func (s *Store) snapshotObservers() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(s.observers))
	for i, o := range s.observers {
		out[i] = o.fn
	}
	return out
}

func notify(observers []Observer, update Update) {
	for _, fn := range observers {
		fn(update)
	}
}

func (s *Store) rehydrate() models.SessionState {
	data, ok, err := s.storage.GetItem(s.key)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read snapshot; starting with empty state")
		return models.NewSessionState()
	}
	if !ok {
		s.logger.Debug("No snapshot found; starting with empty state")
		return models.NewSessionState()
	}

	st, err := Decode(data)
	if err != nil {
		s.logger.WithError(errors.SnapshotDecode(s.key, err)).Warn("Discarding corrupt snapshot; starting with empty state")
		if err := s.storage.RemoveItem(s.key); err != nil {
			s.logger.WithError(err).Warn("Failed to remove corrupt snapshot")
		}
		return models.NewSessionState()
	}

	s.synced = data
	s.logger.WithFields(logrus.Fields{
		"products": len(st.Products),
		"cart":     len(st.Cart),
	}).Debug("Rehydrated state from snapshot")
	return st
}
