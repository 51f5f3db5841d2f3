package session

import (
	"sync"

	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/sirupsen/logrus"
)

// Navigator performs a host-side route change.
type Navigator func(path string)

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithHomeCatalog makes the shell load products whenever it shows the home
// page and the catalog is empty.
func WithHomeCatalog(products []models.Product) ShellOption {
	return func(sh *Shell) {
		sh.homeCatalog = products
	}
}

// Shell is the host application. It listens to its embedded applications,
// routes on their behalf and keeps an advisory cart badge.
type Shell struct {
	session     *Session
	children    bridge.Endpoint
	navigate    Navigator
	homeCatalog []models.Product
	logger      *logrus.Entry

	mu    sync.Mutex
	badge int
	route string
	unsub func()
}

// NewShell starts listening on children, the host side of the bridge. The
// badge starts from the persisted cart.
func NewShell(s *Session, children bridge.Endpoint, nav Navigator, opts ...ShellOption) *Shell {
	sh := &Shell{
		session:  s,
		children: children,
		navigate: nav,
		logger:   s.logger.WithField("app", "shell"),
		badge:    s.Store().CartCount(),
		route:    s.State().CurrentRoute,
	}
	for _, opt := range opts {
		opt(sh)
	}
	sh.unsub = children.OnMessage(sh.handle)
	return sh
}

// handle reacts to an embedded application. The sender may have written the
// session from another process, so the store is reloaded first.
func (sh *Shell) handle(m bridge.Message) {
	sh.session.Store().Reload()

	switch msg := m.(type) {
	case bridge.Navigate:
		sh.Navigate(msg.Path)
	case bridge.CartUpdated:
		sh.mu.Lock()
		sh.badge = msg.CartCount
		sh.mu.Unlock()
		sh.logger.WithField("count", msg.CartCount).Debug("Cart badge updated")
	case bridge.OrderCompleted:
		sh.mu.Lock()
		sh.badge = 0
		sh.mu.Unlock()
		sh.logger.Info("Order completed")
		sh.Navigate(RouteHome)
	}
}

// Navigate routes the host to path, records it in the session and hands it
// to the Navigator. Unknown paths land on the home page.
func (sh *Shell) Navigate(path string) {
	route := ResolveRoute(path)
	if route != path {
		sh.logger.WithField("path", path).Debug("Unknown route; redirecting home")
	}

	sh.mu.Lock()
	sh.route = route
	sh.mu.Unlock()

	sh.session.RecordRoute(route)
	if route == RouteHome && len(sh.homeCatalog) > 0 && len(sh.session.State().Products) == 0 {
		sh.session.Store().SetProducts(sh.homeCatalog)
	}
	if sh.navigate != nil {
		sh.navigate(route)
	}
}

// Route returns the route the shell is showing.
func (sh *Shell) Route() string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.route
}

// CartBadge returns the advisory cart count last reported by an embedded
// application.
func (sh *Shell) CartBadge() int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.badge
}

// Close stops listening to embedded applications.
func (sh *Shell) Close() {
	sh.unsub()
}
