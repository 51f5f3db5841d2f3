package session

import (
	"fmt"

	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/sirupsen/logrus"
)

// DefaultCatalog is the sample catalog the shell loads on its home page.
func DefaultCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Laptop Pro", Price: 1299.99, Description: "High-performance laptop for professionals", Image: "https://via.placeholder.com/300x200"},
		{ID: "2", Name: "Wireless Headphones", Price: 199.99, Description: "Premium noise-canceling headphones", Image: "https://via.placeholder.com/300x200"},
		{ID: "3", Name: "Smart Watch", Price: 299.99, Description: "Advanced fitness tracking smartwatch", Image: "https://via.placeholder.com/300x200"},
		{ID: "4", Name: "Tablet", Price: 499.99, Description: "Lightweight tablet for productivity", Image: "https://via.placeholder.com/300x200"},
	}
}

// Catalog is the embedded application that lists products and fills the cart.
type Catalog struct {
	session *Session
	parent  bridge.Endpoint
	logger  *logrus.Entry
}

// NewCatalog creates a Catalog that reports to the host through parent.
func NewCatalog(s *Session, parent bridge.Endpoint) *Catalog {
	return &Catalog{
		session: s,
		parent:  parent,
		logger:  s.logger.WithField("app", "catalog"),
	}
}

// Products returns the current catalog.
func (c *Catalog) Products() []models.Product {
	return c.session.State().Products
}

// AddToCart appends p to the cart and tells the host the new line count.
func (c *Catalog) AddToCart(p models.Product) {
	store := c.session.Store()
	store.AddToCart(p)
	count := store.CartCount()
	c.logger.WithFields(logrus.Fields{"product": p.ID, "cart": count}).Debug("Added to cart")
	c.parent.Notify(bridge.CartUpdated{CartCount: count})
}

// AddToCartByID looks id up in the catalog and adds it.
func (c *Catalog) AddToCartByID(id string) (models.Product, error) {
	for _, p := range c.Products() {
		if p.ID == id {
			c.AddToCart(p)
			return p, nil
		}
	}
	return models.Product{}, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("no product with id '%s'", id)).
		WithDetail("id", id)
}

// RequestCheckout asks the host to show the checkout.
func (c *Catalog) RequestCheckout() {
	c.parent.Notify(bridge.Navigate{Path: RouteCheckout})
}

// GoHome asks the host to show its home page.
func (c *Catalog) GoHome() {
	c.parent.Notify(bridge.Navigate{Path: RouteHome})
}
