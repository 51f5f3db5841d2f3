package session

import (
	"regexp"
	"strings"

	"github.com/grovetools/sessionsync/bridge"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Customer is the information collected when placing an order. Only Name
// and Email are kept in the session.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// Validate checks that every field is filled and the email looks valid.
// Field problems are reported as details of an INVALID_INPUT error.
func (c Customer) Validate() error {
	problems := map[string]string{}
	if strings.TrimSpace(c.Name) == "" {
		problems["name"] = "Name is required"
	}
	if !emailPattern.MatchString(c.Email) {
		problems["email"] = "Valid email is required"
	}
	if strings.TrimSpace(c.Address) == "" {
		problems["address"] = "Address is required"
	}
	if strings.TrimSpace(c.City) == "" {
		problems["city"] = "City is required"
	}
	if strings.TrimSpace(c.ZipCode) == "" {
		problems["zipCode"] = "ZIP code is required"
	}
	if len(problems) == 0 {
		return nil
	}

	err := errors.New(errors.ErrCodeInvalidInput, "customer information is incomplete")
	for field, msg := range problems {
		err = err.WithDetail(field, msg)
	}
	return err
}

// Order is the result of a placed order.
type Order struct {
	Customer Customer           `json:"customer"`
	Lines    []models.CartLine  `json:"lines"`
	Summary  models.CartSummary `json:"summary"`
}

// Checkout is the embedded application that reviews the cart and places
// orders.
type Checkout struct {
	session *Session
	parent  bridge.Endpoint
	logger  *logrus.Entry
}

// NewCheckout creates a Checkout that reports to the host through parent.
func NewCheckout(s *Session, parent bridge.Endpoint) *Checkout {
	return &Checkout{
		session: s,
		parent:  parent,
		logger:  s.logger.WithField("app", "checkout"),
	}
}

// Cart returns the current cart lines.
func (c *Checkout) Cart() []models.CartLine {
	return c.session.State().Cart
}

// Summary returns the cart totals including tax.
func (c *Checkout) Summary() models.CartSummary {
	return c.session.State().Summary()
}

// RemoveFromCart removes every line for id.
func (c *Checkout) RemoveFromCart(id string) {
	c.session.Store().RemoveFromCart(id)
}

// ClearCart empties the cart.
func (c *Checkout) ClearCart() {
	c.session.Store().ClearCart()
}

// PlaceOrder validates the customer, records them as the signed-in user,
// clears the cart and tells the host the order is complete.
func (c *Checkout) PlaceOrder(customer Customer) (*Order, error) {
	st := c.session.State()
	if len(st.Cart) == 0 {
		return nil, errors.EmptyCart()
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	order := &Order{
		Customer: customer,
		Lines:    st.Cart,
		Summary:  st.Summary(),
	}

	store := c.session.Store()
	store.SetUser(&models.User{Name: customer.Name, Email: customer.Email})
	store.ClearCart()

	c.logger.WithFields(logrus.Fields{
		"lines": len(order.Lines),
		"total": order.Summary.GrandTotal,
	}).Info("Order placed")
	c.parent.Notify(bridge.OrderCompleted{})
	return order, nil
}

// BrowseProducts asks the host to show the catalog.
func (c *Checkout) BrowseProducts() {
	c.parent.Notify(bridge.Navigate{Path: RouteCatalog})
}
