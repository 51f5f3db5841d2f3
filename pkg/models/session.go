package models

// DefaultRoute is the advisory route of a fresh session.
const DefaultRoute = "/"

// User identifies the signed-in customer. A nil *User means nobody is signed in.
type User struct {
	Name  string `json:"name" jsonschema:"required"`
	Email string `json:"email" jsonschema:"required"`
}

// SessionState is the aggregate shared by every application in one session.
type SessionState struct {
	Products []Product  `json:"products" jsonschema:"required"`
	Cart     []CartLine `json:"cartItems" jsonschema:"required"`
	User     *User      `json:"user" jsonschema:"required"`

	// CurrentRoute is the last path observed by the session lifecycle. It is
	// advisory and never authoritative for routing.
	CurrentRoute string `json:"currentRoute" jsonschema:"required"`
}

// NewSessionState returns the empty initial state.
func NewSessionState() SessionState {
	return SessionState{
		Products:     []Product{},
		Cart:         []CartLine{},
		User:         nil,
		CurrentRoute: DefaultRoute,
	}
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (s SessionState) Clone() SessionState {
	out := SessionState{
		Products:     make([]Product, len(s.Products)),
		Cart:         make([]CartLine, len(s.Cart)),
		CurrentRoute: s.CurrentRoute,
	}
	copy(out.Products, s.Products)
	copy(out.Cart, s.Cart)
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// Normalize replaces nil collections with empty ones so decoded and freshly
// built states compare equal. The route is kept as given.
func (s *SessionState) Normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Cart == nil {
		s.Cart = []CartLine{}
	}
}

// CartCount returns the number of cart lines.
func (s SessionState) CartCount() int {
	return len(s.Cart)
}

// Summary computes the cart totals.
func (s SessionState) Summary() CartSummary {
	return Summarize(s.Cart)
}
