// Package bridge carries small typed notifications between a host
// application and the applications embedded in it.
//
// Messages are fire-and-forget. There are no acknowledgements, no retries and
// no ordering guarantees relative to the persisted session state; a message
// sent while nobody listens is lost.
package bridge

import (
	"encoding/json"
	stderrors "errors"

	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/schema"
)

// Type discriminates bridge messages on the wire.
type Type string

const (
	TypeCartUpdated    Type = "CART_UPDATED"
	TypeNavigate       Type = "NAVIGATE"
	TypeOrderCompleted Type = "ORDER_COMPLETED"
)

// ErrUnknownType is the cause of decode errors for unrecognized message types.
// Receivers ignore such messages.
var ErrUnknownType = stderrors.New("unknown message type")

// Message is one of CartUpdated, Navigate or OrderCompleted.
type Message interface {
	Type() Type
}

// CartUpdated announces the cart line count after an add. Display only.
type CartUpdated struct {
	CartCount int `json:"cartCount"`
}

// Navigate asks the host to route to Path.
type Navigate struct {
	Path string `json:"path"`
}

// OrderCompleted announces that an order was placed.
type OrderCompleted struct{}

func (CartUpdated) Type() Type    { return TypeCartUpdated }
func (Navigate) Type() Type       { return TypeNavigate }
func (OrderCompleted) Type() Type { return TypeOrderCompleted }

// wire is the JSON shape shared by all message types.
type wire struct {
	Type      Type    `json:"type"`
	CartCount *int    `json:"cartCount,omitempty"`
	Path      *string `json:"path,omitempty"`
}

// Encode serializes m as a JSON object with a "type" discriminator.
func Encode(m Message) ([]byte, error) {
	w := wire{}
	switch v := m.(type) {
	case CartUpdated:
		w.Type = TypeCartUpdated
		w.CartCount = &v.CartCount
	case *CartUpdated:
		w.Type = TypeCartUpdated
		w.CartCount = &v.CartCount
	case Navigate:
		w.Type = TypeNavigate
		w.Path = &v.Path
	case *Navigate:
		w.Type = TypeNavigate
		w.Path = &v.Path
	case OrderCompleted, *OrderCompleted:
		w.Type = TypeOrderCompleted
	default:
		t := "<nil>"
		if m != nil {
			t = string(m.Type())
		}
		e := errors.UnknownMessageType(t)
		e.Cause = ErrUnknownType
		return nil, e
	}
	return json.Marshal(w)
}

// Decode parses a wire message. Unrecognized types return an error wrapping
// ErrUnknownType; known types with malformed payloads return a BRIDGE_DECODE
// error.
func Decode(data []byte) (Message, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.BridgeDecode(err)
	}

	switch w.Type {
	case TypeCartUpdated, TypeNavigate, TypeOrderCompleted:
	default:
		e := errors.UnknownMessageType(string(w.Type))
		e.Cause = ErrUnknownType
		return nil, e
	}

	if v, err := schema.Bridge(); err == nil {
		if err := v.ValidateJSON(data); err != nil {
			return nil, errors.BridgeDecode(err).WithDetail("type", string(w.Type))
		}
	}

	switch w.Type {
	case TypeCartUpdated:
		if w.CartCount == nil || *w.CartCount < 0 {
			return nil, errors.New(errors.ErrCodeBridgeDecode, "cartCount must be a non-negative integer")
		}
		return CartUpdated{CartCount: *w.CartCount}, nil
	case TypeNavigate:
		if w.Path == nil {
			return nil, errors.New(errors.ErrCodeBridgeDecode, "path is required")
		}
		return Navigate{Path: *w.Path}, nil
	default:
		return OrderCompleted{}, nil
	}
}

// IsUnknownType reports whether err came from an unrecognized message type.
func IsUnknownType(err error) bool {
	return stderrors.Is(err, ErrUnknownType)
}

// Parse builds a message from a type name and a single argument, as typed on
// a command line. CART_UPDATED takes a count, NAVIGATE takes a path.
func Parse(msgType string, arg string) (Message, error) {
	switch Type(msgType) {
	case TypeCartUpdated:
		var n int
		if err := json.Unmarshal([]byte(arg), &n); err != nil || n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "CART_UPDATED needs a non-negative count").
				WithDetail("value", arg)
		}
		return CartUpdated{CartCount: n}, nil
	case TypeNavigate:
		if arg == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "NAVIGATE needs a path")
		}
		return Navigate{Path: arg}, nil
	case TypeOrderCompleted:
		return OrderCompleted{}, nil
	default:
		e := errors.UnknownMessageType(msgType)
		e.Cause = ErrUnknownType
		return nil, e
	}
}
