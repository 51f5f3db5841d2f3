package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionState(t *testing.T) {
	s := NewSessionState()

	assert.NotNil(t, s.Products)
	assert.Empty(t, s.Products)
	assert.NotNil(t, s.Cart)
	assert.Empty(t, s.Cart)
	assert.Nil(t, s.User)
	assert.Equal(t, "/", s.CurrentRoute)
}

func TestSessionState_CloneIsDeep(t *testing.T) {
	s := NewSessionState()
	s.Products = []Product{{ID: "1", Name: "Laptop", Price: 999.99}}
	s.Cart = []CartLine{{ID: "1", Name: "Laptop", Price: 999.99}}
	s.User = &User{Name: "Ada", Email: "ada@example.com"}

	c := s.Clone()
	require.Equal(t, s, c)

	c.Products[0].Name = "changed"
	c.Cart = append(c.Cart, CartLine{ID: "2"})
	c.User.Name = "changed"

	assert.Equal(t, "Laptop", s.Products[0].Name)
	assert.Len(t, s.Cart, 1)
	assert.Equal(t, "Ada", s.User.Name)
}

func TestSessionState_Normalize(t *testing.T) {
	var s SessionState
	s.Normalize()

	assert.Equal(t, []Product{}, s.Products)
	assert.Equal(t, []CartLine{}, s.Cart)
	assert.Nil(t, s.User)
	assert.Equal(t, "", s.CurrentRoute, "route is kept as given")
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		cart     []CartLine
		expected CartSummary
	}{
		{
			name:     "empty cart",
			cart:     nil,
			expected: CartSummary{},
		},
		{
			name: "duplicate lines count twice",
			cart: []CartLine{
				{ID: "2", Price: 29.99},
				{ID: "2", Price: 29.99},
			},
			expected: CartSummary{Count: 2, Subtotal: 59.98, Tax: 4.8, GrandTotal: 64.78},
		},
		{
			name: "mixed prices",
			cart: []CartLine{
				{ID: "1", Price: 100},
				{ID: "3", Price: 50},
			},
			expected: CartSummary{Count: 2, Subtotal: 150, Tax: 12, GrandTotal: 162},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Summarize(tt.cart))
		})
	}
}

func TestHasNegativePrice(t *testing.T) {
	assert.False(t, HasNegativePrice(nil))
	assert.False(t, HasNegativePrice([]Product{{ID: "a", Price: 0}}))
	assert.True(t, HasNegativePrice([]Product{{ID: "a", Price: 1}, {ID: "b", Price: -1}}))
}
