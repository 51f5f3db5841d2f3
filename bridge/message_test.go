package bridge

import (
	"testing"

	"github.com/grovetools/sessionsync/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"cart updated", CartUpdated{CartCount: 3}, `{"type":"CART_UPDATED","cartCount":3}`},
		{"cart updated zero", CartUpdated{}, `{"type":"CART_UPDATED","cartCount":0}`},
		{"navigate", Navigate{Path: "/checkout"}, `{"type":"NAVIGATE","path":"/checkout"}`},
		{"navigate pointer", &Navigate{Path: "/"}, `{"type":"NAVIGATE","path":"/"}`},
		{"order completed", OrderCompleted{}, `{"type":"ORDER_COMPLETED"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Message
		wantErr errors.ErrorCode
	}{
		{"cart updated", `{"type":"CART_UPDATED","cartCount":2}`, CartUpdated{CartCount: 2}, ""},
		{"navigate", `{"type":"NAVIGATE","path":"/products"}`, Navigate{Path: "/products"}, ""},
		{"order completed", `{"type":"ORDER_COMPLETED"}`, OrderCompleted{}, ""},
		{"extra fields ignored", `{"type":"ORDER_COMPLETED","orderId":"x"}`, OrderCompleted{}, ""},
		{"unknown type", `{"type":"PING"}`, nil, errors.ErrCodeBridgeUnknownType},
		{"missing type", `{"cartCount":1}`, nil, errors.ErrCodeBridgeUnknownType},
		{"not json", `nope`, nil, errors.ErrCodeBridgeDecode},
		{"negative count", `{"type":"CART_UPDATED","cartCount":-1}`, nil, errors.ErrCodeBridgeDecode},
		{"missing count", `{"type":"CART_UPDATED"}`, nil, errors.ErrCodeBridgeDecode},
		{"string count", `{"type":"CART_UPDATED","cartCount":"2"}`, nil, errors.ErrCodeBridgeDecode},
		{"missing path", `{"type":"NAVIGATE"}`, nil, errors.ErrCodeBridgeDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"SOMETHING_ELSE"}`))
	assert.True(t, IsUnknownType(err))

	_, err = Decode([]byte(`{"type":"CART_UPDATED","cartCount":-4}`))
	assert.False(t, IsUnknownType(err))
}

func TestParse(t *testing.T) {
	m, err := Parse("CART_UPDATED", "5")
	require.NoError(t, err)
	assert.Equal(t, CartUpdated{CartCount: 5}, m)

	m, err = Parse("NAVIGATE", "/cart")
	require.NoError(t, err)
	assert.Equal(t, Navigate{Path: "/cart"}, m)

	m, err = Parse("ORDER_COMPLETED", "")
	require.NoError(t, err)
	assert.Equal(t, OrderCompleted{}, m)

	_, err = Parse("CART_UPDATED", "-1")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Parse("NAVIGATE", "")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Parse("BOGUS", "")
	assert.True(t, IsUnknownType(err))
}
