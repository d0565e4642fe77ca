package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		sentinel error
	}{
		{"invalid argument", NewInvalidArgument("MacBook", "bad %s", "input"), ErrInvalidArgument},
		{"insufficient stock", NewInsufficientStock("MacBook", 3), ErrInsufficientStock},
		{"limit exceeded", NewLimitExceeded("Shipping", 1), ErrLimitExceeded},
		{"not found", NewProductNotFound("Nintendo Switch"), ErrProductNotFound},
	}

	sentinels := []error{ErrInvalidArgument, ErrInsufficientStock, ErrLimitExceeded, ErrProductNotFound}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range sentinels {
				assert.Equal(t, s == tt.sentinel, errors.Is(tt.err, s), "errors.Is(%v, %v)", tt.err, s)
			}

			wrapped := fmt.Errorf("place order: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, "Not enough MacBook in stock! only 5 left.", NewInsufficientStock("MacBook", 5).Error())
	assert.Equal(t, "Cannot buy more than 1 of Shipping in one order", NewLimitExceeded("Shipping", 1).Error())
	assert.Equal(t, "Product Nintendo Switch not found in store", NewProductNotFound("Nintendo Switch").Error())
	assert.Equal(t, "quantity must be positive, got -2", NewInvalidArgument("", "quantity must be positive, got %d", -2).Error())
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("wrapped: %w", NewLimitExceeded("Shipping", 1)))
	assert.True(t, ok)
	assert.Equal(t, KindLimitExceeded, kind)

	kind, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.Empty(t, kind)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestErrorKind_Sentinel(t *testing.T) {
	assert.Equal(t, ErrProductNotFound, KindProductNotFound.Sentinel())
	assert.Nil(t, ErrorKind("unknown").Sentinel())
}

func TestError_ProductField(t *testing.T) {
	err := NewInsufficientStock("iPhone", 0)
	assert.Equal(t, "iPhone", err.Product)
	assert.Equal(t, KindInsufficientStock, err.Kind)
}
