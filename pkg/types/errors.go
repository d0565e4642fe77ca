package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure of a catalog or product operation
type ErrorKind string

const (
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindLimitExceeded     ErrorKind = "limit_exceeded"
	KindProductNotFound   ErrorKind = "product_not_found"
)

// Domain errors, one per kind. Match with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLimitExceeded     = errors.New("per-order limit exceeded")
	ErrProductNotFound   = errors.New("product not found")
)

// Error is a domain failure carrying its kind and the product it concerns
type Error struct {
	Kind    ErrorKind
	Product string // Empty for failures not tied to a product
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel error for e's kind
func (e *Error) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// Sentinel returns the package-level error matching the kind
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindInsufficientStock:
		return ErrInsufficientStock
	case KindLimitExceeded:
		return ErrLimitExceeded
	case KindProductNotFound:
		return ErrProductNotFound
	default:
		return nil
	}
}

// KindOf extracts the error kind from err, if err wraps a *Error
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// NewInvalidArgument creates an INVALID_ARGUMENT error
func NewInvalidArgument(product, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Product: product, Message: fmt.Sprintf(format, args...)}
}

// NewInsufficientStock creates an INSUFFICIENT_STOCK error
func NewInsufficientStock(product string, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Product: product,
		Message: fmt.Sprintf("Not enough %s in stock! only %d left.", product, available),
	}
}

// NewLimitExceeded creates a LIMIT_EXCEEDED error
func NewLimitExceeded(product string, maximum int) *Error {
	return &Error{
		Kind:    KindLimitExceeded,
		Product: product,
		Message: fmt.Sprintf("Cannot buy more than %d of %s in one order", maximum, product),
	}
}

// NewProductNotFound creates a PRODUCT_NOT_FOUND error
func NewProductNotFound(product string) *Error {
	return &Error{
		Kind:    KindProductNotFound,
		Product: product,
		Message: fmt.Sprintf("Product %s not found in store", product),
	}
}
