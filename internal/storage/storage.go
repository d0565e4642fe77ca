package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/storefront/pkg/types"
)

// Journal records the outcome of every order the store processes. It is an
// audit log: inventory itself is never read back from it.
type Journal interface {
	// Committed orders
	RecordOrder(ctx context.Context, receipt *types.Receipt) error
	GetOrder(ctx context.Context, orderID string) (*types.Receipt, error)
	ListOrders(ctx context.Context, limit int) ([]*types.Receipt, error)

	// Rejected orders
	RecordRejection(ctx context.Context, rejection *Rejection) error
	ListRejections(ctx context.Context, limit int) ([]*Rejection, error)

	// Aggregates
	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}

// Rejection is an order that failed validation and changed nothing
type Rejection struct {
	ID         string
	Kind       types.ErrorKind
	Product    string // Empty when the failure names no product
	Message    string
	RejectedAt time.Time
}

// NewRejection builds a rejection record from an order error. Errors that
// carry no domain kind are recorded as invalid arguments.
func NewRejection(id string, err error, at time.Time) *Rejection {
	r := &Rejection{
		ID:         id,
		Kind:       types.KindInvalidArgument,
		Message:    err.Error(),
		RejectedAt: at,
	}

	var domainErr *types.Error
	if errors.As(err, &domainErr) {
		r.Kind = domainErr.Kind
		r.Product = domainErr.Product
	}
	return r
}

// Stats summarizes the journal
type Stats struct {
	Orders           int
	UnitsSold        int
	Revenue          float64
	Rejections       int
	RejectionsByKind map[types.ErrorKind]int
	LastOrderAt      time.Time // Zero when no order was recorded
}

// DefaultListLimit caps list queries that pass a non-positive limit
const DefaultListLimit = 20
