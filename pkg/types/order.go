package types

import (
	"errors"
	"math"
	"time"
)

// LineItem is one entry of a shopping list. Only the product name is used to
// resolve the catalog's own product instance.
type LineItem struct {
	Name     string
	Quantity int
}

// Receipt describes a committed order
type Receipt struct {
	ID       string
	Lines    []ReceiptLine
	Total    float64
	PlacedAt time.Time
}

// ReceiptLine is the priced outcome of one collapsed shopping-list line
type ReceiptLine struct {
	Position  int // 0-based position in the collapsed shopping list
	Product   string
	Quantity  int
	Amount    float64
	Promotion string // Empty when no promotion applied
}

// Validation errors for receipts
var (
	ErrMissingReceiptID = errors.New("receipt ID is required")
	ErrNegativeTotal    = errors.New("receipt total cannot be negative")
	ErrNonFiniteTotal   = errors.New("receipt amounts must be finite numbers")
	ErrTotalMismatch    = errors.New("receipt total does not match the sum of its lines")
	ErrInvalidLine      = errors.New("receipt line must name a product with a positive quantity")
)

// totalTolerance absorbs float summation order differences
const totalTolerance = 1e-6

// Validate checks if the receipt is internally consistent
func (r *Receipt) Validate() error {
	if r.ID == "" {
		return ErrMissingReceiptID
	}

	if !isFinite(r.Total) {
		return ErrNonFiniteTotal
	}

	if r.Total < 0 {
		return ErrNegativeTotal
	}

	var sum float64
	for _, line := range r.Lines {
		if line.Product == "" || line.Quantity <= 0 {
			return ErrInvalidLine
		}
		if !isFinite(line.Amount) {
			return ErrNonFiniteTotal
		}
		sum += line.Amount
	}

	if !(math.Abs(sum-r.Total) <= totalTolerance) {
		return ErrTotalMismatch
	}

	return nil
}

// Quantity returns the total number of units on the receipt
func (r *Receipt) Quantity() int {
	n := 0
	for _, line := range r.Lines {
		n += line.Quantity
	}
	return n
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
