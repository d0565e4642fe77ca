package product

import (
	"fmt"
	"strconv"

	"github.com/dshills/storefront/pkg/types"
)

var (
	_ Product = (*Standard)(nil)
	_ Product = (*Unlimited)(nil)
	_ Product = (*PerOrderLimited)(nil)
)

// Standard is a stock-tracked product
type Standard struct {
	base
}

// NewStandard creates a stock-tracked product
func NewStandard(name string, price float64, stock int) (*Standard, error) {
	b, err := newBase(name, price, stock)
	if err != nil {
		return nil, err
	}
	return &Standard{base: b}, nil
}

func (p *Standard) Kind() Kind { return KindStandard }

// SetStock replaces the stock level and recomputes active
func (p *Standard) SetStock(quantity int) error { return p.setStock(quantity) }

func (p *Standard) Check(quantity int) error { return p.checkStock(quantity) }

func (p *Standard) Purchase(quantity int) (float64, error) {
	if err := p.Check(quantity); err != nil {
		return 0, err
	}
	total := p.priceFor(quantity)
	p.applyStock(p.stock - quantity)
	return total, nil
}

func (p *Standard) String() string {
	return p.summary(strconv.Itoa(p.stock))
}

// Unlimited is a non-stocked product (licenses, services). It is always
// active and purchases never change its stock.
type Unlimited struct {
	base
}

// NewUnlimited creates a non-stocked product
func NewUnlimited(name string, price float64) (*Unlimited, error) {
	b, err := newBase(name, price, 0)
	if err != nil {
		return nil, err
	}
	b.active = true
	return &Unlimited{base: b}, nil
}

func (p *Unlimited) Kind() Kind { return KindUnlimited }

// SetStock always fails: an unlimited product has no stock to set
func (p *Unlimited) SetStock(quantity int) error {
	return types.NewInvalidArgument(p.name, "cannot set quantity of unlimited product %s", p.name)
}

func (p *Unlimited) Check(quantity int) error {
	if quantity <= 0 {
		return types.NewInvalidArgument(p.name, "quantity to buy must be positive, got %d", quantity)
	}
	return nil
}

func (p *Unlimited) Purchase(quantity int) (float64, error) {
	if err := p.Check(quantity); err != nil {
		return 0, err
	}
	return p.priceFor(quantity), nil
}

func (p *Unlimited) String() string {
	return p.summary("Unlimited")
}

// PerOrderLimited is a stock-tracked product that caps the quantity of a
// single order line. The cap is not a running total across orders.
type PerOrderLimited struct {
	base
	maximum int
}

// NewPerOrderLimited creates a product limited to maximum units per order line
func NewPerOrderLimited(name string, price float64, stock, maximum int) (*PerOrderLimited, error) {
	b, err := newBase(name, price, stock)
	if err != nil {
		return nil, err
	}
	if maximum < 1 {
		return nil, types.NewInvalidArgument(name, "maximum per order must be at least 1, got %d", maximum)
	}
	return &PerOrderLimited{base: b, maximum: maximum}, nil
}

func (p *PerOrderLimited) Kind() Kind { return KindPerOrderLimited }

// Maximum returns the per-order ceiling
func (p *PerOrderLimited) Maximum() int { return p.maximum }

// SetStock replaces the stock level and recomputes active
func (p *PerOrderLimited) SetStock(quantity int) error { return p.setStock(quantity) }

// Check applies the limit before the stock rule, so an over-limit request
// fails with LimitExceeded whatever the stock level is.
func (p *PerOrderLimited) Check(quantity int) error {
	if quantity <= 0 {
		return types.NewInvalidArgument(p.name, "quantity to buy must be positive, got %d", quantity)
	}
	if quantity > p.maximum {
		return types.NewLimitExceeded(p.name, p.maximum)
	}
	return p.checkStock(quantity)
}

func (p *PerOrderLimited) Purchase(quantity int) (float64, error) {
	if err := p.Check(quantity); err != nil {
		return 0, err
	}
	total := p.priceFor(quantity)
	p.applyStock(p.stock - quantity)
	return total, nil
}

func (p *PerOrderLimited) String() string {
	return p.summary(strconv.Itoa(p.stock), fmt.Sprintf("Limited to %d per order", p.maximum))
}
