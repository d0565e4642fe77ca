// Package promotion provides stateless pricing strategies applied at purchase time.
package promotion

import (
	"github.com/dshills/storefront/pkg/types"
)

// Promotion prices a purchase of quantity units at unitPrice.
// Implementations hold only their configured parameters and never mutate,
// so one instance may be shared by any number of products.
type Promotion interface {
	Name() string
	Apply(unitPrice float64, quantity int) float64
}

// PercentageOff discounts every unit by a fixed percentage
type PercentageOff struct {
	name    string
	percent float64
}

// NewPercentageOff creates a percentage discount. percent must be within [0, 100].
func NewPercentageOff(name string, percent float64) (*PercentageOff, error) {
	if !(percent >= 0 && percent <= 100) {
		return nil, types.NewInvalidArgument("", "percent discount must be between 0 and 100, got %g", percent)
	}
	return &PercentageOff{name: name, percent: percent}, nil
}

func (p *PercentageOff) Name() string { return p.name }

// Percent returns the configured discount percentage
func (p *PercentageOff) Percent() float64 { return p.percent }

func (p *PercentageOff) Apply(unitPrice float64, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	return unitPrice * float64(quantity) * (1 - p.percent/100)
}

// EveryNthHalfPrice sells every nth unit at half price.
// With n = 2 the first, third, fifth... units are full price.
type EveryNthHalfPrice struct {
	name string
	n    int
}

// NewEveryNthHalfPrice creates a half-price-on-every-nth-unit promotion (n >= 2)
func NewEveryNthHalfPrice(name string, n int) (*EveryNthHalfPrice, error) {
	if n < 2 {
		return nil, types.NewInvalidArgument("", "every-nth promotion needs n >= 2, got %d", n)
	}
	return &EveryNthHalfPrice{name: name, n: n}, nil
}

// NewSecondHalfPrice creates the "second one half price" promotion
func NewSecondHalfPrice(name string) *EveryNthHalfPrice {
	return &EveryNthHalfPrice{name: name, n: 2}
}

func (p *EveryNthHalfPrice) Name() string { return p.name }

// N returns the discount period
func (p *EveryNthHalfPrice) N() int { return p.n }

func (p *EveryNthHalfPrice) Apply(unitPrice float64, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	half := quantity / p.n
	full := quantity - half
	return float64(full)*unitPrice + float64(half)*unitPrice*0.5
}

// EveryNthFree gives away every nth unit
type EveryNthFree struct {
	name string
	n    int
}

// NewEveryNthFree creates a free-every-nth-unit promotion (n >= 2)
func NewEveryNthFree(name string, n int) (*EveryNthFree, error) {
	if n < 2 {
		return nil, types.NewInvalidArgument("", "every-nth promotion needs n >= 2, got %d", n)
	}
	return &EveryNthFree{name: name, n: n}, nil
}

// NewThirdOneFree creates the "buy two, get the third free" promotion
func NewThirdOneFree(name string) *EveryNthFree {
	return &EveryNthFree{name: name, n: 3}
}

func (p *EveryNthFree) Name() string { return p.name }

// N returns the discount period
func (p *EveryNthFree) N() int { return p.n }

func (p *EveryNthFree) Apply(unitPrice float64, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	paid := quantity - quantity/p.n
	return float64(paid) * unitPrice
}
