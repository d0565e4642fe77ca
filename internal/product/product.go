package product

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/storefront/internal/promotion"
	"github.com/dshills/storefront/pkg/types"
)

// Kind identifies the product variant
type Kind string

const (
	KindStandard        Kind = "standard"
	KindUnlimited       Kind = "unlimited"
	KindPerOrderLimited Kind = "per_order_limited"
)

// Product is a purchasable catalog entry. The variant set is closed:
// Standard, Unlimited and PerOrderLimited.
type Product interface {
	Name() string
	Kind() Kind

	Price() float64
	SetPrice(price float64) error

	// Stock reports the units on hand. Unlimited products report 0.
	Stock() int
	SetStock(quantity int) error
	IsActive() bool

	Promotion() promotion.Promotion
	SetPromotion(p promotion.Promotion)

	// Check reports whether quantity could be purchased right now without
	// changing anything.
	Check(quantity int) error

	// Purchase deducts stock and returns the promotion-aware price.
	// A failed purchase leaves the product untouched.
	Purchase(quantity int) (float64, error)

	// String is the human-readable summary shown in listings
	String() string

	sealed()
}

// base holds the state shared by every variant
type base struct {
	name      string
	price     float64
	stock     int
	active    bool
	promotion promotion.Promotion
}

func newBase(name string, price float64, stock int) (base, error) {
	if strings.TrimSpace(name) == "" {
		return base{}, types.NewInvalidArgument("", "product name cannot be empty")
	}
	if err := ValidatePrice(name, price); err != nil {
		return base{}, err
	}
	if stock < 0 {
		return base{}, types.NewInvalidArgument(name, "product quantity cannot be negative")
	}
	return base{name: name, price: price, stock: stock, active: stock > 0}, nil
}

func (b *base) Name() string { return b.name }

func (b *base) Price() float64 { return b.price }

// SetPrice replaces the unit price; negative or non-finite prices are rejected
func (b *base) SetPrice(price float64) error {
	if err := ValidatePrice(b.name, price); err != nil {
		return err
	}
	b.price = price
	return nil
}

// ValidatePrice reports whether price is usable as the unit price of the
// named product. NaN and infinities are rejected along with negative values.
func ValidatePrice(name string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return types.NewInvalidArgument(name, "product price must be a finite number")
	}
	if price < 0 {
		return types.NewInvalidArgument(name, "product price cannot be negative")
	}
	return nil
}

func (b *base) Stock() int { return b.stock }

func (b *base) IsActive() bool { return b.active }

func (b *base) Promotion() promotion.Promotion { return b.promotion }

// SetPromotion assigns the promotion used by later purchases; nil clears it
func (b *base) SetPromotion(p promotion.Promotion) { b.promotion = p }

func (b *base) sealed() {}

// setStock stores a new stock level and recomputes active in the same step
func (b *base) setStock(quantity int) error {
	if quantity < 0 {
		return types.NewInvalidArgument(b.name, "product quantity cannot be negative")
	}
	b.applyStock(quantity)
	return nil
}

// applyStock is setStock without validation. Callers guarantee quantity >= 0.
func (b *base) applyStock(quantity int) {
	b.stock = quantity
	b.active = quantity > 0
}

// checkStock is the shared stock rule for stock-tracking variants
func (b *base) checkStock(quantity int) error {
	if quantity <= 0 {
		return types.NewInvalidArgument(b.name, "quantity to buy must be positive, got %d", quantity)
	}
	if quantity > b.stock {
		return types.NewInsufficientStock(b.name, b.stock)
	}
	return nil
}

// priceFor prices quantity units, through the promotion when one is set
func (b *base) priceFor(quantity int) float64 {
	if b.promotion != nil {
		return b.promotion.Apply(b.price, quantity)
	}
	return b.price * float64(quantity)
}

// summary renders "<name>, Price: $<price>, <quantity field>[, Promotion: <name>]"
func (b *base) summary(quantity string, extra ...string) string {
	var sb strings.Builder
	sb.WriteString(b.name)
	sb.WriteString(", Price: $")
	sb.WriteString(FormatPrice(b.price))
	sb.WriteString(", Quantity: ")
	sb.WriteString(quantity)
	for _, e := range extra {
		sb.WriteString(", ")
		sb.WriteString(e)
	}
	if b.promotion != nil {
		sb.WriteString(", Promotion: ")
		sb.WriteString(b.promotion.Name())
	}
	return sb.String()
}

// FormatPrice renders a price without trailing zeros ("1450", "10.5")
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// ComparePrice orders two products by unit price. It returns -1, 0 or +1
// and can be passed to slices.SortFunc.
func ComparePrice(a, b Product) int {
	return cmp.Compare(a.Price(), b.Price())
}

// Cheaper reports whether a costs less per unit than b
func Cheaper(a, b Product) bool {
	return ComparePrice(a, b) < 0
}
