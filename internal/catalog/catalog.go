package catalog

import (
	"iter"

	"go.uber.org/zap"

	"github.com/dshills/storefront/internal/product"
	"github.com/dshills/storefront/pkg/types"
)

// Catalog owns an ordered collection of products and runs orders against it.
// It does no locking: callers sharing a catalog across goroutines must
// serialize access to it.
type Catalog struct {
	products []product.Product
	logger   *zap.Logger
	newID    func() string
}

// Option configures a Catalog
type Option func(*Catalog)

// WithLogger sets the logger used for order outcomes
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator replaces the receipt ID generator (UUIDv4 by default)
func WithIDGenerator(newID func() string) Option {
	return func(c *Catalog) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// New creates a catalog holding products in the given order
func New(products []product.Product, opts ...Option) *Catalog {
	c := &Catalog{
		products: make([]product.Product, 0, len(products)),
		logger:   zap.NewNop(),
		newID:    newReceiptID,
	}
	c.products = append(c.products, products...)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a product. Duplicate names are not rejected; lookups return
// the first match.
func (c *Catalog) Add(p product.Product) {
	c.products = append(c.products, p)
}

// Remove deletes every product named name and returns how many were removed
func (c *Catalog) Remove(name string) int {
	kept := c.products[:0]
	for _, p := range c.products {
		if p.Name() != name {
			kept = append(kept, p)
		}
	}
	removed := len(c.products) - len(kept)
	clear(c.products[len(kept):])
	c.products = kept
	return removed
}

// Find returns the first product named name
func (c *Catalog) Find(name string) (product.Product, bool) {
	for _, p := range c.products {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Contains reports whether a product named name is in the catalog
func (c *Catalog) Contains(name string) bool {
	_, ok := c.Find(name)
	return ok
}

// Len returns the number of products, active or not
func (c *Catalog) Len() int {
	return len(c.products)
}

// TotalStock sums the stock of every product. Unlimited products add 0.
func (c *Catalog) TotalStock() int {
	total := 0
	for _, p := range c.products {
		total += p.Stock()
	}
	return total
}

// Active returns the active products in insertion order, evaluated now
func (c *Catalog) Active() []product.Product {
	active := make([]product.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// Listing returns the display line of every active product
func (c *Catalog) Listing() []string {
	active := c.Active()
	lines := make([]string, len(active))
	for i, p := range active {
		lines[i] = p.String()
	}
	return lines
}

// All iterates over every product in insertion order
func (c *Catalog) All() iter.Seq[product.Product] {
	return func(yield func(product.Product) bool) {
		for _, p := range c.products {
			if !yield(p) {
				return
			}
		}
	}
}

// Merge returns a new catalog holding c's products followed by other's.
// Product instances are shared, not copied.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := New(c.products, WithLogger(c.logger), WithIDGenerator(c.newID))
	merged.products = append(merged.products, other.products...)
	return merged
}

// Named is anything that can stand in for a product in a shopping list
type Named interface {
	Name() string
}

// Item builds a shopping-list line from a product reference. Only the name
// is taken from ref; price and stock always come from the catalog.
func Item(ref Named, quantity int) types.LineItem {
	return types.LineItem{Name: ref.Name(), Quantity: quantity}
}
