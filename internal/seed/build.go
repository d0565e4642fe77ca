package seed

import (
	"github.com/dshills/storefront/internal/catalog"
	"github.com/dshills/storefront/internal/product"
	"github.com/dshills/storefront/internal/promotion"
	"github.com/dshills/storefront/pkg/types"
)

// Registry holds named promotion instances. One instance is shared by every
// product that refers to its name.
type Registry struct {
	byName map[string]promotion.Promotion
	order  []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]promotion.Promotion)}
}

// Register adds p under its name. Names must be unique.
func (r *Registry) Register(p promotion.Promotion) error {
	if p.Name() == "" {
		return types.NewInvalidArgument("", "promotion name cannot be empty")
	}
	if _, exists := r.byName[p.Name()]; exists {
		return types.NewInvalidArgument("", "duplicate promotion %q", p.Name())
	}
	r.byName[p.Name()] = p
	r.order = append(r.order, p.Name())
	return nil
}

// Lookup returns the promotion registered under name
func (r *Registry) Lookup(name string) (promotion.Promotion, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered names in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Build turns the seed into a catalog and the registry of its promotions
func (f *File) Build(opts ...catalog.Option) (*catalog.Catalog, *Registry, error) {
	registry := NewRegistry()
	for _, spec := range f.Promotions {
		p, err := NewPromotion(spec)
		if err != nil {
			return nil, nil, err
		}
		if err := registry.Register(p); err != nil {
			return nil, nil, err
		}
	}

	products := make([]product.Product, 0, len(f.Products))
	for _, spec := range f.Products {
		p, err := NewProduct(spec, registry)
		if err != nil {
			return nil, nil, err
		}
		products = append(products, p)
	}

	return catalog.New(products, opts...), registry, nil
}

// NewPromotion creates the promotion a spec describes
func NewPromotion(spec PromotionSpec) (promotion.Promotion, error) {
	var (
		p   promotion.Promotion
		err error
	)

	switch spec.Kind {
	case PromotionPercentageOff:
		p, err = promotion.NewPercentageOff(spec.Name, spec.Percent)
	case PromotionEveryNthHalfPrice:
		p, err = promotion.NewEveryNthHalfPrice(spec.Name, spec.N)
	case PromotionEveryNthFree:
		p, err = promotion.NewEveryNthFree(spec.Name, spec.N)
	default:
		return nil, types.NewInvalidArgument("", "unknown promotion kind %q for %q", spec.Kind, spec.Name)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// NewProduct creates the product a spec describes, attaching its promotion
// from registry
func NewProduct(spec ProductSpec, registry *Registry) (product.Product, error) {
	var (
		p   product.Product
		err error
	)

	switch product.Kind(spec.Kind) {
	case product.KindStandard:
		p, err = product.NewStandard(spec.Name, spec.Price, spec.Stock)
	case product.KindUnlimited:
		p, err = product.NewUnlimited(spec.Name, spec.Price)
	case product.KindPerOrderLimited:
		p, err = product.NewPerOrderLimited(spec.Name, spec.Price, spec.Stock, spec.Maximum)
	default:
		return nil, types.NewInvalidArgument(spec.Name, "unknown product kind %q for %q", spec.Kind, spec.Name)
	}
	if err != nil {
		return nil, err
	}

	if spec.Promotion != "" {
		promo, ok := registry.Lookup(spec.Promotion)
		if !ok {
			return nil, types.NewInvalidArgument(spec.Name, "product %q refers to unknown promotion %q", spec.Name, spec.Promotion)
		}
		p.SetPromotion(promo)
	}

	return p, nil
}
