package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/storefront/internal/product"
	"github.com/dshills/storefront/pkg/types"
)

type fixture struct {
	macbook  *product.Standard
	iphone   *product.Standard
	shipping *product.PerOrderLimited
	windows  *product.Unlimited
	catalog  *Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	macbook, err := product.NewStandard("MacBook", 1000, 5)
	require.NoError(t, err)
	iphone, err := product.NewStandard("iPhone", 800, 10)
	require.NoError(t, err)
	shipping, err := product.NewPerOrderLimited("Shipping", 10, 5, 1)
	require.NoError(t, err)
	windows, err := product.NewUnlimited("Windows License", 125)
	require.NoError(t, err)

	return &fixture{
		macbook:  macbook,
		iphone:   iphone,
		shipping: shipping,
		windows:  windows,
		catalog:  New([]product.Product{macbook, iphone, shipping, windows}),
	}
}

func names(products []product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name()
	}
	return out
}

func TestNew_CopiesInput(t *testing.T) {
	f := newFixture(t)
	input := []product.Product{f.macbook}
	c := New(input)
	input[0] = f.iphone

	p, ok := c.Find("MacBook")
	require.True(t, ok)
	assert.Same(t, f.macbook, p)
}

func TestAdd(t *testing.T) {
	f := newFixture(t)
	ipad, err := product.NewStandard("iPad", 500, 3)
	require.NoError(t, err)

	f.catalog.Add(ipad)

	assert.True(t, f.catalog.Contains("iPad"))
	assert.Equal(t, 5, f.catalog.Len())
}

func TestAdd_DuplicateNameFirstMatchWins(t *testing.T) {
	f := newFixture(t)
	second, err := product.NewStandard("MacBook", 1, 1)
	require.NoError(t, err)

	f.catalog.Add(second)

	assert.Equal(t, 5, f.catalog.Len())
	p, ok := f.catalog.Find("MacBook")
	require.True(t, ok)
	assert.Same(t, f.macbook, p)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)

	removed := f.catalog.Remove("MacBook")

	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, f.catalog.Len())
	assert.False(t, f.catalog.Contains("MacBook"))
	assert.Equal(t, []string{"iPhone", "Shipping", "Windows License"}, names(f.catalog.Active()))
}

func TestRemove_AllMatches(t *testing.T) {
	f := newFixture(t)
	dup, err := product.NewStandard("MacBook", 1, 1)
	require.NoError(t, err)
	f.catalog.Add(dup)

	assert.Equal(t, 2, f.catalog.Remove("MacBook"))
	assert.False(t, f.catalog.Contains("MacBook"))
}

func TestRemove_Absent(t *testing.T) {
	f := newFixture(t)

	assert.Zero(t, f.catalog.Remove("Nintendo Switch"))
	assert.Equal(t, 4, f.catalog.Len())
}

func TestTotalStock(t *testing.T) {
	f := newFixture(t)

	// 5 + 10 + 5 + 0
	assert.Equal(t, 20, f.catalog.TotalStock())

	ipad, err := product.NewStandard("iPad", 500, 3)
	require.NoError(t, err)
	f.catalog.Add(ipad)
	assert.Equal(t, 23, f.catalog.TotalStock())
}

func TestActive_ReflectsCurrentState(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"MacBook", "iPhone", "Shipping", "Windows License"}, names(f.catalog.Active()))

	require.NoError(t, f.iphone.SetStock(0))
	assert.Equal(t, []string{"MacBook", "Shipping", "Windows License"}, names(f.catalog.Active()))

	require.NoError(t, f.iphone.SetStock(2))
	assert.Equal(t, []string{"MacBook", "iPhone", "Shipping", "Windows License"}, names(f.catalog.Active()))
}

func TestListing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.iphone.SetStock(0))

	assert.Equal(t, []string{
		"MacBook, Price: $1000, Quantity: 5",
		"Shipping, Price: $10, Quantity: 5, Limited to 1 per order",
		"Windows License, Price: $125, Quantity: Unlimited",
	}, f.catalog.Listing())
}

func TestAll(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.iphone.SetStock(0))

	var seen []string
	for p := range f.catalog.All() {
		seen = append(seen, p.Name())
	}
	assert.Equal(t, []string{"MacBook", "iPhone", "Shipping", "Windows License"}, seen)

	// Early break stops iteration
	count := 0
	for range f.catalog.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestContains(t *testing.T) {
	f := newFixture(t)
	pixel, err := product.NewPerOrderLimited("Google Pixel 7", 500, 250, 1)
	require.NoError(t, err)

	assert.True(t, f.catalog.Contains(f.macbook.Name()))
	assert.False(t, f.catalog.Contains(pixel.Name()))
}

func TestMerge(t *testing.T) {
	mac, err := product.NewStandard("MacBook Air M2", 1450, 100)
	require.NoError(t, err)
	bose, err := product.NewStandard("Bose QuietComfort Earbuds", 250, 500)
	require.NoError(t, err)
	pixel, err := product.NewPerOrderLimited("Google Pixel 7", 500, 250, 1)
	require.NoError(t, err)
	windows, err := product.NewUnlimited("Windows License", 125)
	require.NoError(t, err)

	bestBuy := New([]product.Product{mac, bose})
	other := New([]product.Product{pixel, windows})

	combined := bestBuy.Merge(other)

	assert.Equal(t, []string{"MacBook Air M2", "Bose QuietComfort Earbuds", "Google Pixel 7", "Windows License"},
		names(combined.Active()))
	assert.Equal(t, 2, bestBuy.Len())
	assert.Equal(t, 2, other.Len())

	// Instances are shared
	_, err = combined.Order([]types.LineItem{{Name: "MacBook Air M2", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 99, mac.Stock())
}

func TestItem(t *testing.T) {
	f := newFixture(t)
	item := Item(f.shipping, 3)
	assert.Equal(t, "Shipping", item.Name)
	assert.Equal(t, 3, item.Quantity)
}
