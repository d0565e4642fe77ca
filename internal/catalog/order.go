package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/storefront/internal/product"
	"github.com/dshills/storefront/pkg/types"
)

// orderLine is a shopping-list line resolved to the catalog's own product
type orderLine struct {
	product  product.Product
	quantity int
}

// Order places an order and returns its total price.
// See PlaceOrder for the transaction rules.
func (c *Catalog) Order(list []types.LineItem) (float64, error) {
	receipt, err := c.PlaceOrder(list)
	if err != nil {
		return 0, err
	}
	return receipt.Total, nil
}

// PlaceOrder validates every line of list against current inventory and,
// only if all of them pass, commits them and returns the receipt.
//
// Lines naming the same product collapse into one: the last quantity wins
// and the line keeps the position of the name's first occurrence. On any
// error no product is changed.
func (c *Catalog) PlaceOrder(list []types.LineItem) (*types.Receipt, error) {
	lines, err := c.resolve(list)
	if err != nil {
		c.reject(err)
		return nil, err
	}

	for _, line := range lines {
		if err := line.product.Check(line.quantity); err != nil {
			c.reject(err)
			return nil, err
		}
	}

	receipt := &types.Receipt{
		ID:       c.newID(),
		Lines:    make([]types.ReceiptLine, 0, len(lines)),
		PlacedAt: time.Now().UTC(),
	}

	for i, line := range lines {
		amount, err := line.product.Purchase(line.quantity)
		if err != nil {
			// Unreachable unless a variant's Purchase disagrees with its Check
			return nil, fmt.Errorf("commit %s after validation: %w", line.product.Name(), err)
		}

		promo := ""
		if p := line.product.Promotion(); p != nil {
			promo = p.Name()
		}

		receipt.Lines = append(receipt.Lines, types.ReceiptLine{
			Position:  i,
			Product:   line.product.Name(),
			Quantity:  line.quantity,
			Amount:    amount,
			Promotion: promo,
		})
		receipt.Total += amount
	}

	c.logger.Info("order committed",
		zap.String("order_id", receipt.ID),
		zap.Int("lines", len(receipt.Lines)),
		zap.Float64("total", receipt.Total))

	return receipt, nil
}

// resolve maps each line to the catalog's product and collapses repeated names
func (c *Catalog) resolve(list []types.LineItem) ([]orderLine, error) {
	lines := make([]orderLine, 0, len(list))
	index := make(map[string]int, len(list))

	for _, item := range list {
		if i, seen := index[item.Name]; seen {
			lines[i].quantity = item.Quantity
			continue
		}

		p, ok := c.Find(item.Name)
		if !ok {
			return nil, types.NewProductNotFound(item.Name)
		}

		index[item.Name] = len(lines)
		lines = append(lines, orderLine{product: p, quantity: item.Quantity})
	}

	return lines, nil
}

func (c *Catalog) reject(err error) {
	kind, _ := types.KindOf(err)
	fields := []zap.Field{zap.String("kind", string(kind)), zap.Error(err)}
	if e, ok := err.(*types.Error); ok && e.Product != "" {
		fields = append(fields, zap.String("product", e.Product))
	}
	c.logger.Debug("order rejected", fields...)
}

func newReceiptID() string {
	return uuid.NewString()
}
