// Package catalog holds the store's products and runs the order transaction.
//
// # Basic Usage
//
//	mac, _ := product.NewStandard("MacBook", 1000, 5)
//	shipping, _ := product.NewPerOrderLimited("Shipping", 10, 5, 1)
//	store := catalog.New([]product.Product{mac, shipping})
//
//	total, err := store.Order([]types.LineItem{
//	    catalog.Item(mac, 2),
//	    catalog.Item(shipping, 1),
//	})
//	// total == 2010, mac stock 3, shipping stock 4
//
// # Order Transaction
//
// An order runs in two phases over a working set built from the shopping list:
//
//  1. Resolve and validate: every line is matched by name to the catalog's own
//     product (ProductNotFound on a miss), repeated names collapse with the last
//     quantity winning, and every line is checked with Product.Check. Nothing is
//     modified in this phase.
//  2. Commit: only when every line passed, each line is purchased in shopping-list
//     order and the amounts are summed.
//
// A failed order leaves stock and active flags exactly as they were:
//
//	_, err := store.Order([]types.LineItem{
//	    catalog.Item(mac, 2),
//	    catalog.Item(shipping, 2), // over the per-order maximum
//	})
//	// errors.Is(err, types.ErrLimitExceeded); mac stock still 5
//
// # Concurrency
//
// A Catalog has no internal locking. Hosts that share one across goroutines
// must hold a lock for the whole of each call, as internal/mcp does.
package catalog
