// Package types provides shared type definitions for the storefront engine.
//
// This package defines the error kinds reported by products and the catalog,
// shopping-list line items, and the receipts produced by committed orders.
//
// # Error Kinds
//
// Every domain failure is a *Error carrying one of four kinds:
//
//	KindInvalidArgument    // empty name, negative price, bad percent, quantity <= 0
//	KindInsufficientStock  // purchase exceeds available stock
//	KindLimitExceeded      // purchase exceeds the per-order maximum
//	KindProductNotFound    // order references a name absent from the catalog
//
// Callers branch on kind rather than on message text:
//
//	if errors.Is(err, types.ErrLimitExceeded) {
//	    // tell the customer about the per-order maximum
//	}
//
//	kind, ok := types.KindOf(err)
//
// # Receipts
//
// A Receipt lists the priced lines of a committed order. Validate checks that
// the total equals the sum of the line amounts:
//
//	if err := receipt.Validate(); err != nil {
//	    return err
//	}
package types
