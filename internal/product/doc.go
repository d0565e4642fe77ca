// Package product implements the purchasable catalog entries.
//
// Three variants share one Product interface:
//
//	Standard         // tracks stock; active while stock > 0
//	Unlimited        // no stock (licenses, services); always active
//	PerOrderLimited  // tracks stock and caps the quantity of one order line
//
// # Purchasing
//
// Check answers "could this quantity be bought now?" without touching state.
// Purchase runs the same checks, then deducts stock and prices the units:
//
//	shipping, _ := product.NewPerOrderLimited("Shipping", 10, 250, 1)
//	total, err := shipping.Purchase(2)
//	// err: Cannot buy more than 1 of Shipping in one order (types.KindLimitExceeded)
//
// Every variant rejects a quantity <= 0 with types.KindInvalidArgument before
// any other rule. A PerOrderLimited product checks its limit before its stock.
//
// # Pricing
//
// Without a promotion a purchase costs price × quantity. With one, the
// promotion prices the whole line:
//
//	mac.SetPromotion(promotion.NewSecondHalfPrice("Second Half price!"))
//	total, _ := mac.Purchase(2) // 1.5 × price
//
// # Display
//
// String renders the listing line, e.g.
//
//	MacBook Air M2, Price: $1450, Quantity: 100, Promotion: Second Half price!
//	Windows License, Price: $125, Quantity: Unlimited, Promotion: 30% off!
//	Shipping, Price: $10, Quantity: 250, Limited to 1 per order
package product
