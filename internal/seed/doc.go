// Package seed loads the initial store from a YAML document.
//
// A seed names its promotions once and lets products refer to them, so one
// promotion instance is shared by every product that uses it:
//
//	promotions:
//	  - name: Second Half price!
//	    kind: every_nth_half_price
//	    n: 2
//	products:
//	  - name: MacBook Air M2
//	    kind: standard
//	    price: 1450
//	    stock: 100
//	    promotion: Second Half price!
//
// Product kinds are standard, unlimited and per_order_limited. Promotion kinds
// are percentage_off (percent), every_nth_half_price (n) and every_nth_free (n).
//
// Default returns the built-in Best Buy store. Build validates every entry
// with the product and promotion constructors and reports the first failure
// as an invalid-argument error.
package seed
