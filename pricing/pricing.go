// Package pricing holds the pure value computations shared by the cart store
// and the checkout pipeline. Both sides must agree on this arithmetic: the
// server recomputes every price from the live promotion window and rejects
// whatever the client submitted.
package pricing

import "time"

// Promotion is the time-boxed percentage discount embedded on a product.
type Promotion struct {
	IsFeatured      bool
	DiscountPercent float64
	DiscountStartAt *time.Time
	DiscountEndAt   *time.Time
}

// Quote is the resolved price a buyer actually pays for one unit.
type Quote struct {
	FinalPrice float64
	IsOnSale   bool
}

// ResolvePrice resolves the effective unit price for basePrice under promo at
// the given instant. Outside the promotion window (not featured, zero
// percent, before start, after end) the base price stands.
func ResolvePrice(basePrice float64, promo Promotion, now time.Time) Quote {
	if !promo.IsFeatured || promo.DiscountPercent <= 0 {
		return Quote{FinalPrice: basePrice}
	}
	if promo.DiscountStartAt != nil && now.Before(*promo.DiscountStartAt) {
		return Quote{FinalPrice: basePrice}
	}
	if promo.DiscountEndAt != nil && now.After(*promo.DiscountEndAt) {
		return Quote{FinalPrice: basePrice}
	}
	return Quote{
		FinalPrice: basePrice * (1 - promo.DiscountPercent/100),
		IsOnSale:   true,
	}
}
