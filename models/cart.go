package models

import "time"

// CartItem is a reservation intent held per session, not yet committed.
// UnitPrice captures the discounted price at add-time for display; the server
// recomputes every price at checkout and never trusts this value.
type CartItem struct {
	VariantID         string  `json:"variant_id"`
	ProductID         string  `json:"product_id"`
	Title             string  `json:"title"`
	VariantName       string  `json:"variant_name"`
	UnitPrice         float64 `json:"unit_price"`
	Quantity          int     `json:"quantity"`
	ConsumptionFactor int     `json:"consumption_factor"`
}

// Cart is the persisted reservation state for one session. Pools carries the
// last-known master stock level per product id, shared by every line of that
// product; it is a client-side soft limit refreshed on each add and can be
// stale — checkout re-validates authoritatively.
type Cart struct {
	SessionID string         `json:"session_id"`
	Items     []CartItem     `json:"items"`
	Pools     map[string]int `json:"pools"`
	UpdatedAt time.Time      `json:"updated_at"`
}
