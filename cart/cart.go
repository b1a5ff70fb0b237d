// Package cart implements the session-held reservation store. It enforces
// the shared stock-pool limit locally so obviously-invalid adds fail without
// a network round trip; the checkout pipeline still re-validates everything
// against live inventory, because the snapshot here can be stale.
package cart

import (
	"fmt"

	"github.com/odark007/liq-store/models"
	"github.com/odark007/liq-store/pricing"
)

// InsufficientStockError reports a rejected cart mutation. The cart is left
// unchanged; CanAdd / ReduceBy tell the caller how to fit within the pool.
type InsufficientStockError struct {
	InCart    int `json:"in_cart"`   // liquid units of this product already reserved
	Remaining int `json:"remaining"` // uncommitted pool capacity
	CanAdd    int `json:"can_add"`   // max units of the attempted variant that still fit
	ReduceBy  int `json:"reduce_by"` // for quantity updates: units to shave off the request
}

func (e *InsufficientStockError) Error() string {
	if e.ReduceBy > 0 {
		return fmt.Sprintf("stock limit reached: decrease quantity by at least %d", e.ReduceBy)
	}
	return fmt.Sprintf("insufficient stock: %d units already in cart, %d remaining, you can add at most %d of this variant", e.InCart, e.Remaining, e.CanAdd)
}

// ErrInvalidQuantity rejects quantity updates below 1.
var ErrInvalidQuantity = fmt.Errorf("quantity must be at least 1")

var ErrLineNotFound = fmt.Errorf("cart line not found")

func newCart(sessionID string) *models.Cart {
	return &models.Cart{
		SessionID: sessionID,
		Items:     []models.CartItem{},
		Pools:     map[string]int{},
	}
}

func poolLines(items []models.CartItem, productID string) []pricing.PoolLine {
	var lines []pricing.PoolLine
	for _, it := range items {
		if it.ProductID == productID {
			lines = append(lines, pricing.PoolLine{Quantity: it.Quantity, ConsumptionFactor: it.ConsumptionFactor})
		}
	}
	return lines
}

// addLine validates the projected cart and commits only when every line of
// the product still fits in the shared pool. A non-positive incoming pool
// snapshot recovers the cached one, so callers that don't know the pool size
// still get limit checks.
func addLine(c *models.Cart, line models.CartItem, masterStockTotal int) error {
	if line.ConsumptionFactor < 1 {
		line.ConsumptionFactor = 1
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if masterStockTotal <= 0 {
		masterStockTotal = c.Pools[line.ProductID]
	}

	// Projected set: merge into an existing line by variant id, or append.
	projected := make([]models.CartItem, len(c.Items))
	copy(projected, c.Items)
	merged := false
	for i := range projected {
		if projected[i].VariantID == line.VariantID {
			projected[i].Quantity += line.Quantity
			projected[i].ConsumptionFactor = line.ConsumptionFactor
			projected[i].UnitPrice = line.UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		projected = append(projected, line)
	}

	totalLiquid := pricing.TotalConsumption(poolLines(projected, line.ProductID))
	if masterStockTotal > 0 && totalLiquid > masterStockTotal {
		inCart := pricing.TotalConsumption(poolLines(c.Items, line.ProductID))
		remaining := pricing.RemainingCapacity(masterStockTotal, inCart)
		return &InsufficientStockError{
			InCart:    inCart,
			Remaining: remaining,
			CanAdd:    pricing.MaxAddableUnits(remaining, line.ConsumptionFactor),
		}
	}

	c.Items = projected
	if masterStockTotal > 0 {
		c.Pools[line.ProductID] = masterStockTotal
	}
	return nil
}

func updateQuantity(c *models.Cart, variantID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrLineNotFound
	}
	target := c.Items[idx]

	projected := make([]models.CartItem, len(c.Items))
	copy(projected, c.Items)
	projected[idx].Quantity = quantity

	masterStockTotal := c.Pools[target.ProductID]
	totalLiquid := pricing.TotalConsumption(poolLines(projected, target.ProductID))
	if masterStockTotal > 0 && totalLiquid > masterStockTotal {
		factor := target.ConsumptionFactor
		if factor < 1 {
			factor = 1
		}
		// Capacity net of the product's other lines, since this line's
		// quantity is being replaced rather than added to.
		var others []pricing.PoolLine
		for _, it := range c.Items {
			if it.ProductID == target.ProductID && it.VariantID != variantID {
				others = append(others, pricing.PoolLine{Quantity: it.Quantity, ConsumptionFactor: it.ConsumptionFactor})
			}
		}
		diff := totalLiquid - masterStockTotal
		return &InsufficientStockError{
			InCart:    pricing.TotalConsumption(poolLines(c.Items, target.ProductID)),
			Remaining: pricing.RemainingCapacity(masterStockTotal, pricing.TotalConsumption(others)),
			ReduceBy:  (diff + factor - 1) / factor,
		}
	}

	c.Items = projected
	return nil
}

func removeLine(c *models.Cart, variantID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.VariantID != variantID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// TotalItems sums line quantities.
func TotalItems(c *models.Cart) int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// Subtotal sums unit price × quantity across all lines.
func Subtotal(c *models.Cart) float64 {
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
