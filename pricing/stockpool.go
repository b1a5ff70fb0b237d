package pricing

// PoolLine is the quantity/factor pair the pool math operates on. Variants
// are packaged differently (single, pack, crate) but drain one countable
// physical pool, so any capacity check must sum consumption across every
// line of the same product before comparing against the raw stock level.
type PoolLine struct {
	Quantity          int
	ConsumptionFactor int
}

// TotalConsumption sums quantity × consumptionFactor across lines. Factors
// below 1 are clamped to 1, matching the sanitising the cart does on entry.
func TotalConsumption(lines []PoolLine) int {
	total := 0
	for _, l := range lines {
		factor := l.ConsumptionFactor
		if factor < 1 {
			factor = 1
		}
		total += l.Quantity * factor
	}
	return total
}

// RemainingCapacity returns how much of the pool is still uncommitted.
func RemainingCapacity(masterStockLevel, alreadyCommitted int) int {
	remaining := masterStockLevel - alreadyCommitted
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MaxAddableUnits returns how many units of a variant still fit in the
// remaining capacity. A non-positive factor is clamped to 1; never a
// division by zero.
func MaxAddableUnits(remainingCapacity, consumptionFactor int) int {
	if consumptionFactor < 1 {
		consumptionFactor = 1
	}
	if remainingCapacity < 0 {
		return 0
	}
	return remainingCapacity / consumptionFactor
}
