package pricing_test

import (
	"testing"

	"github.com/odark007/liq-store/pricing"
	"github.com/stretchr/testify/assert"
)

func TestTotalConsumption(t *testing.T) {
	lines := []pricing.PoolLine{
		{Quantity: 8, ConsumptionFactor: 1},
		{Quantity: 1, ConsumptionFactor: 6},
	}
	assert.Equal(t, 14, pricing.TotalConsumption(lines))
}

func TestTotalConsumption_ClampsFactor(t *testing.T) {
	lines := []pricing.PoolLine{{Quantity: 3, ConsumptionFactor: 0}}
	assert.Equal(t, 3, pricing.TotalConsumption(lines))
}

func TestRemainingCapacity(t *testing.T) {
	assert.Equal(t, 4, pricing.RemainingCapacity(10, 6))
	assert.Equal(t, 0, pricing.RemainingCapacity(10, 10))
	assert.Equal(t, 0, pricing.RemainingCapacity(10, 15), "over-committed pool clamps to zero")
}

func TestMaxAddableUnits(t *testing.T) {
	assert.Equal(t, 4, pricing.MaxAddableUnits(24, 6))
	assert.Equal(t, 0, pricing.MaxAddableUnits(5, 6))
	assert.Equal(t, 5, pricing.MaxAddableUnits(5, 1))
}

func TestMaxAddableUnits_InvalidFactor(t *testing.T) {
	// Factor <= 0 clamps to 1 instead of dividing by zero.
	assert.Equal(t, 7, pricing.MaxAddableUnits(7, 0))
	assert.Equal(t, 7, pricing.MaxAddableUnits(7, -3))
}
