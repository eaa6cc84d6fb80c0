package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeOrderLine(t *testing.T) {
	weight := decimal.NewFromInt(23)

	// 2 boxes × 23 kg = 46 kg; 46 × 500 = 23000.
	totalKg, subtotal := ComputeOrderLine(2, decimal.NewFromInt(500), weight)
	assert.True(t, totalKg.Equal(decimal.NewFromInt(46)), "totalKg = %s", totalKg)
	assert.True(t, subtotal.Equal(decimal.NewFromInt(23000)), "subtotal = %s", subtotal)

	totalKg, subtotal = ComputeOrderLine(0, decimal.NewFromInt(500), weight)
	assert.True(t, totalKg.IsZero())
	assert.True(t, subtotal.IsZero())

	// Non-default box weight flows straight through.
	totalKg, subtotal = ComputeOrderLine(3, decimal.NewFromFloat(100.50), decimal.NewFromInt(20))
	assert.True(t, totalKg.Equal(decimal.NewFromInt(60)), "totalKg = %s", totalKg)
	assert.True(t, subtotal.Equal(decimal.NewFromInt(6030)), "subtotal = %s", subtotal)
}
