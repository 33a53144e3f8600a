package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaleRecord_Summary_WithSavings(t *testing.T) {
	r := &SaleRecord{
		Items: []SaleItem{
			{Name: "Chocolate Cake", Unit: SaleUnitSlice, Qty: 5},
			{Name: "Croissant", Unit: SaleUnitWhole, Qty: 2},
		},
		Subtotal: 44,
		Saved:    4,
	}

	assert.Equal(t, "Sale: 5sl Chocolate Cake, 2u Croissant | subtotal $44.00 (saved $4.00)", r.Summary())
}

func TestSaleRecord_Summary_NoSavingsOmitsClause(t *testing.T) {
	r := &SaleRecord{
		Items:    []SaleItem{{Name: "Baguette", Unit: SaleUnitWhole, Qty: 3}},
		Subtotal: 12.75,
	}

	assert.Equal(t, "Sale: 3u Baguette | subtotal $12.75", r.Summary())
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$3.50", FormatCurrency(3.5))
	assert.Equal(t, "$44.00", FormatCurrency(44))
}
