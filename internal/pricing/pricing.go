// Package pricing derives per-unit prices and promotional chargeable
// quantities. It is the only place these are computed; callers must not
// recompute them differently.
package pricing

import (
	"github.com/tinybakery/pos/internal/domain"
)

// promoGroupSize is the "Buy 4 Get 1 Free" group: for every complete group of
// this many units requested, one is free.
const promoGroupSize = 5

// UnitPrice returns the price for one sale unit of the product. A cake
// queried by the slice is priced at its whole-cake price divided by its
// slices-per-cake ratio (real division, not rounded here); everything else
// sells at the whole-item price.
func UnitPrice(p *domain.Product, unit domain.SaleUnit) float64 {
	if p.IsCake() && unit == domain.SaleUnitSlice {
		return p.Price / float64(p.Stock.(*domain.SliceStock).SlicesPerCake)
	}
	return p.Price
}

// Chargeable returns the billed portion of a requested quantity. With the
// promo disabled it is the quantity unchanged; enabled, every complete group
// of five is billed as four, and a partial group of 1-4 is billed in full.
// Holds for all non-negative quantities including zero.
func Chargeable(qty int, promoEnabled bool) int {
	if !promoEnabled {
		return qty
	}
	return qty - qty/promoGroupSize
}

// LineTotals is a cart line with its derived billing figures.
type LineTotals struct {
	domain.CartLine
	ChargeableQty int     `json:"chargeable_qty"`
	LineTotal     float64 `json:"line_total"`
	LineSaved     float64 `json:"line_saved"`
}

// CartTotals is the derived view of a whole cart under a given promo state.
type CartTotals struct {
	Lines    []LineTotals `json:"lines"`
	Subtotal float64      `json:"subtotal"`
	Saved    float64      `json:"saved"`
}

// Totals computes the derived figures for every line plus the cart-level
// subtotal and savings. It reads the current promo state on every call; the
// promo is never baked into the lines, so toggling it re-prices the cart
// immediately without re-adding items.
func Totals(cart *domain.Cart, promoEnabled bool) CartTotals {
	totals := CartTotals{Lines: make([]LineTotals, 0, len(cart.Lines))}
	for _, line := range cart.Lines {
		chargeable := Chargeable(line.Qty, promoEnabled)
		lt := LineTotals{
			CartLine:      line,
			ChargeableQty: chargeable,
			LineTotal:     float64(chargeable) * line.UnitPrice,
			LineSaved:     float64(line.Qty-chargeable) * line.UnitPrice,
		}
		totals.Lines = append(totals.Lines, lt)
		totals.Subtotal += lt.LineTotal
		totals.Saved += lt.LineSaved
	}
	return totals
}
