package domain

import (
	"fmt"
	"strings"
	"time"
)

// SaleItem is one line of a committed sale: the requested quantity, how much
// of it was actually billed, and the money involved.
type SaleItem struct {
	ProductID     string   `json:"product_id"`
	Name          string   `json:"name"`
	Unit          SaleUnit `json:"unit"`
	Qty           int      `json:"qty"`
	ChargeableQty int      `json:"chargeable_qty"`
	UnitPrice     float64  `json:"unit_price"`
	LineTotal     float64  `json:"line_total"`
	LineSaved     float64  `json:"line_saved"`
}

// SaleRecord is an immutable ledger entry describing a committed sale.
// Created only by checkout; never mutated or deleted.
type SaleRecord struct {
	ID        string     `json:"id"`
	Items     []SaleItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Saved     float64    `json:"saved"`
	CreatedAt time.Time  `json:"created_at"`
}

// Summary renders the record as the classic one-line ledger text, e.g.
//
//	Sale: 5sl Chocolate Cake, 2u Croissant | subtotal $44.00 (saved $4.00)
//
// The saved clause is included only when the promotion saved anything.
func (r *SaleRecord) Summary() string {
	parts := make([]string, len(r.Items))
	for i, item := range r.Items {
		abbrev := "u"
		if item.Unit == SaleUnitSlice {
			abbrev = "sl"
		}
		parts[i] = fmt.Sprintf("%d%s %s", item.Qty, abbrev, item.Name)
	}

	s := fmt.Sprintf("Sale: %s | subtotal %s", strings.Join(parts, ", "), FormatCurrency(r.Subtotal))
	if r.Saved > 0 {
		s += fmt.Sprintf(" (saved %s)", FormatCurrency(r.Saved))
	}
	return s
}

// FormatCurrency renders an amount as USD for display and ledger text.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
