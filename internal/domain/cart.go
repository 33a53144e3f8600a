package domain

import "encoding/json"

// CartLine is a requested quantity of a product. It references the product by
// id (the cart never owns product state) and carries the unit price captured
// when the line was first added, so later catalog edits don't retroactively
// change an in-progress cart.
type CartLine struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Unit      SaleUnit `json:"unit"`
	Qty       int      `json:"qty"`
	UnitPrice float64  `json:"unit_price"`
}

// Cart is an ordered collection of lines. Totals are never cached here; they
// are derived on demand by the pricing package from the current promo state.
type Cart struct {
	Lines []CartLine
}

// Find returns the line matching (productID, unit), or nil.
func (c *Cart) Find(productID string, unit SaleUnit) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Unit == unit {
			return &c.Lines[i]
		}
	}
	return nil
}

// Upsert merges the line into an existing (productID, unit) line by summing
// quantities (the originally captured unit price persists), or appends it.
func (c *Cart) Upsert(line CartLine) {
	if existing := c.Find(line.ProductID, line.Unit); existing != nil {
		existing.Qty += line.Qty
		return
	}
	c.Lines = append(c.Lines, line)
}

// Remove deletes the line at the given position. Out-of-range indices are a
// silent no-op.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// MarshalJSON encodes the cart as a bare array of lines.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.Lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Lines)
}

// UnmarshalJSON decodes the cart from a bare array of lines.
func (c *Cart) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.Lines)
}
