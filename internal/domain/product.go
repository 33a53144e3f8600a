package domain

import (
	"encoding/json"
	"fmt"
)

// ItemType classifies a product. Cakes are stocked and sold by the slice;
// every other type is stocked in whole units.
type ItemType string

// Known item types. The set is extensible: any non-cake type behaves like
// pastry/bread (unit-counted stock).
const (
	ItemTypeCake   ItemType = "cake"
	ItemTypePastry ItemType = "pastry"
	ItemTypeBread  ItemType = "bread"
)

// SaleUnit selects how a quantity is counted: whole units or cake slices.
type SaleUnit string

const (
	SaleUnitWhole SaleUnit = "unit"
	SaleUnitSlice SaleUnit = "slice"
)

// Label returns the human-readable plural label for the unit ("slices"/"units").
func (u SaleUnit) Label() string {
	if u == SaleUnitSlice {
		return "slices"
	}
	return "units"
}

// Low-stock alert thresholds (fixed).
const (
	CakeLowStockThreshold = 12 // slices
	UnitLowStockThreshold = 5  // units
)

// StockLevel is the tagged stock representation of a product. Exactly one of
// the two variants is valid per product, determined by its item type:
// SliceStock for cakes, UnitStock for everything else.
type StockLevel interface {
	// Available returns the quantity on hand, counted in the stock's own unit.
	Available() int
	// Add increases the stock by n. n must be validated by the caller.
	Add(n int)
	// Deduct decreases the stock by n, failing if n exceeds what is available.
	Deduct(n int) error
	// Clone returns an independent copy for staged mutation.
	Clone() StockLevel
	// LowStock reports whether the level is at or below its alert threshold.
	LowStock() bool
}

// SliceStock is the stock variant for cakes: a fixed slices-per-cake ratio
// and a mutable count of slices on hand.
type SliceStock struct {
	SlicesPerCake   int // positive, immutable
	SlicesAvailable int // non-negative
}

func (s *SliceStock) Available() int { return s.SlicesAvailable }

func (s *SliceStock) Add(n int) { s.SlicesAvailable += n }

func (s *SliceStock) Deduct(n int) error {
	if n > s.SlicesAvailable {
		return fmt.Errorf("deduct %d slices: only %d available", n, s.SlicesAvailable)
	}
	s.SlicesAvailable -= n
	return nil
}

func (s *SliceStock) Clone() StockLevel {
	c := *s
	return &c
}

func (s *SliceStock) LowStock() bool { return s.SlicesAvailable <= CakeLowStockThreshold }

// UnitStock is the stock variant for unit-counted products.
type UnitStock struct {
	Units int // non-negative
}

func (s *UnitStock) Available() int { return s.Units }

func (s *UnitStock) Add(n int) { s.Units += n }

func (s *UnitStock) Deduct(n int) error {
	if n > s.Units {
		return fmt.Errorf("deduct %d units: only %d available", n, s.Units)
	}
	s.Units -= n
	return nil
}

func (s *UnitStock) Clone() StockLevel {
	c := *s
	return &c
}

func (s *UnitStock) LowStock() bool { return s.Units <= UnitLowStockThreshold }

// Product is a sellable catalog entry. Price is the whole-item price and is
// immutable for the lifetime of the product; per-slice pricing is derived,
// never stored.
type Product struct {
	ID    string
	Name  string
	Price float64
	Type  ItemType
	Stock StockLevel
}

// IsCake reports whether the product sells by the slice.
func (p *Product) IsCake() bool { return p.Type == ItemTypeCake }

// AvailableFor returns the stock available for a sale in the given unit.
// A cake requested by the slice exposes its slice count; a cake requested by
// whole unit has nothing to sell (cakes sell by the slice only). Non-cakes
// expose their unit count.
func (p *Product) AvailableFor(unit SaleUnit) int {
	if p.IsCake() {
		if unit == SaleUnitSlice {
			return p.Stock.Available()
		}
		return 0
	}
	return p.Stock.Available()
}

// DeductFor removes qty from the stock backing a sale in the given unit.
func (p *Product) DeductFor(unit SaleUnit, qty int) error {
	if p.IsCake() && unit != SaleUnitSlice {
		return fmt.Errorf("%s: cakes sell by the slice", p.Name)
	}
	return p.Stock.Deduct(qty)
}

// LowStockAlert returns the alert string for this product, or "" if stock is
// above its threshold.
func (p *Product) LowStockAlert() string {
	if !p.Stock.LowStock() {
		return ""
	}
	if p.IsCake() {
		return fmt.Sprintf("Cake %s low: %d slices", p.Name, p.Stock.Available())
	}
	return fmt.Sprintf("%s low: %d units", p.Name, p.Stock.Available())
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	c := *p
	c.Stock = p.Stock.Clone()
	return &c
}

// productJSON is the wire/persistence shape of a product. The item type
// discriminates which stock fields are present.
type productJSON struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	ItemType        ItemType `json:"item_type"`
	SlicesPerCake   int      `json:"slices_per_cake,omitempty"`
	SlicesAvailable *int     `json:"slices_available,omitempty"`
	StockUnits      *int     `json:"stock_units,omitempty"`
}

// MarshalJSON encodes the product with only the stock fields valid for its type.
func (p *Product) MarshalJSON() ([]byte, error) {
	out := productJSON{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ItemType: p.Type,
	}
	switch s := p.Stock.(type) {
	case *SliceStock:
		out.SlicesPerCake = s.SlicesPerCake
		avail := s.SlicesAvailable
		out.SlicesAvailable = &avail
	case *UnitStock:
		units := s.Units
		out.StockUnits = &units
	default:
		return nil, fmt.Errorf("product %s: unknown stock representation %T", p.ID, p.Stock)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a product, reconstructing the stock variant from the
// item type discriminant.
func (p *Product) UnmarshalJSON(data []byte) error {
	var in productJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	p.ID = in.ID
	p.Name = in.Name
	p.Price = in.Price
	p.Type = in.ItemType

	if in.ItemType == ItemTypeCake {
		if in.SlicesPerCake <= 0 {
			return fmt.Errorf("product %s: cake requires positive slices_per_cake", in.ID)
		}
		stock := &SliceStock{SlicesPerCake: in.SlicesPerCake}
		if in.SlicesAvailable != nil {
			stock.SlicesAvailable = *in.SlicesAvailable
		}
		p.Stock = stock
		return nil
	}

	stock := &UnitStock{}
	if in.StockUnits != nil {
		stock.Units = *in.StockUnits
	}
	p.Stock = stock
	return nil
}
