package domain

// Role is a UI hint controlling which affordances a terminal exposes.
// The engine itself performs no role checks; this is not a security boundary.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
)

// IsValidRole checks whether the given role is known.
func IsValidRole(r Role) bool {
	return r == RoleCashier || r == RoleManager
}

// State is the complete POS session: catalog, in-progress cart, committed
// ledger, running revenue, and the global toggles. It is the single record
// persisted by the store and the explicit session object every operation
// works against, so multiple independent sessions can coexist.
type State struct {
	Role         Role         `json:"role"`
	PromoEnabled bool         `json:"promo_enabled"`
	Inventory    []*Product   `json:"inventory"`
	Cart         Cart         `json:"cart"`
	Ledger       []SaleRecord `json:"ledger"`
	Revenue      float64      `json:"revenue"`
}

// SeedState returns the documented seed catalog with an empty cart and
// ledger, zero revenue, promo disabled, and the cashier role. Used whenever
// persisted state is absent or unreadable.
func SeedState() *State {
	return &State{
		Role:         RoleCashier,
		PromoEnabled: false,
		Inventory: []*Product{
			{
				ID:    "cake-choc",
				Name:  "Chocolate Cake",
				Price: 24,
				Type:  ItemTypeCake,
				Stock: &SliceStock{SlicesPerCake: 6, SlicesAvailable: 12},
			},
			{
				ID:    "cake-spice",
				Name:  "Spice Cake",
				Price: 18,
				Type:  ItemTypeCake,
				Stock: &SliceStock{SlicesPerCake: 8, SlicesAvailable: 8},
			},
			{
				ID:    "pastry-croissant",
				Name:  "Croissant",
				Price: 3.5,
				Type:  ItemTypePastry,
				Stock: &UnitStock{Units: 30},
			},
			{
				ID:    "bread-baguette",
				Name:  "Baguette",
				Price: 4.25,
				Type:  ItemTypeBread,
				Stock: &UnitStock{Units: 12},
			},
		},
	}
}

// FindProduct returns the product with the given id, or nil.
func (s *State) FindProduct(id string) *Product {
	for _, p := range s.Inventory {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// LowStockAlerts returns the ordered list of alert strings for every product
// at or below its threshold, in catalog order. Recomputed on every call.
func (s *State) LowStockAlerts() []string {
	var alerts []string
	for _, p := range s.Inventory {
		if a := p.LowStockAlert(); a != "" {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// CloneInventory returns an independent deep copy of the catalog, preserving
// order. Checkout stages its mutations against such a copy.
func (s *State) CloneInventory() []*Product {
	inv := make([]*Product, len(s.Inventory))
	for i, p := range s.Inventory {
		inv[i] = p.Clone()
	}
	return inv
}

// Clone returns a deep copy of the entire state, safe to hand to the
// persistence layer or to readers outside the service mutex.
func (s *State) Clone() *State {
	c := &State{
		Role:         s.Role,
		PromoEnabled: s.PromoEnabled,
		Inventory:    s.CloneInventory(),
		Cart:         s.Cart.Clone(),
		Revenue:      s.Revenue,
	}
	if len(s.Ledger) > 0 {
		c.Ledger = make([]SaleRecord, len(s.Ledger))
		copy(c.Ledger, s.Ledger)
	}
	return c
}
