package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/event"
	"github.com/tinybakery/pos/internal/pricing"
	"github.com/tinybakery/pos/internal/store"
	apperrors "github.com/tinybakery/pos/pkg/errors"
)

// POSService implements the cart/inventory engine over an explicit session
// state. A single mutex serializes every operation, making the two-phase
// checkout atomic with respect to concurrent add-to-cart, restock, and other
// checkouts on the same session.
type POSService struct {
	mu       sync.Mutex
	state    *domain.State
	store    store.Store
	producer *event.Producer
	logger   *slog.Logger
}

// NewPOSService creates a service around the given session state. The store
// and producer are best-effort side channels; either may be nil in tests.
func NewPOSService(state *domain.State, st store.Store, producer *event.Producer, logger *slog.Logger) *POSService {
	return &POSService{
		state:    state,
		store:    st,
		producer: producer,
		logger:   logger,
	}
}

// persist saves a snapshot of the current state. Best-effort: failures are
// logged and swallowed, never surfaced to the caller and never rolled back.
// Callers must hold the mutex.
func (s *POSService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.state.Clone()); err != nil {
		s.logger.WarnContext(ctx, "state save failed, continuing",
			slog.String("error", err.Error()),
		)
	}
}

// publish runs an event publish best-effort. Callers must hold the mutex.
func (s *POSService) publish(ctx context.Context, what string, fn func() error) {
	if s.producer == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.WarnContext(ctx, "event publish failed, continuing",
			slog.String("event", what),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Products returns a deep-copied snapshot of the catalog in display order
// (most-recently-added first).
func (s *POSService) Products() []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CloneInventory()
}

// FindProduct returns a deep copy of the product with the given id.
func (s *POSService) FindProduct(id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.FindProduct(id)
	if p == nil {
		return nil, apperrors.NotFound("product", id)
	}
	return p.Clone(), nil
}

// Restock increases a product's stock by amount, counted in the given unit.
// The amount must be positive. A unit that does not apply to the product's
// item type (slice restock of a non-cake, unit restock of a cake) is rejected
// with an explicit error rather than silently ignored.
func (s *POSService) Restock(ctx context.Context, id string, amount int, unit domain.SaleUnit) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return nil, apperrors.InvalidQuantity(fmt.Sprintf("restock amount must be positive, got %d", amount))
	}

	p := s.state.FindProduct(id)
	if p == nil {
		return nil, apperrors.NotFound("product", id)
	}

	switch {
	case p.IsCake() && unit == domain.SaleUnitSlice:
	case !p.IsCake() && unit == domain.SaleUnitWhole:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("restock unit %q does not apply to %s item %s", unit, p.Type, p.Name))
	}

	p.Stock.Add(amount)

	s.logger.InfoContext(ctx, "product restocked",
		slog.String("product_id", p.ID),
		slog.Int("amount", amount),
		slog.String("unit", string(unit)),
		slog.Int("available", p.Stock.Available()),
	)

	s.publish(ctx, "inventory.updated", func() error {
		return s.producer.PublishInventoryUpdated(ctx, p)
	})
	s.persist(ctx)

	return p.Clone(), nil
}

// AddProductInput is the specification for a new catalog entry.
type AddProductInput struct {
	Name            string
	Price           float64
	Type            domain.ItemType
	SlicesPerCake   int // cakes only, required positive
	SlicesAvailable int // cakes only, defaults to 0
	Units           int // non-cakes only, defaults to 0
}

// AddProduct validates the input, assigns a fresh unique id, and inserts the
// product at the front of the catalog ordering. On validation failure no
// product is created.
func (s *POSService) AddProduct(ctx context.Context, input AddProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Name == "" {
		return nil, apperrors.ValidationFailed("name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.ValidationFailed("price must be a positive number")
	}

	var stock domain.StockLevel
	if input.Type == domain.ItemTypeCake {
		if input.SlicesPerCake <= 0 {
			return nil, apperrors.ValidationFailed("cake requires a positive slices-per-cake")
		}
		if input.SlicesAvailable < 0 {
			return nil, apperrors.ValidationFailed("initial slices available must be non-negative")
		}
		stock = &domain.SliceStock{
			SlicesPerCake:   input.SlicesPerCake,
			SlicesAvailable: input.SlicesAvailable,
		}
	} else {
		if input.Units < 0 {
			return nil, apperrors.ValidationFailed("initial stock units must be non-negative")
		}
		stock = &domain.UnitStock{Units: input.Units}
	}

	p := &domain.Product{
		ID:    fmt.Sprintf("%s-%s", input.Type, uuid.New().String()),
		Name:  input.Name,
		Price: input.Price,
		Type:  input.Type,
		Stock: stock,
	}

	// Most-recently-added first is the display convention.
	s.state.Inventory = append([]*domain.Product{p}, s.state.Inventory...)

	s.logger.InfoContext(ctx, "product added",
		slog.String("product_id", p.ID),
		slog.String("name", p.Name),
		slog.String("item_type", string(p.Type)),
		slog.Float64("price", p.Price),
	)

	s.persist(ctx)

	return p.Clone(), nil
}

// LowStockAlerts returns the current alert strings, recomputed on every call.
func (s *POSService) LowStockAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LowStockAlerts()
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

// AddToCart adds qty of a product (in the given unit) to the cart. The
// quantity is checked against current stock — a soft check that reserves
// nothing and is re-validated at checkout. On success, an existing
// (product, unit) line absorbs the quantity, keeping its originally captured
// unit price; otherwise a new line is appended with the price derived now.
func (s *POSService) AddToCart(ctx context.Context, productID string, unit domain.SaleUnit, qty int) (*domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return nil, apperrors.InvalidQuantity(fmt.Sprintf("quantity must be positive, got %d", qty))
	}

	p := s.state.FindProduct(productID)
	if p == nil {
		return nil, apperrors.NotFound("product", productID)
	}

	if unit == domain.SaleUnitSlice && !p.IsCake() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s does not sell by the slice", p.Name))
	}

	available := p.AvailableFor(unit)
	if qty > available {
		return nil, apperrors.InsufficientStock(p.Name, qty, available, unit.Label())
	}

	s.state.Cart.Upsert(domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Unit:      unit,
		Qty:       qty,
		UnitPrice: pricing.UnitPrice(p, unit),
	})
	cartLinesAdded.Inc()

	s.logger.InfoContext(ctx, "line added to cart",
		slog.String("product_id", p.ID),
		slog.String("unit", string(unit)),
		slog.Int("qty", qty),
	)

	s.persist(ctx)

	line := *s.state.Cart.Find(p.ID, unit)
	return &line, nil
}

// RemoveCartLine removes the line at the given position. Out-of-range
// indices are a silent no-op, matching the listing-driven caller contract.
func (s *POSService) RemoveCartLine(ctx context.Context, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Cart.Remove(index)
	s.persist(ctx)
}

// ClearCart empties the cart unconditionally.
func (s *POSService) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Cart.Clear()
	s.persist(ctx)
}

// CartTotals returns the derived totals for the current cart under the
// current promo state. Never cached.
func (s *POSService) CartTotals() pricing.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Totals(&s.state.Cart, s.state.PromoEnabled)
}

// ---------------------------------------------------------------------------
// Checkout
// ---------------------------------------------------------------------------

// Checkout commits the cart against live stock with all-or-nothing
// semantics. An empty cart is a no-op returning (nil, nil).
//
// Phase 1 replays every line's full requested quantity (the promo affects
// money, never physical stock) against a staged copy of the inventory; any
// shortfall aborts the whole checkout with StockChanged, leaving catalog and
// cart untouched. Phase 2 swaps the staged inventory in, adds the
// promo-discounted subtotal to revenue, prepends the ledger entry, and
// clears the cart — all before the mutex is released, so no intermediate
// state is ever observable.
func (s *POSService) Checkout(ctx context.Context) (*domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Cart.IsEmpty() {
		return nil, nil
	}

	// Phase 1: validate against a staged copy.
	staged := s.state.CloneInventory()
	stagedByID := make(map[string]*domain.Product, len(staged))
	for _, p := range staged {
		stagedByID[p.ID] = p
	}

	for _, line := range s.state.Cart.Lines {
		p, ok := stagedByID[line.ProductID]
		if !ok {
			checkoutFailuresTotal.WithLabelValues("stock_changed").Inc()
			return nil, apperrors.StockChanged(fmt.Sprintf("%s is no longer in the catalog", line.Name))
		}
		if err := p.DeductFor(line.Unit, line.Qty); err != nil {
			checkoutFailuresTotal.WithLabelValues("stock_changed").Inc()
			return nil, apperrors.StockChanged(fmt.Sprintf("not enough %s of %s in stock", line.Unit.Label(), line.Name))
		}
	}

	// Totals come from the current cart and promo state at commit time, not
	// from anything captured earlier.
	totals := pricing.Totals(&s.state.Cart, s.state.PromoEnabled)

	record := domain.SaleRecord{
		ID:        uuid.New().String(),
		Items:     make([]domain.SaleItem, len(totals.Lines)),
		Subtotal:  totals.Subtotal,
		Saved:     totals.Saved,
		CreatedAt: time.Now().UTC(),
	}
	for i, lt := range totals.Lines {
		record.Items[i] = domain.SaleItem{
			ProductID:     lt.ProductID,
			Name:          lt.Name,
			Unit:          lt.Unit,
			Qty:           lt.Qty,
			ChargeableQty: lt.ChargeableQty,
			UnitPrice:     lt.UnitPrice,
			LineTotal:     lt.LineTotal,
			LineSaved:     lt.LineSaved,
		}
	}

	// Phase 2: commit. The staged copy becomes the catalog in one swap.
	s.state.Inventory = staged
	s.state.Revenue += totals.Subtotal
	s.state.Ledger = append([]domain.SaleRecord{record}, s.state.Ledger...)
	s.state.Cart.Clear()

	salesCommittedTotal.Inc()
	revenueTotal.Add(totals.Subtotal)

	s.logger.InfoContext(ctx, "sale committed",
		slog.String("sale_id", record.ID),
		slog.Int("items", len(record.Items)),
		slog.Float64("subtotal", record.Subtotal),
		slog.Float64("saved", record.Saved),
	)

	// Side effects outside the transactional boundary: best-effort only.
	s.publish(ctx, "sale.completed", func() error {
		return s.producer.PublishSaleCompleted(ctx, &record)
	})
	for _, item := range record.Items {
		p := stagedByID[item.ProductID]
		s.publish(ctx, "inventory.updated", func() error {
			return s.producer.PublishInventoryUpdated(ctx, p)
		})
		if p.Stock.LowStock() {
			s.publish(ctx, "inventory.low_stock", func() error {
				return s.producer.PublishInventoryLowStock(ctx, p)
			})
		}
	}
	s.persist(ctx)

	return &record, nil
}

// ---------------------------------------------------------------------------
// Ledger, revenue, toggles
// ---------------------------------------------------------------------------

// Ledger returns a copy of the committed sales, newest first.
func (s *POSService) Ledger() []domain.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := make([]domain.SaleRecord, len(s.state.Ledger))
	copy(ledger, s.state.Ledger)
	return ledger
}

// Revenue returns the running total of committed-sale subtotals.
func (s *POSService) Revenue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Revenue
}

// PromoEnabled reports the current promo toggle.
func (s *POSService) PromoEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PromoEnabled
}

// SetPromo flips the global promo toggle. Items already in the cart re-price
// immediately since totals are always derived from the current toggle.
func (s *POSService) SetPromo(ctx context.Context, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.PromoEnabled = enabled
	s.logger.InfoContext(ctx, "promo toggled", slog.Bool("enabled", enabled))
	s.persist(ctx)
}

// Role returns the current terminal role.
func (s *POSService) Role() domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Role
}

// SetRole records the terminal role. A UI hint only: no engine operation
// checks it.
func (s *POSService) SetRole(ctx context.Context, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.IsValidRole(role) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown role %q", role))
	}
	s.state.Role = role
	s.persist(ctx)
	return nil
}

// StateSnapshot returns a deep copy of the full session state.
func (s *POSService) StateSnapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
