package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/service"
	"github.com/tinybakery/pos/pkg/httputil"
	"github.com/tinybakery/pos/pkg/validator"
)

// POSHandler handles HTTP requests for the POS endpoints.
type POSHandler struct {
	service *service.POSService
	logger  *slog.Logger
}

// NewPOSHandler creates a new POS HTTP handler.
func NewPOSHandler(svc *service.POSService, logger *slog.Logger) *POSHandler {
	return &POSHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// AddProductRequest is the JSON request body for creating a catalog entry.
type AddProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	ItemType        string  `json:"item_type" validate:"required,oneof=cake pastry bread"`
	SlicesPerCake   int     `json:"slices_per_cake" validate:"omitempty,gt=0"`
	SlicesAvailable int     `json:"slices_available" validate:"omitempty,gte=0"`
	StockUnits      int     `json:"stock_units" validate:"omitempty,gte=0"`
}

// RestockRequest is the JSON request body for restocking a product.
type RestockRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Unit   string `json:"unit" validate:"required,oneof=unit slice"`
}

// AddCartLineRequest is the JSON request body for adding to the cart.
type AddCartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Unit      string `json:"unit" validate:"required,oneof=unit slice"`
	Qty       int    `json:"qty" validate:"required,gt=0"`
}

// SetPromoRequest is the JSON request body for the promo toggle.
type SetPromoRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SetRoleRequest is the JSON request body for the role switch.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=cashier manager"`
}

// --- Response DTOs ---

// LedgerEntryResponse is a sale record plus its one-line summary text.
type LedgerEntryResponse struct {
	domain.SaleRecord
	Summary string `json:"summary"`
}

// RevenueResponse reports the running revenue total.
type RevenueResponse struct {
	Revenue   float64 `json:"revenue"`
	Formatted string  `json:"formatted"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *POSHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Products()})
}

// AddProduct handles POST /api/v1/products
func (h *POSHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.AddProduct(r.Context(), service.AddProductInput{
		Name:            req.Name,
		Price:           req.Price,
		Type:            domain.ItemType(req.ItemType),
		SlicesPerCake:   req.SlicesPerCake,
		SlicesAvailable: req.SlicesAvailable,
		Units:           req.StockUnits,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Restock handles POST /api/v1/products/{productId}/restock
func (h *POSHandler) Restock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req RestockRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.Restock(r.Context(), productID, req.Amount, domain.SaleUnit(req.Unit))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// LowStock handles GET /api/v1/products/low-stock
func (h *POSHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	alerts := h.service.LowStockAlerts()
	if alerts == nil {
		alerts = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: alerts})
}

// GetCart handles GET /api/v1/cart
func (h *POSHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.CartTotals()})
}

// AddCartLine handles POST /api/v1/cart/lines
func (h *POSHandler) AddCartLine(w http.ResponseWriter, r *http.Request) {
	var req AddCartLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	line, err := h.service.AddToCart(r.Context(), req.ProductID, domain.SaleUnit(req.Unit), req.Qty)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: line})
}

// RemoveCartLine handles DELETE /api/v1/cart/lines/{index}
func (h *POSHandler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "line index must be an integer"},
		})
		return
	}

	h.service.RemoveCartLine(r.Context(), index)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.CartTotals()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *POSHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCart(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/v1/checkout
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Checkout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if record == nil {
		// Empty cart: nothing to commit.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: LedgerEntryResponse{
		SaleRecord: *record,
		Summary:    record.Summary(),
	}})
}

// GetLedger handles GET /api/v1/ledger
func (h *POSHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	records := h.service.Ledger()
	entries := make([]LedgerEntryResponse, len(records))
	for i := range records {
		entries[i] = LedgerEntryResponse{
			SaleRecord: records[i],
			Summary:    records[i].Summary(),
		}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}

// GetRevenue handles GET /api/v1/revenue
func (h *POSHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	revenue := h.service.Revenue()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: RevenueResponse{
		Revenue:   revenue,
		Formatted: domain.FormatCurrency(revenue),
	}})
}

// SetPromo handles PUT /api/v1/promo
func (h *POSHandler) SetPromo(w http.ResponseWriter, r *http.Request) {
	var req SetPromoRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.service.SetPromo(r.Context(), *req.Enabled)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"enabled": *req.Enabled}})
}

// SetRole handles PUT /api/v1/role
func (h *POSHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.SetRole(r.Context(), domain.Role(req.Role)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"role": req.Role}})
}
