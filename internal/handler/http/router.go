package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tinybakery/pos/internal/service"
	"github.com/tinybakery/pos/pkg/health"
	"github.com/tinybakery/pos/pkg/middleware"
)

// NewRouter creates a chi router with all POS routes registered.
func NewRouter(
	posService *service.POSService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cors middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cors))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("pos"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	posHandler := NewPOSHandler(posService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(LimitRequestBody(1 << 20))

		// Catalog
		r.Get("/products", posHandler.ListProducts)
		r.Post("/products", posHandler.AddProduct)
		r.Post("/products/{productId}/restock", posHandler.Restock)
		r.Get("/products/low-stock", posHandler.LowStock)

		// Cart
		r.Get("/cart", posHandler.GetCart)
		r.Post("/cart/lines", posHandler.AddCartLine)
		r.Delete("/cart/lines/{index}", posHandler.RemoveCartLine)
		r.Delete("/cart", posHandler.ClearCart)

		// Checkout
		r.Post("/checkout", posHandler.Checkout)

		// Ledger and revenue
		r.Get("/ledger", posHandler.GetLedger)
		r.Get("/revenue", posHandler.GetRevenue)

		// Session toggles
		r.Put("/promo", posHandler.SetPromo)
		r.Put("/role", posHandler.SetRole)
	})

	return r
}

// ContentTypeJSON sets the JSON content type on every response.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LimitRequestBody caps every request body at n bytes. An oversized body
// surfaces as a decode error in the handler, which maps to a 400.
func LimitRequestBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
