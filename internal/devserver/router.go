package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vin2grow/storefront-go/pkg/health"
	"github.com/vin2grow/storefront-go/pkg/middleware"
)

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	handler *Handler,
	tokens *TokenIssuer,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("devserver"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	r.Post("/auth/register", handler.Register)
	r.Post("/auth/login", handler.Login)

	r.Get("/products", handler.ListProducts)
	r.Get("/products/{productId}", handler.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens.Validate))

		r.Get("/cart", handler.GetCart)
		r.Delete("/cart", handler.ClearCart)
		r.Post("/cart/items", handler.AddItem)
		r.Patch("/cart/items/{lineId}", handler.UpdateItemQuantity)
		r.Delete("/cart/items/{lineId}", handler.RemoveItem)

		r.Get("/addresses", handler.ListAddresses)
		r.Post("/addresses", handler.AddAddress)
		r.Put("/addresses/{addressId}", handler.UpdateAddress)
		r.Delete("/addresses/{addressId}", handler.DeleteAddress)
		r.Post("/addresses/{addressId}/default", handler.SetDefaultAddress)

		r.Post("/orders", handler.PlaceOrder)
		r.Get("/orders", handler.ListOrders)
	})

	return r
}
