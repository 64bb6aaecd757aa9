package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API surface.
func NewRouter(checkout *CheckoutHandler, cart *CartHandler, orders *OrdersHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(IdentityMiddleware)

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkout.Resume)
				r.Put("/draft", checkout.SaveDraft)
				r.Post("/submit", checkout.Submit)
				r.Post("/convert", checkout.ConvertGuest)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cart.GetCart)
				r.Delete("/", cart.ClearCart)
				r.Post("/items", cart.AddLine)
				r.Put("/items/{productID}", cart.UpdateQuantity)
				r.Delete("/items/{productID}", cart.RemoveLine)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orders.ListOrders)
				r.Get("/{orderID}", orders.GetOrder)
			})
		})
	})

	return r
}
