package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tienda-storefront/internal/logger"
	"tienda-storefront/internal/middleware"
)

// Router wires the session facade under /api.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.NewRateLimiter().Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/toggle", h.ToggleCart)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{id}", h.UpdateCartItem)
			r.Delete("/items/{id}", h.RemoveCartItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.StartCheckout)
			r.Get("/", h.GetCheckout)
			r.Post("/next", h.NextStep)
			r.Post("/back", h.PrevStep)
			r.Post("/submit", h.SubmitCheckout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.GetOrders)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}/cancel", h.CancelOrder)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.GetProducts)
			r.Get("/{id}", h.GetProduct)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessages(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	return r
}
