package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(cfg RouterConfig, products *ProductHandler, carts *CartHandler, checkout *CheckoutHandler) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodyMiddleware(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Post("/", products.Create)
			r.Delete("/", products.ClearAll)
			r.Get("/{id}", products.Get)
			r.Patch("/{id}", products.Update)
			r.Delete("/{id}", products.Delete)
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/cart", carts.GetCart)
			r.Post("/cart/items", carts.AddItem)
			r.Get("/cart/checkout-info", checkout.Info)
			r.Post("/checkout", checkout.Checkout)
			r.Get("/checkouts", checkout.History)
		})

		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Put("/selection", carts.SelectItems)
			r.Delete("/items", carts.ClearCart)
		})

		r.Route("/cart-items/{cartItemId}", func(r chi.Router) {
			r.Patch("/", carts.UpdateQuantity)
			r.Delete("/", carts.RemoveItem)
			r.Put("/selection", carts.SelectItem)
		})
	})

	return otelhttp.NewHandler(r, "cart-service",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
