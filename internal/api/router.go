package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/cart"
	"github.com/atulkamble/ecommerce-devops-project/internal/catalog"
	"github.com/atulkamble/ecommerce-devops-project/internal/checkout"
	"github.com/atulkamble/ecommerce-devops-project/internal/session"
)

// Deps collects everything the router needs from the composition root.
type Deps struct {
	Sessions     *session.Store
	Cart         *cart.Store
	Catalog      *catalog.Catalog
	Orchestrator *checkout.Orchestrator
	History      OrderHistory
	Timeout      time.Duration
	Log          logrus.FieldLogger
}

// NewRouter assembles the UI-facing HTTP surface over the stores.
func NewRouter(deps Deps) *chi.Mux {
	authHandler := NewAuthHandler(deps.Sessions, deps.Timeout, deps.Log)
	cartHandler := NewCartHandler(deps.Cart, deps.Catalog, deps.Timeout, deps.Log)
	checkoutHandler := NewCheckoutHandler(deps.Orchestrator, deps.Timeout, deps.Log)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Sessions, deps.History, deps.Timeout, deps.Log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.EmptyCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Get("/products", catalogHandler.Products)
		r.Get("/products/{id}", catalogHandler.Product)
		r.Get("/categories", catalogHandler.Categories)
		r.Get("/orders", catalogHandler.Orders)
	})

	return r
}
