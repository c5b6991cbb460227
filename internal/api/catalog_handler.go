package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/catalog"
	"github.com/atulkamble/ecommerce-devops-project/internal/commerce"
	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
	"github.com/atulkamble/ecommerce-devops-project/internal/session"
)

// OrderHistory is the slice of the commerce client needed for GET /orders.
type OrderHistory interface {
	Orders(ctx context.Context, token string) ([]domain.Order, error)
}

type CatalogHandler struct {
	catalog  *catalog.Catalog
	sessions *session.Store
	history  OrderHistory
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewCatalogHandler(cat *catalog.Catalog, sessions *session.Store, history OrderHistory, timeout time.Duration, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  cat,
		sessions: sessions,
		history:  history,
		timeout:  timeout,
		log:      log,
	}
}

// GET /api/v1/products
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		h.respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/{id}
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	product, err := h.catalog.Product(ctx, id)
	if err != nil {
		h.respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		h.respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GET /api/v1/orders
func (h *CatalogHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !h.sessions.IsAuthenticated() {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "please log in to view orders")
		return
	}

	orders, err := h.history.Orders(ctx, h.sessions.Token())
	if err != nil {
		h.respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *CatalogHandler) respondBackendError(w http.ResponseWriter, err error) {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.StatusCode, "backend_error", apiErr.Message)
		return
	}
	h.log.WithError(err).Error("catalog backend call failed")
	respondError(w, http.StatusBadGateway, "backend_unavailable", err.Error())
}
