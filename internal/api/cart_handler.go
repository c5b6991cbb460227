package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/cart"
	"github.com/atulkamble/ecommerce-devops-project/internal/catalog"
	"github.com/atulkamble/ecommerce-devops-project/internal/commerce"
	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
)

type CartHandler struct {
	cart    *cart.Store
	catalog *catalog.Catalog
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCartHandler(crt *cart.Store, cat *catalog.Catalog, timeout time.Duration, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cart:    crt,
		catalog: cat,
		timeout: timeout,
		log:     log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items      []domain.CartLine `json:"items"`
	TotalPrice float64           `json:"total_price"`
	TotalItems int               `json:"total_items"`
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// The catalog provides the add-time snapshot of price and display fields.
	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		var apiErr *commerce.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		h.log.WithError(err).Error("catalog lookup failed")
		respondError(w, http.StatusBadGateway, "backend_unavailable", err.Error())
		return
	}

	h.cart.AddItem(*product, req.Quantity)
	respondJSON(w, http.StatusCreated, h.cartDTO())
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.cartDTO())
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	// Zero and negative quantities delete the line, the store's clamp policy.
	h.cart.UpdateQuantity(productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.cartDTO())
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	h.cart.RemoveItem(productID)
	respondJSON(w, http.StatusOK, h.cartDTO())
}

// DELETE /api/v1/cart
func (h *CartHandler) EmptyCart(w http.ResponseWriter, _ *http.Request) {
	h.cart.Clear()
	respondJSON(w, http.StatusOK, h.cartDTO())
}

func (h *CartHandler) cartDTO() CartResponseDTO {
	return CartResponseDTO{
		Items:      h.cart.Lines(),
		TotalPrice: h.cart.TotalPrice(),
		TotalItems: h.cart.TotalItemCount(),
	}
}
