package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/checkout"
	"github.com/atulkamble/ecommerce-devops-project/internal/commerce"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	timeout      time.Duration
	log          logrus.FieldLogger
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, timeout time.Duration, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		timeout:      timeout,
		log:          log,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	confirmation, err := h.orchestrator.Checkout(ctx)
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, confirmation)
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		// Distinct code so the UI prompts for login instead of a generic error.
		respondError(w, http.StatusUnauthorized, "unauthenticated", "please log in to check out")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		respondError(w, http.StatusConflict, "checkout_in_flight", err.Error())
	default:
		var apiErr *commerce.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.StatusCode, "order_rejected", apiErr.Message)
			return
		}
		h.log.WithError(err).Error("checkout backend call failed")
		respondError(w, http.StatusBadGateway, "backend_unavailable", err.Error())
	}
}
