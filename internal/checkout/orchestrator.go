// Package checkout turns a cart snapshot into a placed order. The cart is
// cleared only after the backend confirms the order; any failure leaves it
// untouched so the user can retry without re-entering items.
package checkout

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/cart"
	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
	"github.com/atulkamble/ecommerce-devops-project/internal/session"
)

// OrderPlacer is the slice of the commerce client the orchestrator needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, items []domain.CheckoutItem) (*domain.OrderConfirmation, error)
}

// Orchestrator owns no persistent state of its own; it coordinates the
// session store, the cart store and the backend.
type Orchestrator struct {
	session  *session.Store
	cart     *cart.Store
	orders   OrderPlacer
	log      logrus.FieldLogger
	inFlight atomic.Bool
}

func NewOrchestrator(sess *session.Store, crt *cart.Store, orders OrderPlacer, log logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{
		session: sess,
		cart:    crt,
		orders:  orders,
		log:     log,
	}
}

// Checkout submits the current cart as an order. At most one checkout is in
// flight at a time; a second call while one is outstanding fails fast with
// ErrCheckoutInFlight instead of risking a duplicate submission.
func (o *Orchestrator) Checkout(ctx context.Context) (*domain.OrderConfirmation, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInFlight
	}
	defer o.inFlight.Store(false)

	if !o.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	items := o.cart.Snapshot()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	confirmation, err := o.orders.PlaceOrder(ctx, o.session.Token(), items)
	if err != nil {
		o.log.WithError(err).Warn("checkout failed, cart preserved")
		return nil, err
	}

	o.cart.Clear()
	o.log.WithFields(logrus.Fields{
		"order_id":     confirmation.OrderID,
		"total_amount": confirmation.TotalAmount,
	}).Info("order placed")
	return confirmation, nil
}

// InFlight reports whether a checkout request is currently outstanding, so
// the UI can disable the triggering control.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}
