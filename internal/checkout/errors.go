package checkout

import "errors"

var (
	// ErrNotAuthenticated means checkout was attempted without a logged-in
	// session. The caller should prompt for login, not show a generic error.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyCart means there is nothing to check out.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrCheckoutInFlight means a previous checkout has not resolved yet.
	ErrCheckoutInFlight = errors.New("a checkout is already in progress")
)
