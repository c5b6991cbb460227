package domain

// Identity is the authenticated user as returned by the auth endpoints.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product matches the catalog wire format of the backend.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"image_url"`
	CreatedAt     string  `json:"created_at"`
}

// CartLine is one product in the cart. Price, name and image are a snapshot
// taken when the product was first added; they are not refreshed on merge.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

// CheckoutItem is the minimal server-facing representation of a cart line at
// order submission. Price is intentionally absent, the server prices orders.
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderConfirmation is the response body of a successful order submission.
type OrderConfirmation struct {
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

// Order is one entry of the user's order history.
type Order struct {
	ID          int64   `json:"id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}
