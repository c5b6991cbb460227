// Package commerce is the HTTP client for the Cloudnautic Shop backend. All
// state lives client-side; this package only moves requests and responses.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Session is the auth payload returned by login and register. The token is an
// opaque bearer credential; the client never inspects it.
type Session struct {
	AccessToken string          `json:"access_token"`
	User        domain.Identity `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	log        logrus.FieldLogger
}

// NewClient creates a client for the backend at baseURL (scheme + host, no
// trailing slash). The circuit breaker opens after consecutive transport
// failures; HTTP error statuses do not trip it.
func NewClient(baseURL string, log logrus.FieldLogger) *Client {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "commerce-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state change")
		},
	})
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		breaker:    cb,
		log:        log,
	}
}

// do sends the request through the breaker. Only transport failures count as
// breaker failures; any response, whatever its status, is a success for it.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("commerce backend unavailable: %w", err)
	}
	return resp, nil
}

// decodeError drains a non-2xx response into an *APIError.
func decodeError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = genericMessage(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login calls POST /api/auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	resp, err := c.postJSON(ctx, "/api/auth/login", "", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &session, nil
}

// Register calls POST /api/auth/register. The backend returns a usable token
// on success, so registration doubles as login.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	payload := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{name, email, password}

	resp, err := c.postJSON(ctx, "/api/auth/register", "", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode register response: %w", err)
	}
	return &session, nil
}

type productsPage struct {
	Products   []domain.Product `json:"products"`
	Pagination struct {
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
		Total   int `json:"total"`
		Pages   int `json:"pages"`
	} `json:"pagination"`
}

// Products fetches the full catalog, walking the paginated envelope.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var all []domain.Product
	for page := 1; ; page++ {
		var envelope productsPage
		path := fmt.Sprintf("/api/products?page=%d", page)
		if err := c.getJSON(ctx, path, "", &envelope); err != nil {
			return nil, err
		}
		all = append(all, envelope.Products...)
		if page >= envelope.Pagination.Pages {
			return all, nil
		}
	}
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/api/products/%d", id), "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories fetches the distinct product categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/api/categories", "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// PlaceOrder calls POST /api/orders with the checkout snapshot. Each attempt
// carries a fresh idempotency key so a retried submission is distinguishable
// server-side.
func (c *Client) PlaceOrder(ctx context.Context, token string, items []domain.CheckoutItem) (*domain.OrderConfirmation, error) {
	payload := struct {
		Items []domain.CheckoutItem `json:"items"`
	}{items}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var confirmation domain.OrderConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &confirmation, nil
}

// Orders fetches the authenticated user's order history.
func (c *Client) Orders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.getJSON(ctx, "/api/orders", token, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}
