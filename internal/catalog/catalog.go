// Package catalog is a read-through cache over the backend's product
// endpoints. The cart snapshots product data at add time, so slightly stale
// catalog reads are acceptable; checkout re-validates server-side anyway.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
)

const defaultTTL = 30 * time.Second

// Lister is the slice of the commerce client the catalog needs.
type Lister interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type Catalog struct {
	client Lister
	log    logrus.FieldLogger
	ttl    time.Duration
	sfg    singleflight.Group // Prevents concurrent misses hitting the backend

	mu        sync.RWMutex
	products  []domain.Product
	fetchedAt time.Time
}

func New(client Lister, log logrus.FieldLogger) *Catalog {
	return &Catalog{
		client: client,
		log:    log,
		ttl:    defaultTTL,
	}
}

// Products returns the catalog, served from cache while fresh. Concurrent
// cache misses collapse into a single backend call.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	if products, ok := c.cached(); ok {
		return products, nil
	}

	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		// Re-check under singleflight, another caller may have refreshed.
		if products, ok := c.cached(); ok {
			return products, nil
		}

		products, err := c.client.Products(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.products = products
		c.fetchedAt = time.Now()
		c.mu.Unlock()

		out := make([]domain.Product, len(products))
		copy(out, products)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Product returns one product, from the cached catalog when fresh, otherwise
// straight from the backend.
func (c *Catalog) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if products, ok := c.cached(); ok {
		for i := range products {
			if products[i].ID == id {
				p := products[i]
				return &p, nil
			}
		}
	}
	return c.client.Product(ctx, id)
}

// Categories is a pass-through; the endpoint is cheap and rarely used.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	return c.client.Categories(ctx)
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.fetchedAt = time.Time{}
}

// cached returns a copy of the catalog when it is still fresh. Freshness is
// tracked by fetch time, not by slice contents, so an empty catalog caches
// like any other. Returning a copy keeps callers from mutating the cache.
func (c *Catalog) cached() ([]domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || time.Since(c.fetchedAt) > c.ttl {
		return nil, false
	}
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, true
}
