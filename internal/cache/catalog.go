package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// ProductStore is the persistence the catalog reads through to.
type ProductStore interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	List(ctx context.Context, skip, limit int64) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Catalog puts a Redis cache-aside in front of single product lookups.
// A nil client turns the cache off; Redis failures fall back to the store.
type Catalog struct {
	store  ProductStore
	client redis.UniversalClient
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger
}

func NewCatalog(store ProductStore, client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *Catalog {
	return &Catalog{store: store, client: client, ttl: ttl, log: log}
}

const flightTimeout = 5 * time.Second

func cacheKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (c *Catalog) Create(ctx context.Context, product models.Product) (models.Product, error) {
	return c.store.Create(ctx, product)
}

func (c *Catalog) List(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	return c.store.List(ctx, skip, limit)
}

func (c *Catalog) FindByID(ctx context.Context, id int64) (models.Product, error) {
	if product, ok := c.get(ctx, id); ok {
		return product, nil
	}

	// singleflight collapses concurrent misses for one id into a single read.
	// The shared load outlives any one caller's cancellation.
	value, err, _ := c.group.Do(cacheKey(id), func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()

		if product, ok := c.get(flightCtx, id); ok {
			return product, nil
		}
		product, err := c.store.FindByID(flightCtx, id)
		if err != nil {
			return models.Product{}, err
		}
		c.set(flightCtx, product)
		return product, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return value.(models.Product), nil
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, id)
	return nil
}

func (c *Catalog) get(ctx context.Context, id int64) (models.Product, bool) {
	if c.client == nil {
		return models.Product{}, false
	}
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Product{}, false
	}
	if err != nil {
		c.log.Warn("product cache read failed", "product_id", id, "error", err)
		return models.Product{}, false
	}

	var product models.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		c.log.Warn("product cache entry corrupt", "product_id", id, "error", err)
		return models.Product{}, false
	}
	return product, true
}

func (c *Catalog) set(ctx context.Context, product models.Product) {
	if c.client == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(product.ID), payload, c.ttl).Err(); err != nil {
		c.log.Warn("product cache write failed", "product_id", product.ID, "error", err)
	}
}

func (c *Catalog) evict(ctx context.Context, id int64) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.Warn("product cache evict failed", "product_id", id, "error", err)
	}
}
