// Package menucache keeps the public menu and the staff table list in redis
// so browsing customers do not hammer the backend. Order and account data is
// never cached here; those are re-fetched on every view.
package menucache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"mesacard/internal/api"
	"mesacard/internal/tablestate"
)

const (
	MENU_CACHE_PREFIX      = "menu:"
	MENU_CATEGORIES_KEY    = "menu:categories"
	MENU_PRODUCTS_KEY      = "menu:products"
	MENU_PRODUCTS_BY_GROUP = "menu:products:category:"
	TABLE_LIST_CACHE_KEY   = "tables:list"
	CACHE_TTL_MENU         = 5 * time.Minute
	CACHE_TTL_TABLES       = 30 * time.Second
)

type Cache struct {
	redis      *redis.Client
	products   *api.ProductService
	categories *api.CategoryService
	tables     *api.TableService
}

// New builds the cache and subscribes it to table releases: a freed table
// drops the cached table list so the next render sees the backend's truth.
func New(rdb *redis.Client, clients *api.Clients, releases *tablestate.Store) *Cache {
	c := &Cache{
		redis:      rdb,
		products:   clients.Products,
		categories: clients.Categories,
		tables:     clients.Tables,
	}

	ch, _ := releases.Subscribe()
	go func() {
		for tableID := range ch {
			c.InvalidateTables(context.Background())
			log.Printf("table %d freed, table list cache dropped", tableID)
		}
	}()

	return c
}

func (c *Cache) ActiveCategories(ctx context.Context) ([]api.Category, error) {
	var categories []api.Category
	err := c.through(ctx, MENU_CATEGORIES_KEY, CACHE_TTL_MENU, &categories, func() (interface{}, error) {
		return c.categories.Active(ctx)
	})
	return categories, err
}

func (c *Cache) ActiveProducts(ctx context.Context) ([]api.Product, error) {
	var products []api.Product
	err := c.through(ctx, MENU_PRODUCTS_KEY, CACHE_TTL_MENU, &products, func() (interface{}, error) {
		return c.products.Active(ctx)
	})
	return products, err
}

func (c *Cache) ProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error) {
	key := fmt.Sprintf("%s%d", MENU_PRODUCTS_BY_GROUP, categoryID)
	var products []api.Product
	err := c.through(ctx, key, CACHE_TTL_MENU, &products, func() (interface{}, error) {
		return c.products.ByCategory(ctx, categoryID)
	})
	return products, err
}

func (c *Cache) Tables(ctx context.Context) ([]api.Table, error) {
	var tables []api.Table
	err := c.through(ctx, TABLE_LIST_CACHE_KEY, CACHE_TTL_TABLES, &tables, func() (interface{}, error) {
		return c.tables.List(ctx)
	})
	return tables, err
}

func (c *Cache) InvalidateMenu(ctx context.Context) {
	iter := c.redis.Scan(ctx, 0, MENU_CACHE_PREFIX+"*", 50).Iterator()
	for iter.Next(ctx) {
		_ = c.redis.Del(ctx, iter.Val())
	}
}

func (c *Cache) InvalidateTables(ctx context.Context) {
	_ = c.redis.Del(ctx, TABLE_LIST_CACHE_KEY)
}

// through returns the cached value for key, or fetches, caches, and returns
// it. Redis being down degrades to a plain fetch; a cache problem must never
// fail a render.
func (c *Cache) through(ctx context.Context, key string, ttl time.Duration, out interface{}, fetch func() (interface{}, error)) error {
	cached, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(cached, out); err == nil {
			return nil
		}
		_ = c.redis.Del(ctx, key)
	}

	fresh, err := fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(fresh)
	if err != nil {
		return fmt.Errorf("encode cache payload for %s: %w", key, err)
	}
	if err := c.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("cache write for %s failed: %v", key, err)
	}
	return json.Unmarshal(payload, out)
}
