// Package lastprice caches the most recent fill price per asset pair in
// redis for read-side consumers.
package lastprice

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(pair string) string {
	return fmt.Sprintf("lastprice:%s", pair)
}

func (c *Cache) Set(ctx context.Context, pair string, price decimal.Decimal) error {
	return c.rdb.Set(ctx, key(pair), price.String(), c.ttl).Err()
}

// Get returns the cached price and whether one was present.
func (c *Cache) Get(ctx context.Context, pair string) (decimal.Decimal, bool, error) {
	val, err := c.rdb.Get(ctx, key(pair)).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	price, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, err
	}
	return price, true, nil
}
