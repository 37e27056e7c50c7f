package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
)

const keyPrefix = "taxrate"

// DefaultTTL is used when the configured TTL is not positive.
const DefaultTTL = 10 * time.Minute

// TaxRateCache wraps a TaxRateLookup with a redis TTL cache. Concurrent
// misses for the same key share one load. A redis failure degrades to the
// wrapped lookup.
type TaxRateCache struct {
	client  *redis.Client
	next    portssvc.TaxRateLookup
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
}

var _ portssvc.TaxRateLookup = (*TaxRateCache)(nil)

// NewTaxRateCache instantiates the cache around next.
func NewTaxRateCache(client *redis.Client, next portssvc.TaxRateLookup, ttl time.Duration, m *metrics.Metrics) *TaxRateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TaxRateCache{client: client, next: next, ttl: ttl, metrics: m}
}

func cacheKey(productID string, side domain.TradeSide) string {
	return strings.Join([]string{keyPrefix, string(side), productID}, ":")
}

// ProductDefaults returns the cached defaults or loads and stores them.
func (c *TaxRateCache) ProductDefaults(ctx context.Context, productID string, side domain.TradeSide) (domain.ProductDefaults, error) {
	key := cacheKey(productID, side)

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var defaults domain.ProductDefaults
		if jsonErr := json.Unmarshal(payload, &defaults); jsonErr == nil {
			c.metrics.CacheLookup("hit")
			return defaults, nil
		}
		slog.WarnContext(ctx, "Discarding undecodable tax rate cache entry", slog.String("key", key))
	case errors.Is(err, redis.Nil):
		c.metrics.CacheLookup("miss")
	default:
		c.metrics.CacheLookup("error")
		slog.WarnContext(ctx, "Tax rate cache read failed, loading directly", slog.String("key", key), slog.Any("error", err))
	}

	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx), key, productID, side)
	})
	select {
	case <-ctx.Done():
		return domain.ProductDefaults{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return domain.ProductDefaults{}, res.Err
		}
		return res.Val.(domain.ProductDefaults), nil
	}
}

func (c *TaxRateCache) load(ctx context.Context, key, productID string, side domain.TradeSide) (domain.ProductDefaults, error) {
	defaults, err := c.next.ProductDefaults(ctx, productID, side)
	if err != nil {
		return domain.ProductDefaults{}, err
	}
	raw, err := json.Marshal(defaults)
	if err != nil {
		return defaults, nil
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Tax rate cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return defaults, nil
}

