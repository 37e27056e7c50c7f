package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/platform/cache"
)

type countingLookup struct {
	mu       sync.Mutex
	calls    int
	defaults domain.ProductDefaults
	err      error
}

func (l *countingLookup) ProductDefaults(_ context.Context, _ string, _ domain.TradeSide) (domain.ProductDefaults, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.defaults, l.err
}

func (l *countingLookup) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func newTestCache(t *testing.T, next *countingLookup, ttl time.Duration) (*cache.TaxRateCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewTaxRateCache(client, next, ttl, nil), mr
}

func gst18() domain.ProductDefaults {
	return domain.ProductDefaults{UnitPrice: decimal.RequireFromString("100.00"), TaxPercent: decimal.NewFromInt(18)}
}

func TestProductDefaultsCachesWithinTTL(t *testing.T) {
	next := &countingLookup{defaults: gst18()}
	c, mr := newTestCache(t, next, time.Minute)
	ctx := context.Background()

	first, err := c.ProductDefaults(ctx, "p-1", domain.Purchase)
	require.NoError(t, err)
	second, err := c.ProductDefaults(ctx, "p-1", domain.Purchase)
	require.NoError(t, err)

	assert.Equal(t, 1, next.count())
	assert.True(t, first.TaxPercent.Equal(second.TaxPercent))
	assert.True(t, second.UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, mr.Exists("taxrate:purchase:p-1"))

	// The sales side is a separate key.
	_, err = c.ProductDefaults(ctx, "p-1", domain.Sales)
	require.NoError(t, err)
	assert.Equal(t, 2, next.count())
}

func TestProductDefaultsReloadsAfterExpiry(t *testing.T) {
	next := &countingLookup{defaults: gst18()}
	c, mr := newTestCache(t, next, time.Minute)
	ctx := context.Background()

	_, err := c.ProductDefaults(ctx, "p-1", domain.Purchase)
	require.NoError(t, err)

	next.mu.Lock()
	next.defaults.TaxPercent = decimal.NewFromInt(12)
	next.mu.Unlock()
	mr.FastForward(2 * time.Minute)

	got, err := c.ProductDefaults(ctx, "p-1", domain.Purchase)
	require.NoError(t, err)
	assert.Equal(t, 2, next.count())
	assert.True(t, got.TaxPercent.Equal(decimal.NewFromInt(12)))
}

func TestProductDefaultsDoesNotCacheErrors(t *testing.T) {
	next := &countingLookup{err: apperrors.NewNotFoundError("product", "p-404")}
	c, mr := newTestCache(t, next, time.Minute)
	ctx := context.Background()

	_, err := c.ProductDefaults(ctx, "p-404", domain.Sales)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = c.ProductDefaults(ctx, "p-404", domain.Sales)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, 2, next.count())
	assert.False(t, mr.Exists("taxrate:sales:p-404"))
}

func TestProductDefaultsFallsBackWhenRedisIsDown(t *testing.T) {
	next := &countingLookup{defaults: gst18()}
	c, mr := newTestCache(t, next, time.Minute)
	mr.Close()

	got, err := c.ProductDefaults(context.Background(), "p-1", domain.Purchase)
	require.NoError(t, err)
	assert.True(t, got.TaxPercent.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 1, next.count())
}
