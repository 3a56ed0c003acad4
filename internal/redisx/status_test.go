package redisx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*StatusCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStatusCache(rdb), mr
}

func TestStatusCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, hit, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, hit)

	st := CachedStatus{OrderID: 7, Status: "Active", OfferStatus: "Active", UpdatedAt: "2025-11-03T12:00:00Z", Version: 100}
	require.NoError(t, c.Put(ctx, st))

	got, hit, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, st, got)
	assert.Equal(t, TTLStatusCache, mr.TTL(OrderStatusKey(7)))
}

func TestStatusCache_OlderWriteLoses(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.Put(ctx, CachedStatus{OrderID: 7, Status: "Processing", OfferStatus: "Inactive", Version: 200}))
	require.NoError(t, c.Put(ctx, CachedStatus{OrderID: 7, Status: "Active", OfferStatus: "Active", Version: 150}))

	got, _, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Processing", got.Status)
	assert.Equal(t, "Inactive", got.OfferStatus)

	require.NoError(t, c.Put(ctx, CachedStatus{OrderID: 7, Status: "Completed", OfferStatus: "Inactive", Version: 200}))
	got, _, _ = c.Get(ctx, 7)
	assert.Equal(t, "Completed", got.Status, "equal versions overwrite")
}

func TestStatusCache_OverwritesUnversionedValue(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	require.NoError(t, mr.Set(OrderStatusKey(7), `{"orderId":7,"status":"Pending"}`))

	require.NoError(t, c.Put(ctx, CachedStatus{OrderID: 7, Status: "Active", Version: 1}))
	got, _, _ := c.Get(ctx, 7)
	assert.Equal(t, "Active", got.Status)
}

func TestStatusCache_ClaimRelease(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	first, err := c.Claim(ctx, "svc", "e-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := c.Claim(ctx, "svc", "e-1")
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, c.Release(ctx, "svc", "e-1"))
	first, err = c.Claim(ctx, "svc", "e-1")
	require.NoError(t, err)
	assert.True(t, first)
}
