package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CachedStatus is the value kept under order_status:{id}. Version is the
// write's instant in unix milliseconds; a lower version never replaces a
// higher one.
type CachedStatus struct {
	OrderID     int64  `json:"orderId"`
	Status      string `json:"status"`
	OfferStatus string `json:"offerStatus,omitempty"`
	UpdatedAt   string `json:"updatedAt"`
	Version     int64  `json:"version"`
}

// putIfNewer sets KEYS[1] to ARGV[1] with a PX of ARGV[3] unless the
// cached value carries a version above ARGV[2]. Returns 1 when written.
var putIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local ok, old = pcall(cjson.decode, cur)
  if ok and type(old) == 'table' and tonumber(old.version) and tonumber(old.version) > tonumber(ARGV[2]) then
    return 0
  end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// StatusCache reads and writes the order status cache.
type StatusCache struct {
	rdb redis.Cmdable
}

func NewStatusCache(rdb redis.Cmdable) *StatusCache { return &StatusCache{rdb: rdb} }

func (c *StatusCache) Get(ctx context.Context, orderID int64) (CachedStatus, bool, error) {
	raw, err := c.rdb.Get(ctx, OrderStatusKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedStatus{}, false, nil
	}
	if err != nil {
		return CachedStatus{}, false, err
	}
	var st CachedStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return CachedStatus{}, false, fmt.Errorf("decode cached status %d: %w", orderID, err)
	}
	return st, true, nil
}

// Put stores st unless the cache already holds a newer version for the
// order. Equal versions overwrite.
func (c *StatusCache) Put(ctx context.Context, st CachedStatus) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	keys := []string{OrderStatusKey(st.OrderID)}
	return putIfNewer.Run(ctx, c.rdb, keys, b, st.Version, TTLStatusCache.Milliseconds()).Err()
}

// Claim marks an event as seen. It returns false when another worker
// already processed it.
func (c *StatusCache) Claim(ctx context.Context, service, eventID string) (bool, error) {
	return c.rdb.SetNX(ctx, DedupKey(service, eventID), "1", TTLDedup).Result()
}

// Release drops a claim so a redelivered event is processed again.
func (c *StatusCache) Release(ctx context.Context, service, eventID string) error {
	return c.rdb.Del(ctx, DedupKey(service, eventID)).Err()
}
