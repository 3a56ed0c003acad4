package redisx

import (
	"fmt"
	"time"
)

const (
	// Persisted collections when Redis is the storage backend: kv:{key} -> JSON blob
	KeyKV = "kv:%s"

	// Cache status order: order_status:{order_id} -> {"status": "...", "offerStatus": "...", "updatedAt": "..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

func OrderStatusKey(orderID int64) string { return fmt.Sprintf(KeyOrderStatus, orderID) }

func DedupKey(service, eventID string) string { return fmt.Sprintf(KeyDedup, service, eventID) }
