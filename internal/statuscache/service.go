// Package statuscache keeps the Redis order status cache in step with the
// order.status.changed stream.
package statuscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/reseller-dashboard/internal/kafka"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/redisx"
)

// Cache is the slice of redisx.StatusCache the service needs.
type Cache interface {
	Claim(ctx context.Context, service, eventID string) (bool, error)
	Release(ctx context.Context, service, eventID string) error
	Put(ctx context.Context, st redisx.CachedStatus) error
}

type Service struct {
	Cache       Cache
	ServiceName string
}

// HandleOrderStatusChanged is installed as the consumer handler.
func (s *Service) HandleOrderStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	first, err := s.Cache.Claim(ctx, s.ServiceName, env.EventID)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		return nil
	}

	err = s.Cache.Put(ctx, redisx.CachedStatus{
		OrderID:     p.OrderID,
		Status:      string(p.Status),
		OfferStatus: string(p.OfferStatus),
		UpdatedAt:   env.OccurredAt.UTC().Format(time.RFC3339),
		Version:     env.OccurredAt.UnixMilli(),
	})
	if err != nil {
		// give the claim back so the redelivery is not taken for a duplicate
		if rerr := s.Cache.Release(ctx, s.ServiceName, env.EventID); rerr != nil {
			log.Printf("statuscache: release %s: %v", env.EventID, rerr)
		}
		return fmt.Errorf("cache status %d: %w", p.OrderID, err)
	}
	return nil
}
