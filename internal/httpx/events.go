package httpx

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	kafkax "github.com/ariefcatur/reseller-dashboard/internal/kafka"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/redisx"
)

// publish wraps payload in an envelope and hands it to the producer. A
// nil Events drops it.
func (s *Server) publish(r *http.Request, topic, eventType string, offerID int64, correlationID string, payload any) {
	if s.Events == nil {
		return
	}
	env := orders.NewEnvelope(eventType, s.Service, middleware.GetReqID(r.Context()), correlationID,
		kafkax.MustMarshal(payload), s.now())
	s.Events.Publish(topic, orders.PartitionKey(offerID), kafkax.MustMarshal(env),
		kafkax.EventHeaders(eventType, env.EventVersion)...)
}

func (s *Server) publishStatusChanged(r *http.Request, o orders.Order) {
	p := orders.OrderStatusChangedPayload{
		OrderID:    o.ID,
		OfferID:    o.OfferID,
		SupplierID: o.SupplierID,
		Status:     o.Status,
	}
	if ofr, ok := s.Store.Offer(o.OfferID); ok {
		p.OfferStatus = ofr.Status
	}
	s.publish(r, orders.TopicOrderStatusChanged, orders.EventOrderStatusChanged, o.OfferID, id64(o.ID), p)
	s.cacheOfferStatuses(r.Context(), o.OfferID)
}

// cacheOfferStatuses writes through the status of every order of an offer,
// since a change on one order or on the offer shows in all their entries.
func (s *Server) cacheOfferStatuses(ctx context.Context, offerID int64) {
	if s.Status == nil {
		return
	}
	var offerStatus orders.Status
	if ofr, ok := s.Store.Offer(offerID); ok {
		offerStatus = ofr.Status
	}
	now := s.now()
	for _, o := range s.Store.OrdersForOffer(offerID) {
		err := s.Status.Put(ctx, redisx.CachedStatus{
			OrderID:     o.ID,
			Status:      string(o.Status),
			OfferStatus: string(offerStatus),
			UpdatedAt:   now.UTC().Format(time.RFC3339),
			Version:     now.UnixMilli(),
		})
		if err != nil {
			log.Printf("httpx: cache status %d: %v", o.ID, err)
		}
	}
}

func id64(id int64) string { return strconv.FormatInt(id, 10) }
