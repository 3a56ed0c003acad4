package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOfferCreated       = "OfferCreated"
	EventOfferArchived      = "OfferArchived"
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the constants above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "dashboard-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // offer or order id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type OfferCreatedPayload struct {
	Offer Offer `json:"offer"`
}

type OfferArchivedPayload struct {
	OfferID int64 `json:"offer_id"`
}

type OrderCreatedPayload struct {
	Order Order `json:"order"`
}

type OrderStatusChangedPayload struct {
	OrderID    int64      `json:"order_id"`
	OfferID    int64      `json:"offer_id"`
	SupplierID SupplierID `json:"supplier_id"`
	Status     Status     `json:"status"`
	// OfferStatus is the parent offer's status after propagation, empty when
	// the offer reference dangles.
	OfferStatus Status `json:"offer_status,omitempty"`
}

// NewEnvelope wraps an already-encoded payload.
func NewEnvelope(eventType, producer, traceID, correlationID string, payload json.RawMessage, now time.Time) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    now.UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}
