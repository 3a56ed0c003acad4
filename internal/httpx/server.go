package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/reseller-dashboard/internal/auth"
	"github.com/ariefcatur/reseller-dashboard/internal/clock"
	"github.com/ariefcatur/reseller-dashboard/internal/ledger"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/redisx"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// StatusCache is satisfied by *redisx.StatusCache.
type StatusCache interface {
	Get(ctx context.Context, orderID int64) (redisx.CachedStatus, bool, error)
	Put(ctx context.Context, st redisx.CachedStatus) error
}

// Server wires the HTTP surface to the store. Events and Status are
// optional.
type Server struct {
	Store          *orders.Store
	Ledger         *ledger.Ledger
	Events         Publisher
	Status         StatusCache
	Clock          clock.Clock
	Location       *time.Location
	Service        string
	PaymentDetails map[string]string
}

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/catalog", s.catalog)
		r.Get("/orders/{id}", s.getOrder)
		r.Get("/orders/{id}/status", s.getOrderStatus)
		r.Post("/orders/{id}/advance", s.advanceOrder)
		r.Get("/suppliers/{supplierID}/orders", s.supplierOrders)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/offers", s.listOffers)
			r.Post("/offers", s.placeOffer)
			r.Patch("/offers/{id}", s.updateOffer)
			r.Post("/offers/{id}/archive", s.archiveOffer)

			r.Get("/orders", s.listOrders)
			r.Put("/orders/{id}/status", s.setOrderStatus)

			r.Get("/analytics/overview", s.overview)
			r.Get("/analytics/balance", s.balance)
			r.Get("/analytics/orders", s.orderStats)
			r.Get("/analytics/categories/{category}", s.categoryStats)

			r.Get("/payments", s.listPayments)
			r.Post("/payments", s.addPayment)

			r.Delete("/data", s.clearData)
		})
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeErr maps domain errors onto status codes. Anything unknown is a
// storage failure.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrInvalidRecord),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidPayment):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("httpx: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func (s *Server) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
