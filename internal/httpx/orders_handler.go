package httpx

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/redisx"
)

// orderView adds the supplier-facing action label to an order.
type orderView struct {
	orders.Order
	NextAction string `json:"nextAction,omitempty"`
}

func view(o orders.Order) orderView {
	return orderView{Order: o, NextAction: orders.NextAction(o.Status)}
}

func views(list []orders.Order) []orderView {
	out := make([]orderView, 0, len(list))
	for _, o := range list {
		out = append(out, view(o))
	}
	return out
}

type setStatusReq struct {
	Status orders.Status `json:"status"`
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	c, ok := queryCategory(w, r)
	if !ok {
		return
	}
	out := make([]orders.Order, 0)
	for _, o := range s.Store.Orders() {
		if c == "" || o.Category == c {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, views(out))
}

// visibleOrder loads an order the caller may see, writing 404 otherwise.
// Suppliers get 404 rather than 403 for other suppliers' orders.
func (s *Server) visibleOrder(w http.ResponseWriter, r *http.Request) (orders.Order, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return orders.Order{}, false
	}
	o, found := s.Store.Order(id)
	if !found || !canSee(userFrom(r.Context()), o.SupplierID) {
		writeError(w, http.StatusNotFound, "order not found")
		return orders.Order{}, false
	}
	return o, true
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.visibleOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(o))
}

// getOrderStatus answers from the Redis cache and falls back to the store.
func (s *Server) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	o, ok := s.visibleOrder(w, r)
	if !ok {
		return
	}
	if s.Status != nil {
		st, hit, err := s.Status.Get(r.Context(), o.ID)
		if err != nil {
			log.Printf("httpx: status cache %d: %v", o.ID, err)
		}
		if hit {
			writeJSON(w, http.StatusOK, st)
			return
		}
	}
	st := redisx.CachedStatus{OrderID: o.ID, Status: string(o.Status)}
	if ofr, found := s.Store.Offer(o.OfferID); found {
		st.OfferStatus = string(ofr.Status)
	}
	writeJSON(w, http.StatusOK, st)
}

// advanceOrder applies the single forward step shown to suppliers as
// Accept, Start or Complete.
func (s *Server) advanceOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.visibleOrder(w, r)
	if !ok {
		return
	}
	updated, found, err := s.Store.AdvanceOrder(r.Context(), o.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	s.publishStatusChanged(r, updated)
	writeJSON(w, http.StatusOK, view(updated))
}

// setOrderStatus is the admin override: any order status, no step check.
func (s *Server) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req setStatusReq
	if !decodeBody(w, r, &req) {
		return
	}
	updated, found, err := s.Store.TransitionOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	s.publishStatusChanged(r, updated)
	writeJSON(w, http.StatusOK, view(updated))
}

func (s *Server) supplierOrders(w http.ResponseWriter, r *http.Request) {
	id := orders.SupplierID(chi.URLParam(r, "supplierID"))
	if !id.Valid() {
		writeError(w, http.StatusNotFound, "unknown supplier")
		return
	}
	if !canSee(userFrom(r.Context()), id) {
		writeError(w, http.StatusForbidden, "not your orders")
		return
	}
	c, ok := queryCategory(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views(s.Store.OrdersForSupplier(id, c)))
}
