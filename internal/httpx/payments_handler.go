package httpx

import (
	"net/http"

	"github.com/ariefcatur/reseller-dashboard/internal/ledger"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

type supplierCard struct {
	ID      orders.SupplierID `json:"id"`
	Name    string            `json:"name"`
	Details string            `json:"details"`
}

type paymentsResp struct {
	Suppliers []supplierCard   `json:"suppliers"`
	Rows      []ledger.Payment `json:"rows"`
	Totals    ledger.Totals    `json:"totals"`
}

type addPaymentReq struct {
	SupplierID orders.SupplierID `json:"supplierId"`
	Type       ledger.Type       `json:"type"`
	Quantity   float64           `json:"quantity"`
	Note       string            `json:"note"`
}

func (s *Server) supplierCards() []supplierCard {
	out := make([]supplierCard, 0, len(orders.Suppliers))
	for _, sup := range orders.Suppliers {
		details, ok := s.PaymentDetails[string(sup.ID)]
		if !ok {
			details = ledger.DefaultDetails[sup.ID]
		}
		out = append(out, supplierCard{ID: sup.ID, Name: sup.Name, Details: details})
	}
	return out
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paymentsResp{
		Suppliers: s.supplierCards(),
		Rows:      s.Ledger.List(),
		Totals:    s.Ledger.Totals(),
	})
}

func (s *Server) addPayment(w http.ResponseWriter, r *http.Request) {
	var req addPaymentReq
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.Ledger.Add(r.Context(), ledger.Input{
		SupplierID: req.SupplierID,
		Type:       req.Type,
		Quantity:   req.Quantity,
		Note:       req.Note,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// clearData wipes offers, orders and the payment log.
func (s *Server) clearData(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.ClearAll(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.Ledger.Clear(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
