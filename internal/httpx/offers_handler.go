package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

type placeOfferReq struct {
	Category   orders.Category   `json:"category"`
	Game       string            `json:"game"`
	Product    string            `json:"product"`
	Price      money.Amount      `json:"price"`
	Stock      *int              `json:"stock"`
	SupplierID orders.SupplierID `json:"supplierId"`
	VbucksPack orders.VbucksPack `json:"vbucksPack"`
}

type placeOfferResp struct {
	Offer orders.Offer `json:"offer"`
	Order orders.Order `json:"order"`
}

type patchOfferReq struct {
	Game       *string            `json:"game"`
	Product    *string            `json:"product"`
	Price      *money.Amount      `json:"price"`
	Stock      *int               `json:"stock"`
	Status     *orders.Status     `json:"status"`
	SupplierID *orders.SupplierID `json:"supplierId"`
	VbucksPack *orders.VbucksPack `json:"vbucksPack"`
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func queryCategory(w http.ResponseWriter, r *http.Request) (orders.Category, bool) {
	c := orders.Category(r.URL.Query().Get("category"))
	if c != "" && !c.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category")
		return "", false
	}
	return c, true
}

func (s *Server) listOffers(w http.ResponseWriter, r *http.Request) {
	c, ok := queryCategory(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Store.OffersByCategory(c))
}

func (s *Server) placeOffer(w http.ResponseWriter, r *http.Request) {
	var req placeOfferReq
	if !decodeBody(w, r, &req) {
		return
	}
	ofr, ord, err := s.Store.PlaceOffer(r.Context(), orders.OfferInput{
		Category:   req.Category,
		Game:       req.Game,
		Product:    req.Product,
		Price:      req.Price,
		Stock:      req.Stock,
		SupplierID: req.SupplierID,
		VbucksPack: req.VbucksPack,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	s.publish(r, orders.TopicOfferCreated, orders.EventOfferCreated, ofr.ID, id64(ofr.ID), orders.OfferCreatedPayload{Offer: ofr})
	s.publish(r, orders.TopicOrderCreated, orders.EventOrderCreated, ofr.ID, id64(ord.ID), orders.OrderCreatedPayload{Order: ord})

	writeJSON(w, http.StatusCreated, placeOfferResp{Offer: ofr, Order: ord})
}

func (s *Server) updateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchOfferReq
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status != nil {
		writeError(w, http.StatusBadRequest, "offer status follows its orders; use archive to retire it")
		return
	}
	ofr, found, err := s.Store.UpdateOffer(r.Context(), id, orders.OfferPatch{
		Game:       req.Game,
		Product:    req.Product,
		Price:      req.Price,
		Stock:      req.Stock,
		SupplierID: req.SupplierID,
		VbucksPack: req.VbucksPack,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	writeJSON(w, http.StatusOK, ofr)
}

func (s *Server) archiveOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := s.Store.ArchiveOffer(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	s.publish(r, orders.TopicOfferArchived, orders.EventOfferArchived, id, id64(id), orders.OfferArchivedPayload{OfferID: id})
	s.cacheOfferStatuses(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}
