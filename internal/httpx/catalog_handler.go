package httpx

import (
	"net/http"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

type packCost struct {
	Pack orders.VbucksPack `json:"pack"`
	Cost money.Amount      `json:"cost"`
}

type catalogResp struct {
	Categories    []orders.Category `json:"categories"`
	Suppliers     []orders.Supplier `json:"suppliers"`
	OrderStatuses []orders.Status   `json:"orderStatuses"`
	VbucksPacks   []packCost        `json:"vbucksPacks"`
}

// catalog lists the fixed tables the dashboards build their pickers from.
func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	packs := make([]packCost, 0, len(orders.VbucksPacks))
	for _, p := range orders.VbucksPacks {
		packs = append(packs, packCost{Pack: p, Cost: orders.CostFromPack(p)})
	}
	writeJSON(w, http.StatusOK, catalogResp{
		Categories:    orders.Categories,
		Suppliers:     orders.Suppliers,
		OrderStatuses: orders.OrderStatuses,
		VbucksPacks:   packs,
	})
}
