package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/reseller-dashboard/internal/analytics"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

const dateLayout = "2006-01-02"

func (s *Server) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// parseRange reads ?from=YYYY-MM-DD&to=YYYY-MM-DD (whole days in the
// analytics zone) or ?range=24h|today|all|{n}d. def applies when neither
// is given.
func (s *Server) parseRange(r *http.Request, def string) (analytics.Range, error) {
	q := r.URL.Query()
	now := s.now()
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		if from == "" || to == "" {
			return analytics.Range{}, fmt.Errorf("from and to go together")
		}
		a, err := time.ParseInLocation(dateLayout, from, s.loc())
		if err != nil {
			return analytics.Range{}, fmt.Errorf("bad from: %w", err)
		}
		b, err := time.ParseInLocation(dateLayout, to, s.loc())
		if err != nil {
			return analytics.Range{}, fmt.Errorf("bad to: %w", err)
		}
		return analytics.Days(a, b, s.loc()), nil
	}

	preset := q.Get("range")
	if preset == "" {
		preset = def
	}
	switch preset {
	case "24h":
		return analytics.Last24h(now), nil
	case "today":
		return analytics.Today(now, s.loc()), nil
	case "all":
		return analytics.AllTime(), nil
	}
	if n, err := strconv.Atoi(strings.TrimSuffix(preset, "d")); err == nil && strings.HasSuffix(preset, "d") && n > 0 {
		return analytics.LastDays(now, n, s.loc()), nil
	}
	return analytics.Range{}, fmt.Errorf("unknown range %q", preset)
}

func (s *Server) rangeOr400(w http.ResponseWriter, r *http.Request, def string) (analytics.Range, bool) {
	rg, err := s.parseRange(r, def)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return analytics.Range{}, false
	}
	return rg, true
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	rg, ok := s.rangeOr400(w, r, "24h")
	if !ok {
		return
	}
	if rg == analytics.AllTime() {
		writeError(w, http.StatusBadRequest, "overview needs a bounded range")
		return
	}
	writeJSON(w, http.StatusOK, analytics.Compare(s.Store.Snapshot(), rg))
}

type balanceResp struct {
	analytics.Balance
	Suppliers []analytics.SupplierRevenue `json:"suppliers"`
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	rg, ok := s.rangeOr400(w, r, "all")
	if !ok {
		return
	}
	snap := s.Store.Snapshot()
	writeJSON(w, http.StatusOK, balanceResp{
		Balance:   analytics.BalanceOf(snap, rg),
		Suppliers: analytics.BySupplier(snap, rg),
	})
}

func (s *Server) orderStats(w http.ResponseWriter, r *http.Request) {
	rg, ok := s.rangeOr400(w, r, "all")
	if !ok {
		return
	}
	c, ok := queryCategory(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := analytics.Filter{
		Category:   c,
		SupplierID: orders.SupplierID(q.Get("supplierId")),
		Status:     orders.Status(q.Get("status")),
	}
	if f.Status != "" && !f.Status.IsOrderStatus() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	writeJSON(w, http.StatusOK, analytics.StatsOf(s.Store.Snapshot(), rg, f))
}

func (s *Server) categoryStats(w http.ResponseWriter, r *http.Request) {
	c := orders.Category(chi.URLParam(r, "category"))
	if !c.Valid() {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}
	writeJSON(w, http.StatusOK, analytics.StatsForCategory(s.Store.Snapshot(), c, s.now(), s.loc()))
}
