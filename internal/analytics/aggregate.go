package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

// Partners splits the balance-view profit evenly.
const Partners = 3

var hundred = decimal.NewFromInt(100)

func OrdersIn(list []orders.Order, r Range) []orders.Order {
	out := make([]orders.Order, 0, len(list))
	for _, o := range list {
		if r.Contains(o.CreatedAt) {
			out = append(out, o)
		}
	}
	return out
}

func OffersIn(list []orders.Offer, r Range) []orders.Offer {
	out := make([]orders.Offer, 0, len(list))
	for _, o := range list {
		if r.Contains(o.CreatedAt) {
			out = append(out, o)
		}
	}
	return out
}

func CountOrders(list []orders.Order, r Range) int { return len(OrdersIn(list, r)) }

func CountOffers(list []orders.Offer, r Range) int { return len(OffersIn(list, r)) }

func completed(list []orders.Order) []orders.Order {
	out := make([]orders.Order, 0, len(list))
	for _, o := range list {
		if o.Status == orders.StatusCompleted {
			out = append(out, o)
		}
	}
	return out
}

// Revenue sums price * qty.
func Revenue(list []orders.Order) money.Amount {
	total := money.Zero()
	for _, o := range list {
		total = total.Add(o.Revenue())
	}
	return total
}

// CompletedRevenue is Revenue restricted to Completed orders.
func CompletedRevenue(list []orders.Order) money.Amount { return Revenue(completed(list)) }

// Cost sums ResolveCost * qty over Completed orders only.
func Cost(list []orders.Order) money.Amount {
	total := money.Zero()
	for _, o := range list {
		if o.Status != orders.StatusCompleted {
			continue
		}
		total = total.Add(ResolveCost(o).Mul(o.Qty))
	}
	return total
}

// ResolveCost prefers a positive orderCost and otherwise guesses the cost
// from a V-Bucks amount in the product text.
func ResolveCost(o orders.Order) money.Amount {
	if o.OrderCost.IsPositive() {
		return o.OrderCost
	}
	return orders.GuessCostFromProduct(o.Product)
}

// TopLine is the dashboard headline: every in-range order counts toward
// revenue, cost comes from the Completed ones.
type TopLine struct {
	Orders       int          `json:"orders"`
	ListedOffers int          `json:"listedOffers"`
	Revenue      money.Amount `json:"revenue"`
	Cost         money.Amount `json:"cost"`
	Profit       money.Amount `json:"profit"`
}

func Overview(snap orders.Snapshot, r Range) TopLine {
	in := OrdersIn(snap.Orders, r)
	revenue := Revenue(in)
	cost := Cost(in)
	return TopLine{
		Orders:       len(in),
		ListedOffers: CountOffers(snap.Offers, r),
		Revenue:      revenue,
		Cost:         cost,
		Profit:       revenue.Sub(cost),
	}
}

// Balance is the payout view: only Completed orders count.
type Balance struct {
	Completed int          `json:"completed"`
	Revenue   money.Amount `json:"revenue"`
	Cost      money.Amount `json:"cost"`
	Profit    money.Amount `json:"profit"`
	Each      money.Amount `json:"each"`
}

func BalanceOf(snap orders.Snapshot, r Range) Balance {
	done := completed(OrdersIn(snap.Orders, r))
	revenue := CompletedRevenue(done)
	cost := Cost(done)
	profit := revenue.Sub(cost)
	return Balance{
		Completed: len(done),
		Revenue:   revenue,
		Cost:      cost,
		Profit:    profit,
		Each:      profit.Div(Partners),
	}
}

// Delta compares a period's profit to the one before it. Percent is nil
// unless the previous profit is strictly positive.
type Delta struct {
	Current  money.Amount `json:"current"`
	Previous money.Amount `json:"previous"`
	Delta    money.Amount `json:"delta"`
	Percent  *float64     `json:"percent"`
}

func ProfitDelta(current, previous money.Amount) Delta {
	d := Delta{Current: current, Previous: previous, Delta: current.Sub(previous)}
	if previous.IsPositive() {
		pct, _ := d.Delta.Decimal().Div(previous.Decimal()).Mul(hundred).Round(2).Float64()
		d.Percent = &pct
	}
	return d
}

// Comparison is a TopLine next to the delta against the previous period.
type Comparison struct {
	Range    Range   `json:"range"`
	Current  TopLine `json:"current"`
	Previous TopLine `json:"previous"`
	Delta    Delta   `json:"delta"`
}

func Compare(snap orders.Snapshot, r Range) Comparison {
	cur := Overview(snap, r)
	prev := Overview(snap, r.Previous())
	return Comparison{
		Range:    r,
		Current:  cur,
		Previous: prev,
		Delta:    ProfitDelta(cur.Profit, prev.Profit),
	}
}

type SupplierRevenue struct {
	SupplierID orders.SupplierID `json:"supplierId"`
	Name       string            `json:"name"`
	Revenue    money.Amount      `json:"revenue"`
}

// BySupplier sums Completed revenue per supplier across the whole roster;
// suppliers without orders report zero.
func BySupplier(snap orders.Snapshot, r Range) []SupplierRevenue {
	sums := make(map[orders.SupplierID]money.Amount, len(orders.Suppliers))
	for _, o := range completed(OrdersIn(snap.Orders, r)) {
		sums[o.SupplierID] = sums[o.SupplierID].Add(o.Revenue())
	}
	out := make([]SupplierRevenue, 0, len(orders.Suppliers))
	for _, s := range orders.Suppliers {
		out = append(out, SupplierRevenue{SupplierID: s.ID, Name: s.Name, Revenue: sums[s.ID]})
	}
	return out
}

// Filter narrows OrderStats; zero fields match everything.
type Filter struct {
	Category   orders.Category
	SupplierID orders.SupplierID
	Status     orders.Status
}

func (f Filter) match(o orders.Order) bool {
	return (f.Category == "" || o.Category == f.Category) &&
		(f.SupplierID == "" || o.SupplierID == f.SupplierID) &&
		(f.Status == "" || o.Status == f.Status)
}

type OrderStats struct {
	Total            int            `json:"total"`
	Pending          int            `json:"pending"`
	Active           int            `json:"active"`
	Processing       int            `json:"processing"`
	Completed        int            `json:"completed"`
	CompletedRevenue money.Amount   `json:"completedRevenue"`
	Orders           []orders.Order `json:"orders"`
}

func StatsOf(snap orders.Snapshot, r Range, f Filter) OrderStats {
	st := OrderStats{Orders: []orders.Order{}}
	for _, o := range OrdersIn(snap.Orders, r) {
		if !f.match(o) {
			continue
		}
		st.Total++
		st.Orders = append(st.Orders, o)
		switch o.Status {
		case orders.StatusPending:
			st.Pending++
		case orders.StatusActive:
			st.Active++
		case orders.StatusProcessing:
			st.Processing++
		case orders.StatusCompleted:
			st.Completed++
			st.CompletedRevenue = st.CompletedRevenue.Add(o.Revenue())
		}
	}
	return st
}

// CategoryStats feeds the per-category offers page.
type CategoryStats struct {
	Category      orders.Category `json:"category"`
	ActiveOffers  int             `json:"activeOffers"`
	PendingOrders int             `json:"pendingOrders"`
	RevenueToday  money.Amount    `json:"revenueToday"`
}

func StatsForCategory(snap orders.Snapshot, c orders.Category, now time.Time, loc *time.Location) CategoryStats {
	st := CategoryStats{Category: c}
	for _, o := range snap.Offers {
		if o.Category == c && o.Status != orders.StatusCompleted && o.Status != orders.StatusInactive {
			st.ActiveOffers++
		}
	}
	today := StartOfDay(now, loc).UnixMilli()
	for _, o := range snap.Orders {
		if o.Category != c {
			continue
		}
		if o.Status == orders.StatusPending {
			st.PendingOrders++
		}
		if o.Status == orders.StatusCompleted && o.CreatedAt >= today {
			st.RevenueToday = st.RevenueToday.Add(o.Revenue())
		}
	}
	return st
}
