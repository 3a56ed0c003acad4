package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/reseller-dashboard/internal/clock"
	"github.com/ariefcatur/reseller-dashboard/internal/money"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/storage"
)

var t0 = time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

func amt(s string) money.Amount { return money.MustParse(s) }

func order(id int64, status orders.Status, price, cost string, createdAt time.Time) orders.Order {
	return orders.Order{
		ID: id, OfferID: id, Category: orders.CategoryCurrency, Game: "Fortnite",
		Product: "10,000 V-Bucks", Qty: 1, Price: amt(price), OrderCost: amt(cost),
		SupplierID: orders.DefaultSupplier, Status: status, CreatedAt: createdAt.UnixMilli(),
	}
}

func TestFortniteSaleEndToEnd(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	s, _, err := orders.Open(ctx, storage.NewMemory(), clk)
	require.NoError(t, err)

	_, ord, err := s.PlaceOffer(ctx, orders.OfferInput{
		Category:   orders.CategoryCurrency,
		Game:       "Fortnite",
		Product:    "10,000 V-Bucks",
		Price:      money.ParseStrict("$50.00"),
		SupplierID: "ffin",
		VbucksPack: 10000,
	})
	require.NoError(t, err)
	assert.Equal(t, "$27.62", ord.OrderCost.String())

	for range 3 {
		_, found, err := s.AdvanceOrder(ctx, ord.ID)
		require.NoError(t, err)
		require.True(t, found)
	}

	r := Last24h(clk.Now())
	top := Overview(s.Snapshot(), r)
	assert.Equal(t, 1, top.Orders)
	assert.Equal(t, "$50.00", top.Revenue.String())
	assert.Equal(t, "$27.62", top.Cost.String())
	assert.Equal(t, "$22.38", top.Profit.String())

	cmp := Compare(s.Snapshot(), r)
	assert.True(t, cmp.Previous.Profit.IsZero())
	assert.Nil(t, cmp.Delta.Percent)
	assert.Equal(t, "$22.38", cmp.Delta.Delta.String())
}

func TestCostOnlyCountsCompleted(t *testing.T) {
	list := []orders.Order{
		order(1, orders.StatusCompleted, "50", "27.62", t0),
		order(2, orders.StatusProcessing, "50", "27.62", t0),
	}
	assert.True(t, Revenue(list).Equal(amt("100")))
	assert.True(t, Cost(list).Equal(amt("27.62")))
}

func TestCountsAndCompletedRevenue(t *testing.T) {
	list := []orders.Order{
		order(1, orders.StatusCompleted, "50", "27.62", t0),
		order(2, orders.StatusActive, "20", "0", t0),
		order(3, orders.StatusCompleted, "5", "0", t0.Add(-48*time.Hour)),
	}
	r := Last24h(t0)
	assert.Equal(t, 2, CountOrders(list, r))
	assert.True(t, CompletedRevenue(OrdersIn(list, r)).Equal(amt("50")))
	assert.Equal(t, 1, CountOffers([]orders.Offer{{ID: 1, CreatedAt: t0.UnixMilli()}, {ID: 2}}, r))
}

func TestResolveCost(t *testing.T) {
	o := order(1, orders.StatusCompleted, "50", "0", t0)
	assert.True(t, ResolveCost(o).Equal(amt("27.62")), "guessed from product text")

	o.OrderCost = amt("20")
	assert.True(t, ResolveCost(o).Equal(amt("20")))

	o.OrderCost = money.Zero()
	o.Product = "Gold (100k)"
	assert.True(t, ResolveCost(o).IsZero())
}

func TestCostScalesWithQty(t *testing.T) {
	o := order(1, orders.StatusCompleted, "6", "3.44", t0)
	o.Qty = 3
	assert.True(t, Cost([]orders.Order{o}).Equal(amt("10.32")))
	assert.True(t, Revenue([]orders.Order{o}).Equal(amt("18")))
}

func TestBalanceOf(t *testing.T) {
	snap := orders.Snapshot{Orders: []orders.Order{
		order(1, orders.StatusCompleted, "50", "27.62", t0),
		order(2, orders.StatusPending, "500", "1", t0),
	}}
	b := BalanceOf(snap, Last24h(t0))
	assert.Equal(t, 1, b.Completed)
	assert.True(t, b.Revenue.Equal(amt("50")))
	assert.True(t, b.Profit.Equal(amt("22.38")))
	assert.Equal(t, "$7.46", b.Each.String())
}

func TestProfitDelta(t *testing.T) {
	tests := []struct {
		name    string
		cur     string
		prev    string
		percent *float64
	}{
		{"growth", "150", "100", ptr(50)},
		{"decline", "50", "200", ptr(-75)},
		{"previous zero", "10", "0", nil},
		{"previous negative", "10", "-5", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ProfitDelta(amt(tt.cur), amt(tt.prev))
			assert.True(t, d.Delta.Equal(amt(tt.cur).Sub(amt(tt.prev))))
			if tt.percent == nil {
				assert.Nil(t, d.Percent)
				return
			}
			require.NotNil(t, d.Percent)
			assert.InDelta(t, *tt.percent, *d.Percent, 0.001)
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestBySupplierListsWholeRoster(t *testing.T) {
	o := order(1, orders.StatusCompleted, "50", "27.62", t0)
	o.SupplierID = "sup2"
	pending := order(2, orders.StatusPending, "99", "0", t0)
	out := BySupplier(orders.Snapshot{Orders: []orders.Order{o, pending}}, Last24h(t0))

	require.Len(t, out, len(orders.Suppliers))
	got := map[orders.SupplierID]money.Amount{}
	for _, s := range out {
		got[s.SupplierID] = s.Revenue
	}
	assert.True(t, got["sup2"].Equal(amt("50")))
	assert.True(t, got["ffin"].IsZero())
	assert.True(t, got["sup3"].IsZero())
}

func TestStatsOf(t *testing.T) {
	item := order(3, orders.StatusCompleted, "5", "0", t0)
	item.Category = orders.CategoryItem
	snap := orders.Snapshot{Orders: []orders.Order{
		order(1, orders.StatusCompleted, "50", "27.62", t0),
		order(2, orders.StatusPending, "10", "0", t0),
		item,
		order(4, orders.StatusCompleted, "70", "0", t0.Add(-72*time.Hour)),
	}}
	r := Last24h(t0)

	all := StatsOf(snap, r, Filter{})
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 2, all.Completed)
	assert.Equal(t, 1, all.Pending)
	assert.True(t, all.CompletedRevenue.Equal(amt("55")))

	cur := StatsOf(snap, r, Filter{Category: orders.CategoryCurrency, Status: orders.StatusCompleted})
	assert.Equal(t, 1, cur.Total)
	require.Len(t, cur.Orders, 1)
	assert.Equal(t, int64(1), cur.Orders[0].ID)

	none := StatsOf(snap, r, Filter{SupplierID: "sup3"})
	assert.Zero(t, none.Total)
	assert.NotNil(t, none.Orders)
}

func TestStatsForCategory(t *testing.T) {
	snap := orders.Snapshot{
		Offers: []orders.Offer{
			{ID: 1, Category: orders.CategoryCurrency, Status: orders.StatusPending},
			{ID: 2, Category: orders.CategoryCurrency, Status: orders.StatusCompleted},
			{ID: 3, Category: orders.CategoryCurrency, Status: orders.StatusInactive},
			{ID: 4, Category: orders.CategoryCurrency, Status: orders.StatusProcessing},
			{ID: 5, Category: orders.CategoryItem, Status: orders.StatusPending},
		},
		Orders: []orders.Order{
			order(1, orders.StatusPending, "10", "0", t0),
			order(2, orders.StatusCompleted, "50", "0", t0.Add(-time.Hour)),
			order(3, orders.StatusCompleted, "20", "0", t0.Add(-24*time.Hour)),
		},
	}
	st := StatsForCategory(snap, orders.CategoryCurrency, t0, time.UTC)
	assert.Equal(t, 2, st.ActiveOffers)
	assert.Equal(t, 1, st.PendingOrders)
	assert.True(t, st.RevenueToday.Equal(amt("50")))
}

func TestRanges(t *testing.T) {
	r := Last24h(t0)
	assert.Equal(t, int64(24*time.Hour/time.Millisecond), r.Len())
	assert.True(t, r.Contains(t0.UnixMilli()))
	assert.False(t, r.Contains(t0.Add(time.Millisecond).UnixMilli()))

	prev := r.Previous()
	assert.Equal(t, r.From, prev.To)
	assert.Equal(t, r.Len(), prev.Len())

	week := LastDays(t0, 7, time.UTC)
	assert.Equal(t, time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC).UnixMilli(), week.From)
	assert.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC).UnixMilli()-1, week.To)

	today := Today(t0, time.UTC)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC).UnixMilli(), today.From)

	c := Custom(t0, t0.Add(-time.Hour))
	assert.Less(t, c.From, c.To)

	d := Days(t0, t0.AddDate(0, 0, -2), time.UTC)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), d.From)
}

func TestStartOfDayHonoursLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	late := time.Date(2025, 11, 3, 23, 30, 0, 0, time.UTC) // already Nov 4 in CET
	assert.Equal(t, 4, StartOfDay(late, cet).Day())
	assert.Equal(t, 3, StartOfDay(late, nil).Day())
}
