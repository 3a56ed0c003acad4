package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
)

const loadNow = int64(1_760_000_000_000)

func decode(t *testing.T, raw string) any {
	t.Helper()
	v := DecodeBlob(raw, true)
	require.NotNil(t, v, "fixture must be valid JSON")
	return v
}

func TestDecodeBlob(t *testing.T) {
	assert.Nil(t, DecodeBlob("", false))
	assert.Nil(t, DecodeBlob("", true))
	assert.Nil(t, DecodeBlob("{oops", true))
	assert.NotNil(t, DecodeBlob("[]", true))
}

func TestMigrateOffers_DropsUnrecoverable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing id", `{"category":"item","game":"G","product":"P","price":"$1.00"}`},
		{"string id", `{"id":"7","category":"item","game":"G","product":"P","price":"$1.00"}`},
		{"unknown category", `{"id":1,"category":"skins","game":"G","product":"P","price":"$1.00"}`},
		{"empty game", `{"id":1,"category":"item","game":"","product":"P","price":"$1.00"}`},
		{"missing product", `{"id":1,"category":"item","game":"G","price":"$1.00"}`},
		{"numeric price", `{"id":1,"category":"item","game":"G","product":"P","price":1}`},
		{"not an object", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `[{"id":9,"category":"item","game":"G","product":"P","price":"$2.00"},` + tt.raw + `]`
			offers, stats := MigrateOffers(decode(t, raw), loadNow)
			require.Len(t, offers, 1)
			assert.Equal(t, int64(9), offers[0].ID)
			assert.Equal(t, 1, stats.Dropped)
			assert.Equal(t, 1, stats.Kept)
		})
	}
}

func TestMigrateOffers_NonArray(t *testing.T) {
	for _, raw := range []string{`{}`, `42`, `null`, `"x"`} {
		offers, stats := MigrateOffers(DecodeBlob(raw, true), loadNow)
		assert.Empty(t, offers, raw)
		assert.Zero(t, stats.Kept)
	}
	offers, _ := MigrateOffers(nil, loadNow)
	assert.Empty(t, offers)
}

func TestMigrateOffers_Defaults(t *testing.T) {
	raw := `[
		{"id":1,"category":"currency","game":"Fortnite","product":"10,000 V-Bucks","price":"$50.00","status":"Inactive","supplierId":"sup2","vbucksPack":10000,"stock":3,"createdAt":1700},
		{"id":2,"category":"item","game":"G","product":"P","price":"$1.00","status":"Active"},
		{"id":3,"category":"item","game":"G","product":"P","price":"$1.00","status":"Processing","supplierId":"nobody","vbucksPack":7}
	]`
	offers, stats := MigrateOffers(decode(t, raw), loadNow)
	require.Len(t, offers, 3)

	first := offers[0]
	assert.Equal(t, StatusInactive, first.Status)
	assert.Equal(t, SupplierID("sup2"), first.SupplierID)
	assert.Equal(t, VbucksPack(10000), first.VbucksPack)
	require.NotNil(t, first.Stock)
	assert.Equal(t, 3, *first.Stock)
	assert.Equal(t, int64(1700), first.CreatedAt)
	assert.True(t, first.Price.Equal(money.MustParse("50")))

	// legacy listing state
	assert.Equal(t, StatusPending, offers[1].Status)
	assert.Equal(t, loadNow, offers[1].CreatedAt)
	assert.Nil(t, offers[1].Stock)

	assert.Equal(t, StatusProcessing, offers[2].Status)
	assert.Empty(t, offers[2].SupplierID)
	assert.Zero(t, offers[2].VbucksPack)

	assert.Positive(t, stats.Defaulted)
}

func TestMigrateOrders_Defaults(t *testing.T) {
	raw := `[{"id":5,"category":"item","game":"G","product":"P","price":"$12.50","status":"Shipped"}]`
	orders, stats := MigrateOrders(decode(t, raw), loadNow)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.True(t, o.OrderCost.Equal(o.Price), "missing orderCost falls back to price")
	assert.True(t, o.OrderCost.Equal(money.MustParse("12.5")))
	assert.Equal(t, int64(5), o.OfferID, "missing offerId points at itself")
	assert.Equal(t, DefaultSupplier, o.SupplierID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 1, o.Qty)
	assert.Equal(t, loadNow, o.CreatedAt)
	assert.Equal(t, 6, stats.Defaulted)
}

func TestMigrateOrders_KeepsWellFormed(t *testing.T) {
	raw := `[{"id":11,"offerId":10,"category":"currency","game":"Fortnite","product":"1,000 V-Bucks","qty":2,
		"price":"$6.00","orderCost":"$3.44","supplierId":"sup3","status":"Processing","createdAt":123}]`
	orders, stats := MigrateOrders(decode(t, raw), loadNow)
	require.Len(t, orders, 1)
	assert.Zero(t, stats.Defaulted)
	o := orders[0]
	assert.Equal(t, int64(11), o.ID)
	assert.Equal(t, int64(10), o.OfferID)
	assert.Equal(t, CategoryCurrency, o.Category)
	assert.Equal(t, 2, o.Qty)
	assert.Equal(t, SupplierID("sup3"), o.SupplierID)
	assert.Equal(t, int64(123), o.CreatedAt)
	assert.True(t, o.Price.Equal(money.MustParse("6")))
	assert.True(t, orders[0].OrderCost.Equal(money.MustParse("3.44")))
	assert.Equal(t, StatusProcessing, orders[0].Status)
}

func TestMigrate_SeedGuardDiscardsWholeCollection(t *testing.T) {
	offersRaw := `[
		{"id":1,"category":"item","game":"Elden Ring","product":"Runes Stack","price":"$15.00"},
		{"id":2,"category":"item","game":"Real Game","product":"P","price":"$1.00"}
	]`
	offers, stats := MigrateOffers(decode(t, offersRaw), loadNow)
	assert.Empty(t, offers)
	assert.True(t, stats.SeedDiscarded)

	ordersRaw := `[{"id":101,"category":"item","game":"Lost Ark","product":"Gold (100k)","price":"$20.00"}]`
	orders, stats := MigrateOrders(decode(t, ordersRaw), loadNow)
	assert.Empty(t, orders)
	assert.True(t, stats.SeedDiscarded)

	// order games only count against orders
	ordersRaw = `[{"id":101,"category":"item","game":"WoW","product":"Gold","price":"$20.00"}]`
	orders, stats = MigrateOrders(decode(t, ordersRaw), loadNow)
	assert.Len(t, orders, 1)
	assert.False(t, stats.SeedDiscarded)
}

func TestMigrateOfferStatus(t *testing.T) {
	tests := map[string]Status{
		"Inactive":   StatusInactive,
		"Active":     StatusPending,
		"Pending":    StatusPending,
		"Processing": StatusProcessing,
		"Completed":  StatusCompleted,
		"":           StatusPending,
		"archived":   StatusPending,
	}
	for in, want := range tests {
		assert.Equal(t, want, migrateOfferStatus(in), in)
	}
}
