package orders

import (
	"encoding/json"
	"math"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
)

// Games that only ever appeared in the demo seed. Finding one means the
// whole collection is leftover demo data.
var (
	seedOfferGames = map[string]bool{"Elden Ring": true, "WoW": true, "Diablo 4": true}
	seedOrderGames = map[string]bool{"Lost Ark": true, "PoE": true}
)

// MigrationStats counts what the load pipeline changed.
type MigrationStats struct {
	Kept          int
	Dropped       int
	Defaulted     int // fields filled in or coerced
	SeedDiscarded bool
}

// DecodeBlob parses a persisted blob. Absent or malformed content yields nil.
func DecodeBlob(raw string, present bool) any {
	if !present || raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return v
}

type rawRecord map[string]any

func (r rawRecord) number(field string) (float64, bool) {
	f, ok := r[field].(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r rawRecord) text(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

type requiredRule struct {
	field string
	ok    func(rawRecord) bool
}

func nonEmptyText(field string) requiredRule {
	return requiredRule{field: field, ok: func(r rawRecord) bool {
		s, _ := r.text(field)
		return s != ""
	}}
}

// Records failing any of these are discarded, not repaired.
var requiredRules = []requiredRule{
	{field: "id", ok: func(r rawRecord) bool { _, ok := r.number("id"); return ok }},
	{field: "category", ok: func(r rawRecord) bool {
		s, _ := r.text("category")
		return Category(s).Valid()
	}},
	nonEmptyText("game"),
	nonEmptyText("product"),
	nonEmptyText("price"),
}

// defaultRule fills one field of T from the raw record and reports whether
// it had to fall back to a default.
type defaultRule[T any] struct {
	field string
	apply func(r rawRecord, rec *T, now int64) bool
}

var offerDefaults = []defaultRule[Offer]{
	{field: "status", apply: func(r rawRecord, o *Offer, _ int64) bool {
		raw, _ := r.text("status")
		o.Status = migrateOfferStatus(raw)
		return Status(raw) != o.Status
	}},
	{field: "supplierId", apply: func(r rawRecord, o *Offer, _ int64) bool {
		s, _ := r.text("supplierId")
		if SupplierID(s).Valid() {
			o.SupplierID = SupplierID(s)
			return false
		}
		return s != ""
	}},
	{field: "stock", apply: func(r rawRecord, o *Offer, _ int64) bool {
		if f, ok := r.number("stock"); ok {
			stock := int(f)
			o.Stock = &stock
		}
		return false
	}},
	{field: "vbucksPack", apply: func(r rawRecord, o *Offer, _ int64) bool {
		f, ok := r.number("vbucksPack")
		if !ok {
			return false
		}
		if p := VbucksPack(f); p.Valid() {
			o.VbucksPack = p
			return false
		}
		return true
	}},
	{field: "createdAt", apply: func(r rawRecord, o *Offer, now int64) bool {
		return setMillis(r, "createdAt", &o.CreatedAt, now)
	}},
}

var orderDefaults = []defaultRule[Order]{
	{field: "offerId", apply: func(r rawRecord, o *Order, _ int64) bool {
		if f, ok := r.number("offerId"); ok {
			o.OfferID = int64(f)
			return false
		}
		// self reference until cross-reference repair finds the offer
		o.OfferID = o.ID
		return true
	}},
	{field: "qty", apply: func(r rawRecord, o *Order, _ int64) bool {
		if f, ok := r.number("qty"); ok {
			o.Qty = int(f)
			return false
		}
		o.Qty = 1
		return true
	}},
	{field: "orderCost", apply: func(r rawRecord, o *Order, _ int64) bool {
		if s, ok := r.text("orderCost"); ok {
			o.OrderCost = money.ParseAuto(s)
			return false
		}
		o.OrderCost = o.Price
		return true
	}},
	{field: "supplierId", apply: func(r rawRecord, o *Order, _ int64) bool {
		s, _ := r.text("supplierId")
		if SupplierID(s).Valid() {
			o.SupplierID = SupplierID(s)
			return false
		}
		o.SupplierID = DefaultSupplier
		return true
	}},
	{field: "status", apply: func(r rawRecord, o *Order, _ int64) bool {
		raw, _ := r.text("status")
		if Status(raw).IsOrderStatus() {
			o.Status = Status(raw)
			return false
		}
		o.Status = StatusPending
		return true
	}},
	{field: "createdAt", apply: func(r rawRecord, o *Order, now int64) bool {
		return setMillis(r, "createdAt", &o.CreatedAt, now)
	}},
}

func setMillis(r rawRecord, field string, dst *int64, now int64) bool {
	if f, ok := r.number(field); ok {
		*dst = int64(f)
		return false
	}
	*dst = now
	return true
}

// migrateOfferStatus keeps Inactive, maps the legacy Active listing state
// to Pending and defaults anything unknown to Pending.
func migrateOfferStatus(s string) Status {
	switch st := Status(s); st {
	case StatusInactive:
		return StatusInactive
	case StatusActive:
		return StatusPending
	default:
		if st.IsOrderStatus() {
			return st
		}
		return StatusPending
	}
}

type header struct {
	id       int64
	category Category
	game     string
	product  string
	price    money.Amount
}

func validate(item any) (rawRecord, header, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil, header{}, false
	}
	r := rawRecord(obj)
	for _, rule := range requiredRules {
		if !rule.ok(r) {
			return nil, header{}, false
		}
	}
	id, _ := r.number("id")
	cat, _ := r.text("category")
	game, _ := r.text("game")
	product, _ := r.text("product")
	price, _ := r.text("price")
	return r, header{
		id:       int64(id),
		category: Category(cat),
		game:     game,
		product:  product,
		price:    money.ParseAuto(price),
	}, true
}

func migrateList[T any](v any, now int64, build func(header) T, rules []defaultRule[T]) ([]T, MigrationStats) {
	var stats MigrationStats
	list, ok := v.([]any)
	if !ok {
		return nil, stats
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		r, h, ok := validate(item)
		if !ok {
			stats.Dropped++
			continue
		}
		rec := build(h)
		for _, rule := range rules {
			if rule.apply(r, &rec, now) {
				stats.Defaulted++
			}
		}
		out = append(out, rec)
	}
	stats.Kept = len(out)
	return out, stats
}

// MigrateOffers validates and repairs a decoded offer collection. Input
// order is preserved for surviving records.
func MigrateOffers(v any, now int64) ([]Offer, MigrationStats) {
	offers, stats := migrateList(v, now, func(h header) Offer {
		return Offer{ID: h.id, Category: h.category, Game: h.game, Product: h.product, Price: h.price}
	}, offerDefaults)
	for _, o := range offers {
		if seedOfferGames[o.Game] {
			stats.SeedDiscarded = true
			stats.Kept = 0
			return nil, stats
		}
	}
	return offers, stats
}

// MigrateOrders validates and repairs a decoded order collection.
func MigrateOrders(v any, now int64) ([]Order, MigrationStats) {
	orders, stats := migrateList(v, now, func(h header) Order {
		return Order{ID: h.id, Category: h.category, Game: h.game, Product: h.product, Price: h.price}
	}, orderDefaults)
	for _, o := range orders {
		if seedOrderGames[o.Game] {
			stats.SeedDiscarded = true
			stats.Kept = 0
			return nil, stats
		}
	}
	return orders, stats
}
