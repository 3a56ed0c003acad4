package orders

import (
	"strings"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
)

// naturalKey is category||game||product||price||supplierId. It is only a
// fallback matcher: nothing keeps it unique, and when two offers share a
// key the one seen last wins.
type naturalKey string

func newNaturalKey(c Category, game, product string, price money.Amount, supplier SupplierID) naturalKey {
	return naturalKey(strings.Join([]string{
		string(c), game, product, price.String(), string(supplier),
	}, "||"))
}

// RepairReferences points orders whose offerId does not resolve at the
// offer with the same natural key. Orders with no match keep their
// dangling reference. It returns a new slice and the number of relinked
// orders.
func RepairReferences(offers []Offer, orders []Order) ([]Order, int) {
	byID := make(map[int64]bool, len(offers))
	byKey := make(map[naturalKey]int64, len(offers))
	for _, o := range offers {
		byID[o.ID] = true
		byKey[o.naturalKey()] = o.ID
	}

	out := make([]Order, len(orders))
	relinked := 0
	for i, ord := range orders {
		if !byID[ord.OfferID] {
			if id, ok := byKey[ord.naturalKey()]; ok {
				ord.OfferID = id
				relinked++
			}
		}
		out[i] = ord
	}
	return out, relinked
}

// latestOrders maps offerId to the order with the greatest createdAt.
// Ties go to the order encountered later in slice order.
func latestOrders(orders []Order) map[int64]Order {
	latest := make(map[int64]Order, len(orders))
	for _, ord := range orders {
		cur, ok := latest[ord.OfferID]
		if !ok || ord.CreatedAt >= cur.CreatedAt {
			latest[ord.OfferID] = ord
		}
	}
	return latest
}

// ReapplyPropagation makes every non-Inactive offer mirror the status of
// its most recent order. Offers without orders are untouched. It returns a
// new slice and the number of offers whose status changed.
func ReapplyPropagation(offers []Offer, orders []Order) ([]Offer, int) {
	latest := latestOrders(orders)
	out := make([]Offer, len(offers))
	changed := 0
	for i, ofr := range offers {
		if ord, ok := latest[ofr.ID]; ok && ofr.Status != StatusInactive && ofr.Status != ord.Status {
			ofr.Status = ord.Status
			changed++
		}
		out[i] = ofr
	}
	return out, changed
}
