package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ariefcatur/reseller-dashboard/internal/clock"
	"github.com/ariefcatur/reseller-dashboard/internal/money"
	"github.com/ariefcatur/reseller-dashboard/internal/storage"
)

// Persisted keys, one serialized collection each.
const (
	KeyOffers = "app_offers_v1"
	KeyOrders = "app_orders_v1"
)

var (
	ErrInvalidRecord     = errors.New("invalid record")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// LoadReport describes what Open had to repair.
type LoadReport struct {
	Offers     MigrationStats
	Orders     MigrationStats
	Relinked   int // orders whose offerId was re-resolved by natural key
	Propagated int // offers whose status was synced from their latest order
}

// Store holds the offer and order collections, newest first, and writes
// the full collection back to the KV after every mutation. A failed write
// leaves the in-memory state untouched.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	clock  clock.Clock
	offers []Offer
	orders []Order
	lastID int64
}

// Open runs the load pipeline: read → decode → migrate → seed guard →
// repair references → propagate statuses, then persists the result.
func Open(ctx context.Context, kv storage.KV, clk clock.Clock) (*Store, LoadReport, error) {
	var rep LoadReport

	rawOffers, okOffers, err := kv.Get(ctx, KeyOffers)
	if err != nil {
		return nil, rep, fmt.Errorf("read offers: %w", err)
	}
	rawOrders, okOrders, err := kv.Get(ctx, KeyOrders)
	if err != nil {
		return nil, rep, fmt.Errorf("read orders: %w", err)
	}

	now := clk.Now().UnixMilli()
	offers, offerStats := MigrateOffers(DecodeBlob(rawOffers, okOffers), now)
	orders, orderStats := MigrateOrders(DecodeBlob(rawOrders, okOrders), now)
	rep.Offers, rep.Orders = offerStats, orderStats

	orders, rep.Relinked = RepairReferences(offers, orders)
	offers, rep.Propagated = ReapplyPropagation(offers, orders)

	s := &Store{kv: kv, clock: clk}
	for _, o := range offers {
		s.lastID = max(s.lastID, o.ID)
	}
	for _, o := range orders {
		s.lastID = max(s.lastID, o.ID)
	}

	if err := s.commit(ctx, offers, orders); err != nil {
		return nil, rep, err
	}
	if offerStats.Dropped+orderStats.Dropped+offerStats.Defaulted+orderStats.Defaulted+rep.Relinked > 0 ||
		offerStats.SeedDiscarded || orderStats.SeedDiscarded {
		log.Printf("orders: loaded offers=%d orders=%d dropped=%d defaulted=%d relinked=%d seed_discarded=%t/%t",
			len(offers), len(orders),
			offerStats.Dropped+orderStats.Dropped,
			offerStats.Defaulted+orderStats.Defaulted,
			rep.Relinked, offerStats.SeedDiscarded, orderStats.SeedDiscarded)
	}
	return s, rep, nil
}

// commit persists both collections and then swaps them in. Caller holds
// s.mu for writing, or owns s exclusively.
func (s *Store) commit(ctx context.Context, offers []Offer, orders []Order) error {
	if offers == nil {
		offers = []Offer{}
	}
	if orders == nil {
		orders = []Order{}
	}
	if err := s.write(ctx, KeyOffers, offers); err != nil {
		return err
	}
	if err := s.write(ctx, KeyOrders, orders); err != nil {
		return err
	}
	s.offers, s.orders = offers, orders
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// nextID hands out ids derived from an instant, bumped past every id
// already issued so two records never share one.
func (s *Store) nextID(base int64) int64 {
	if base <= s.lastID {
		base = s.lastID + 1
	}
	s.lastID = base
	return base
}

// cents admits an amount into the store: whole cents, never negative.
// The persisted "$12.34" form holds nothing finer.
func cents(a money.Amount, field string) (money.Amount, error) {
	if a.IsNegative() {
		return money.Amount{}, fmt.Errorf("%w: negative %s", ErrInvalidRecord, field)
	}
	return a.Round(2), nil
}

func (s *Store) newOffer(in OfferInput, now int64) (Offer, error) {
	if !in.Category.Valid() || in.Game == "" || in.Product == "" {
		return Offer{}, fmt.Errorf("%w: offer needs category, game and product", ErrInvalidRecord)
	}
	price, err := cents(in.Price, "price")
	if err != nil {
		return Offer{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsOfferStatus() {
		return Offer{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var stock *int
	if in.Stock != nil {
		v := *in.Stock
		stock = &v
	}
	return Offer{
		ID:         s.nextID(now),
		Category:   in.Category,
		Game:       in.Game,
		Product:    in.Product,
		Price:      price,
		Stock:      stock,
		Status:     status,
		SupplierID: in.SupplierID,
		VbucksPack: in.VbucksPack,
		CreatedAt:  now,
	}, nil
}

func (s *Store) newOrder(in OrderInput, now int64) (Order, error) {
	if !in.Category.Valid() || in.Game == "" || in.Product == "" {
		return Order{}, fmt.Errorf("%w: order needs category, game and product", ErrInvalidRecord)
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.IsOrderStatus() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	price, err := cents(in.Price, "price")
	if err != nil {
		return Order{}, err
	}
	cost, err := cents(in.OrderCost, "order cost")
	if err != nil {
		return Order{}, err
	}
	qty := in.Qty
	if qty <= 0 {
		qty = 1
	}
	supplier := in.SupplierID
	if supplier == "" {
		supplier = DefaultSupplier
	}
	return Order{
		// one unit past the instant so an offer created alongside keeps its own id
		ID:         s.nextID(now + 1),
		OfferID:    in.OfferID,
		Category:   in.Category,
		Game:       in.Game,
		Product:    in.Product,
		Qty:        qty,
		Price:      price,
		OrderCost:  cost,
		SupplierID: supplier,
		Status:     status,
		CreatedAt:  now,
	}, nil
}

// CreateOffer prepends a new offer. It never creates an order.
func (s *Store) CreateOffer(ctx context.Context, in OfferInput) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.newOffer(in, s.clock.Now().UnixMilli())
	if err != nil {
		return Offer{}, err
	}
	offers := append([]Offer{o}, s.offers...)
	if err := s.commit(ctx, offers, s.orders); err != nil {
		return Offer{}, err
	}
	return o, nil
}

// CreateOrder prepends a new order and re-propagates offer statuses.
func (s *Store) CreateOrder(ctx context.Context, in OrderInput) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.newOrder(in, s.clock.Now().UnixMilli())
	if err != nil {
		return Order{}, err
	}
	orders := append([]Order{o}, s.orders...)
	offers, _ := ReapplyPropagation(s.offers, orders)
	if err := s.commit(ctx, offers, orders); err != nil {
		return Order{}, err
	}
	return o, nil
}

// PlaceOffer creates an offer together with its first order (qty 1,
// cost priced from the V-Bucks table) in a single write.
func (s *Store) PlaceOffer(ctx context.Context, in OfferInput) (Offer, Order, error) {
	if in.Category == CategoryCurrency && !in.VbucksPack.Valid() {
		return Offer{}, Order{}, fmt.Errorf("%w: currency offers need a known V-Bucks pack", ErrInvalidRecord)
	}
	if in.SupplierID == "" {
		in.SupplierID = DefaultSupplier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UnixMilli()
	ofr, err := s.newOffer(in, now)
	if err != nil {
		return Offer{}, Order{}, err
	}
	ord, err := s.newOrder(OrderInput{
		OfferID:    ofr.ID,
		Category:   ofr.Category,
		Game:       ofr.Game,
		Product:    ofr.Product,
		Qty:        1,
		Price:      ofr.Price,
		OrderCost:  OrderCostFor(ofr.Category, ofr.VbucksPack, ofr.Product),
		SupplierID: ofr.SupplierID,
	}, now)
	if err != nil {
		return Offer{}, Order{}, err
	}

	orders := append([]Order{ord}, s.orders...)
	offers, _ := ReapplyPropagation(append([]Offer{ofr}, s.offers...), orders)
	if err := s.commit(ctx, offers, orders); err != nil {
		return Offer{}, Order{}, err
	}
	return offers[0], ord, nil
}

// UpdateOffer merges patch into the offer with id. Unknown ids are a no-op
// reported as found=false. Status is not patchable: it follows the offer's
// orders until ArchiveOffer retires it.
func (s *Store) UpdateOffer(ctx context.Context, id int64, patch OfferPatch) (Offer, bool, error) {
	if patch.Price != nil {
		price, err := cents(*patch.Price, "price")
		if err != nil {
			return Offer{}, false, err
		}
		patch.Price = &price
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.offerIndex(id)
	if i < 0 {
		return Offer{}, false, nil
	}
	offers := append([]Offer(nil), s.offers...)
	offers[i] = patch.apply(offers[i])
	if err := s.commit(ctx, offers, s.orders); err != nil {
		return Offer{}, true, err
	}
	return offers[i], true, nil
}

// ArchiveOffer sets the offer Inactive. Idempotent; nothing propagates
// onto it afterwards and no operation makes it active again.
func (s *Store) ArchiveOffer(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.offerIndex(id)
	if i < 0 {
		return false, nil
	}
	if s.offers[i].Status == StatusInactive {
		return true, nil
	}
	offers := append([]Offer(nil), s.offers...)
	offers[i].Status = StatusInactive
	return true, s.commit(ctx, offers, s.orders)
}

// TransitionOrderStatus sets an order's status without checking that the
// move is a legal forward step, then re-propagates onto the parent offer.
func (s *Store) TransitionOrderStatus(ctx context.Context, id int64, status Status) (Order, bool, error) {
	if !status.IsOrderStatus() {
		return Order{}, false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setOrderStatusLocked(ctx, id, func(Status) (Status, error) { return status, nil })
}

// AdvanceOrder moves an order one step along
// Pending → Active → Processing → Completed.
func (s *Store) AdvanceOrder(ctx context.Context, id int64) (Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setOrderStatusLocked(ctx, id, func(cur Status) (Status, error) {
		next, ok := NextStatus(cur)
		if !ok {
			return "", fmt.Errorf("%w: %s is terminal", ErrIllegalTransition, cur)
		}
		return next, nil
	})
}

// SetOrderStatusStrict applies status only when it is the legal next step.
func (s *Store) SetOrderStatusStrict(ctx context.Context, id int64, status Status) (Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setOrderStatusLocked(ctx, id, func(cur Status) (Status, error) {
		if !CanTransition(cur, status) {
			return "", fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cur, status)
		}
		return status, nil
	})
}

func (s *Store) setOrderStatusLocked(ctx context.Context, id int64, next func(Status) (Status, error)) (Order, bool, error) {
	i := s.orderIndex(id)
	if i < 0 {
		return Order{}, false, nil
	}
	status, err := next(s.orders[i].Status)
	if err != nil {
		return s.orders[i], true, err
	}
	orders := append([]Order(nil), s.orders...)
	orders[i].Status = status
	offers, _ := ReapplyPropagation(s.offers, orders)
	if err := s.commit(ctx, offers, orders); err != nil {
		return Order{}, true, err
	}
	return orders[i], true, nil
}

// ClearAll empties both collections and erases their persisted keys.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, KeyOffers); err != nil {
		return fmt.Errorf("remove offers: %w", err)
	}
	if err := s.kv.Remove(ctx, KeyOrders); err != nil {
		return fmt.Errorf("remove orders: %w", err)
	}
	s.offers, s.orders = []Offer{}, []Order{}
	return nil
}

func (s *Store) offerIndex(id int64) int {
	for i, o := range s.offers {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) orderIndex(id int64) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Offers() []Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Offer(nil), s.offers...)
}

func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Order(nil), s.orders...)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Offers: append([]Offer(nil), s.offers...),
		Orders: append([]Order(nil), s.orders...),
	}
}

func (s *Store) Offer(id int64) (Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.offerIndex(id); i >= 0 {
		return s.offers[i], true
	}
	return Offer{}, false
}

func (s *Store) Order(id int64) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.orderIndex(id); i >= 0 {
		return s.orders[i], true
	}
	return Order{}, false
}

// OffersByCategory filters offers; an empty category matches all.
func (s *Store) OffersByCategory(c Category) []Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Offer, 0, len(s.offers))
	for _, o := range s.offers {
		if c == "" || o.Category == c {
			out = append(out, o)
		}
	}
	return out
}

// OrdersForSupplier lists the orders a supplier fulfils, optionally
// restricted to one category.
func (s *Store) OrdersForSupplier(id SupplierID, c Category) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range s.orders {
		if o.SupplierID == id && (c == "" || o.Category == c) {
			out = append(out, o)
		}
	}
	return out
}

// OrdersForOffer lists the orders placed against one offer.
func (s *Store) OrdersForOffer(offerID int64) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range s.orders {
		if o.OfferID == offerID {
			out = append(out, o)
		}
	}
	return out
}
