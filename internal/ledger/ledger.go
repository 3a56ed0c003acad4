// Package ledger is the manual log of payments made to suppliers. It is kept
// apart from orders: nothing here feeds the analytics.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/ariefcatur/reseller-dashboard/internal/clock"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/storage"
)

const Key = "app_payments_v1"

var (
	ErrInvalidQuantity = errors.New("quantity must be a finite non-negative number")
	ErrInvalidPayment  = errors.New("invalid payment")
)

type Type string

const (
	TypeOrderCost Type = "Order Cost"
	TypeProfit    Type = "Profit"
)

func (t Type) Valid() bool { return t == TypeOrderCost || t == TypeProfit }

type Payment struct {
	ID         int64             `json:"id"`
	CreatedAt  int64             `json:"createdAt"`
	SupplierID orders.SupplierID `json:"supplierId"`
	Type       Type              `json:"type"`
	Quantity   float64           `json:"quantity"`
	Note       string            `json:"note,omitempty"`
}

type Input struct {
	SupplierID orders.SupplierID
	Type       Type
	Quantity   float64
	Note       string
}

// DefaultDetails are shown for suppliers without configured payout details.
var DefaultDetails = map[orders.SupplierID]string{
	"ffin": "USDT TRC20: (add later)",
	"sup2": "Bank/PayPal: (add later)",
	"sup3": "USDT/BTC: (add later)",
}

type Ledger struct {
	mu    sync.RWMutex
	kv    storage.KV
	clock clock.Clock
	rows  []Payment
}

func Open(ctx context.Context, kv storage.KV, clk clock.Clock) (*Ledger, error) {
	raw, ok, err := kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read payments: %w", err)
	}
	l := &Ledger{kv: kv, clock: clk}
	l.rows = decodeRows(raw, ok, clk.Now().UnixMilli())
	return l, nil
}

// decodeRows fills gaps field by field instead of dropping rows; the log
// is hand-entered and every row is worth keeping.
func decodeRows(raw string, present bool, now int64) []Payment {
	if !present {
		return []Payment{}
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Payment{}
	}
	out := make([]Payment, 0, len(items))
	for _, item := range items {
		it, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := Payment{CreatedAt: now, SupplierID: orders.DefaultSupplier, Type: TypeProfit}
		if v, ok := it["createdAt"].(float64); ok {
			p.CreatedAt = int64(v)
		}
		p.ID = p.CreatedAt
		if v, ok := it["id"].(float64); ok {
			p.ID = int64(v)
		}
		if v, ok := it["supplierId"].(string); ok && orders.SupplierID(v).Valid() {
			p.SupplierID = orders.SupplierID(v)
		}
		if v, ok := it["type"].(string); ok && Type(v).Valid() {
			p.Type = Type(v)
		}
		if v, ok := it["quantity"].(float64); ok {
			p.Quantity = v
		}
		if v, ok := it["note"].(string); ok {
			p.Note = v
		}
		out = append(out, p)
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(rows []Payment) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt > rows[j].CreatedAt })
}

// Add logs a payment stamped with the current time.
func (l *Ledger) Add(ctx context.Context, in Input) (Payment, error) {
	if math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) || in.Quantity < 0 {
		return Payment{}, ErrInvalidQuantity
	}
	if in.SupplierID == "" {
		in.SupplierID = orders.DefaultSupplier
	}
	if !in.SupplierID.Valid() {
		return Payment{}, fmt.Errorf("%w: unknown supplier %q", ErrInvalidPayment, in.SupplierID)
	}
	if in.Type == "" {
		in.Type = TypeProfit
	}
	if !in.Type.Valid() {
		return Payment{}, fmt.Errorf("%w: unknown type %q", ErrInvalidPayment, in.Type)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now().UnixMilli()
	id := now
	if len(l.rows) > 0 && id <= l.rows[0].ID {
		id = l.rows[0].ID + 1
	}
	p := Payment{
		ID:         id,
		CreatedAt:  now,
		SupplierID: in.SupplierID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Note:       strings.TrimSpace(in.Note),
	}
	rows := append([]Payment{p}, l.rows...)
	b, err := json.Marshal(rows)
	if err != nil {
		return Payment{}, fmt.Errorf("encode payments: %w", err)
	}
	if err := l.kv.Set(ctx, Key, string(b)); err != nil {
		return Payment{}, fmt.Errorf("write payments: %w", err)
	}
	l.rows = rows
	return p, nil
}

func (l *Ledger) List() []Payment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Payment(nil), l.rows...)
}

// Totals sums quantities per supplier and payment type.
type Totals map[orders.SupplierID]map[Type]float64

func (l *Ledger) Totals() Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t := Totals{}
	for _, s := range orders.Suppliers {
		t[s.ID] = map[Type]float64{TypeOrderCost: 0, TypeProfit: 0}
	}
	for _, p := range l.rows {
		if t[p.SupplierID] == nil {
			t[p.SupplierID] = map[Type]float64{}
		}
		t[p.SupplierID][p.Type] += p.Quantity
	}
	return t
}

// Clear drops every logged payment.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.kv.Remove(ctx, Key); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	l.rows = []Payment{}
	return nil
}
