package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Amount is a finite monetary value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

func Zero() Amount { return Amount{} }

func FromCents(cents int64) Amount { return Amount{d: decimal.New(cents, -2)} }

// MustParse parses a plain decimal literal ("27.62") and panics on error.
// Intended for fixed tables.
func MustParse(s string) Amount { return Amount{d: decimal.RequireFromString(s)} }

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

func (a Amount) Mul(qty int) Amount { return Amount{d: a.d.Mul(decimal.NewFromInt(int64(qty)))} }

func (a Amount) Div(n int64) Amount {
	if n == 0 {
		return Zero()
	}
	return Amount{d: a.d.Div(decimal.NewFromInt(n))}
}

func (a Amount) IsZero() bool { return a.d.IsZero() }
func (a Amount) IsPositive() bool { return a.d.IsPositive() }
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) Round(places int32) Amount { return Amount{d: a.d.Round(places)} }

// String renders the amount in USD display form.
func (a Amount) String() string { return Format(a, USD) }

// MarshalJSON keeps the persisted layout: amounts are stored as "$12.34".
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(Format(a, USD))
}

// UnmarshalJSON accepts a display string (either policy) or a bare number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		*a = Zero()
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		*a = ParseAuto(s)
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("decode amount %q: %w", raw, err)
	}
	*a = Amount{d: d}
	return nil
}

func Sum(as ...Amount) Amount {
	total := Zero()
	for _, a := range as {
		total = total.Add(a)
	}
	return total
}
