package orders

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ariefcatur/reseller-dashboard/internal/money"
)

type SupplierID string

type Supplier struct {
	ID   SupplierID `json:"id"`
	Name string     `json:"name"`
}

const DefaultSupplier SupplierID = "ffin"

// Suppliers is the fixed roster, in display order.
var Suppliers = []Supplier{
	{ID: "ffin", Name: "Ffin"},
	{ID: "sup2", Name: "Supplier 2"},
	{ID: "sup3", Name: "Supplier 3"},
}

func (id SupplierID) Valid() bool {
	for _, s := range Suppliers {
		if s.ID == id {
			return true
		}
	}
	return false
}

// VbucksPack is a purchasable V-Bucks denomination.
type VbucksPack int

var vbucksCostUSD = map[VbucksPack]money.Amount{
	1000:   money.MustParse("3.44"),
	2800:   money.MustParse("8.58"),
	5000:   money.MustParse("13.81"),
	10000:  money.MustParse("27.62"),
	13500:  money.MustParse("33.60"),
	27000:  money.MustParse("67.20"),
	40500:  money.MustParse("100.81"),
	54000:  money.MustParse("134.41"),
	108000: money.MustParse("268.82"),
}

var VbucksPacks = []VbucksPack{1000, 2800, 5000, 10000, 13500, 27000, 40500, 54000, 108000}

func (p VbucksPack) Valid() bool {
	_, ok := vbucksCostUSD[p]
	return ok
}

// CostFromPack returns the acquisition cost of pack, zero for unknown packs.
func CostFromPack(p VbucksPack) money.Amount {
	if c, ok := vbucksCostUSD[p]; ok {
		return c
	}
	return money.Zero()
}

// "10,000 V-Bucks", "10000 vbucks", "10000 VB"
var vbucksInProduct = regexp.MustCompile(`(\d[\d,.\s]*)\s*(v[-\s]?bucks|vbucks|vb)\b`)

// ExtractVbucks finds a known pack size in free product text.
func ExtractVbucks(product string) (VbucksPack, bool) {
	m := vbucksInProduct.FindStringSubmatch(strings.ToLower(product))
	if m == nil {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, m[1])
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	p := VbucksPack(n)
	if !p.Valid() {
		return 0, false
	}
	return p, true
}

func GuessCostFromProduct(product string) money.Amount {
	if p, ok := ExtractVbucks(product); ok {
		return CostFromPack(p)
	}
	return money.Zero()
}

// OrderCostFor prices the cost side of a new order. Only currency orders
// have a deterministic cost; the pack wins over the product text.
func OrderCostFor(c Category, p VbucksPack, product string) money.Amount {
	if c != CategoryCurrency {
		return money.Zero()
	}
	if p != 0 {
		return CostFromPack(p)
	}
	return GuessCostFromProduct(product)
}
