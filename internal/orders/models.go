package orders

import "github.com/ariefcatur/reseller-dashboard/internal/money"

type Category string

const (
	CategoryAccount  Category = "account"
	CategoryItem     Category = "item"
	CategoryCurrency Category = "currency"
)

var Categories = []Category{CategoryAccount, CategoryItem, CategoryCurrency}

func (c Category) Valid() bool {
	switch c {
	case CategoryAccount, CategoryItem, CategoryCurrency:
		return true
	}
	return false
}

// Offer is a sell listing created by the admin. Price is the sell side.
type Offer struct {
	ID         int64        `json:"id"`
	Category   Category     `json:"category"` // immutable after creation
	Game       string       `json:"game"`
	Product    string       `json:"product"`
	Price      money.Amount `json:"price"`
	Stock      *int         `json:"stock,omitempty"`
	Status     Status       `json:"status"`
	SupplierID SupplierID   `json:"supplierId,omitempty"`
	VbucksPack VbucksPack   `json:"vbucksPack,omitempty"`
	CreatedAt  int64        `json:"createdAt"` // epoch ms
}

// Order is a fulfillment request. Category, game, product and price are a
// snapshot of the offer at creation time.
type Order struct {
	ID         int64        `json:"id"`
	OfferID    int64        `json:"offerId"`
	Category   Category     `json:"category"`
	Game       string       `json:"game"`
	Product    string       `json:"product"`
	Qty        int          `json:"qty"`
	Price      money.Amount `json:"price"`
	OrderCost  money.Amount `json:"orderCost"`
	SupplierID SupplierID   `json:"supplierId"`
	Status     Status       `json:"status"`
	CreatedAt  int64        `json:"createdAt"`
}

// Revenue is price * qty.
func (o Order) Revenue() money.Amount { return o.Price.Mul(o.Qty) }

func (o Offer) naturalKey() naturalKey {
	return newNaturalKey(o.Category, o.Game, o.Product, o.Price, o.SupplierID)
}

func (o Order) naturalKey() naturalKey {
	return newNaturalKey(o.Category, o.Game, o.Product, o.Price, o.SupplierID)
}

// OfferInput carries the caller-supplied fields of a new offer.
type OfferInput struct {
	Category   Category
	Game       string
	Product    string
	Price      money.Amount
	Stock      *int
	Status     Status // empty means Pending
	SupplierID SupplierID
	VbucksPack VbucksPack
}

// OrderInput carries the caller-supplied fields of a new order.
type OrderInput struct {
	OfferID    int64
	Category   Category
	Game       string
	Product    string
	Qty        int
	Price      money.Amount
	OrderCost  money.Amount
	SupplierID SupplierID
	Status     Status
}

// OfferPatch merges into an existing offer; nil fields are left alone.
// Category, Status and CreatedAt cannot be patched.
type OfferPatch struct {
	Game       *string
	Product    *string
	Price      *money.Amount
	Stock      *int
	SupplierID *SupplierID
	VbucksPack *VbucksPack
}

func (p OfferPatch) apply(o Offer) Offer {
	if p.Game != nil {
		o.Game = *p.Game
	}
	if p.Product != nil {
		o.Product = *p.Product
	}
	if p.Price != nil {
		o.Price = *p.Price
	}
	if p.Stock != nil {
		stock := *p.Stock
		o.Stock = &stock
	}
	if p.SupplierID != nil {
		o.SupplierID = *p.SupplierID
	}
	if p.VbucksPack != nil {
		o.VbucksPack = *p.VbucksPack
	}
	return o
}

// Snapshot is an immutable copy of both collections, newest first.
type Snapshot struct {
	Offers []Offer
	Orders []Order
}
