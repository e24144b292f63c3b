package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderSource string

const (
	OrderSourceApp OrderSource = "app"
	OrderSourcePOS OrderSource = "pos"
)

// OrderItem is a line snapshotted at submission time. Later catalog changes
// never touch it.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Qty         int             `json:"qty"`
	Notes       string          `json:"notes"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}

type Order struct {
	ID            string
	Source        OrderSource
	CustomerUID   string
	CustomerEmail string
	CustomerName  string
	Status        OrderStatus
	Items         []OrderItem
	Total         decimal.NullDecimal
	Notes         string
	PickupTime    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// DisplayTotal prefers the stored total and falls back to the line sum for
// documents written without one.
func (o Order) DisplayTotal() decimal.Decimal {
	if o.Total.Valid {
		return o.Total.Decimal
	}
	return SumItems(o.Items)
}
