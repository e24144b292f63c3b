package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Qty         int             `json:"qty"`
	Notes       string          `json:"notes,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type StatusBadgeDTO struct {
	Label string `json:"label"`
	Style string `json:"style"`
}

type OrderDTO struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Badge        StatusBadgeDTO  `json:"badge"`
	CustomerName string          `json:"customerName"`
	Items        []OrderItemDTO  `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	PickupTime   string          `json:"pickupTime"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CheckoutResponse struct {
	TraceID string   `json:"traceId"`
	Order   OrderDTO `json:"order"`
	Next    string   `json:"next"`
}

type OrdersResponse struct {
	State  string     `json:"state"`
	Orders []OrderDTO `json:"orders"`
	Error  string     `json:"error,omitempty"`
}

type PickupSlotsResponse struct {
	Slots []string `json:"slots"`
}

type PaymentResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}
