package cart

import "github.com/shopspring/decimal"

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Notes     string `json:"notes"`
}

type UpdateQtyRequest struct {
	Qty *int `json:"qty"`
}

type CartResponse struct {
	Items          []CartItemDTO   `json:"items"`
	TotalItems     int             `json:"totalItems"`
	EstimatedTotal decimal.Decimal `json:"estimatedTotal"`
}

type CartItemDTO struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty"`
	Notes     string          `json:"notes,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func toResponse(snap Snapshot) CartResponse {
	resp := CartResponse{
		Items:          make([]CartItemDTO, 0, len(snap.Lines)),
		TotalItems:     snap.TotalItems,
		EstimatedTotal: snap.Subtotal,
	}
	for _, l := range snap.Lines {
		resp.Items = append(resp.Items, CartItemDTO{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			UnitPrice: l.Product.Price,
			Qty:       l.Qty,
			Notes:     l.Notes,
			Subtotal:  l.Subtotal(),
		})
	}
	return resp
}
