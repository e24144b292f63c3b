package dto

type CheckoutRequest struct {
	PickupTime string `json:"pickupTime"`
	Notes      string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreatePaymentRequest struct {
	OrderID string `json:"orderId"`
}
