package domain

type OrderStatus string

const (
	OrderStatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusInQueue        OrderStatus = "IN_QUEUE"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusPickedUp       OrderStatus = "PICKED_UP"
	OrderStatusCanceled       OrderStatus = "CANCELED"
)

var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPaymentPending: OrderStatusPaid,
	OrderStatusPaid:           OrderStatusInQueue,
	OrderStatusInQueue:        OrderStatusPreparing,
	OrderStatusPreparing:      OrderStatusReady,
	OrderStatusReady:          OrderStatusPickedUp,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	switch status {
	case OrderStatusPaymentPending, OrderStatusPaid, OrderStatusInQueue,
		OrderStatusPreparing, OrderStatusReady, OrderStatusPickedUp, OrderStatusCanceled:
		return status, true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPickedUp || s == OrderStatusCanceled
}

// CanTransitionTo allows one step forward along the lifecycle, or
// cancellation from any pre-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCanceled {
		return true
	}
	return nextStatus[s] == next
}
