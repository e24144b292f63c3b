package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/cart"
	"cafeteria/internal/domain"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/events"
)

const CheckoutLoginRedirect = "/login?redirect=/checkout"

type OrderCreator interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
}

type Cart interface {
	Items() []cart.Line
	RemoveOrdered(lines []cart.Line)
}

type SlotSource interface {
	Slots() []string
}

type ChangeNotifier interface {
	Publish(ctx context.Context, customerUID string) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event events.OrderCreatedEvent) error
}

type SubmitOrderInput struct {
	Customer   *auth.Customer
	Cart       Cart
	PickupTime string
	Notes      string
	TraceID    string
}

type SubmitOrderUseCase struct {
	orders   OrderCreator
	slots    SlotSource
	notifier ChangeNotifier
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewSubmitOrderUseCase(
	orders OrderCreator,
	slots SlotSource,
	notifier ChangeNotifier,
	events EventPublisher,
	logger *zap.Logger,
	now func() time.Time,
) *SubmitOrderUseCase {
	if now == nil {
		now = time.Now
	}
	return &SubmitOrderUseCase{
		orders:   orders,
		slots:    slots,
		notifier: notifier,
		events:   events,
		logger:   logger,
		now:      now,
	}
}

// Submit turns the cart into one PAYMENT_PENDING order. Lines and total are
// snapshotted from the cart so later catalog changes never alter the
// order. Only after the order is stored are the ordered lines taken out of
// the cart; anything added meanwhile stays.
func (uc *SubmitOrderUseCase) Submit(ctx context.Context, in SubmitOrderInput) (*domain.Order, error) {
	logger := uc.logger.With(zap.String("traceId", in.TraceID))

	if in.Customer == nil || in.Customer.UID == "" {
		return nil, apperrors.NewUnauthenticatedError("login required to place an order", CheckoutLoginRedirect)
	}

	var lines []cart.Line
	if in.Cart != nil {
		lines = in.Cart.Items()
	}
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", apperrors.ValidationDetail{
			Field:   "cart",
			Message: "add at least one product before checking out",
		})
	}

	if err := uc.validatePickupTime(in.PickupTime); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = domain.OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			UnitPrice:   l.Product.Price,
			Qty:         l.Qty,
			Notes:       l.Notes,
		}
	}
	total := domain.SumItems(items)

	logger.Info("submitting order",
		zap.String("customerUid", in.Customer.UID),
		zap.Int("lines", len(items)),
		zap.String("total", total.StringFixed(2)),
		zap.String("pickupTime", in.PickupTime))

	order, err := uc.orders.Create(ctx, domain.Order{
		Source:        domain.OrderSourceApp,
		CustomerUID:   in.Customer.UID,
		CustomerEmail: in.Customer.Email,
		CustomerName:  in.Customer.DisplayName(),
		Status:        domain.OrderStatusPaymentPending,
		Items:         items,
		Total:         decimal.NewNullDecimal(total),
		Notes:         in.Notes,
		PickupTime:    in.PickupTime,
	})
	if err != nil {
		logger.Error("storing order failed, cart kept", zap.Error(err))
		return nil, apperrors.NewTransientError("creating order", err)
	}

	in.Cart.RemoveOrdered(lines)

	if err := uc.notifier.Publish(ctx, order.CustomerUID); err != nil {
		logger.Warn("order change notification failed", zap.String("orderId", order.ID), zap.Error(err))
	}
	if err := uc.events.PublishOrderCreated(ctx, events.NewOrderCreated(*order, in.TraceID, uc.now())); err != nil {
		logger.Warn("order created event failed", zap.String("orderId", order.ID), zap.Error(err))
	}

	logger.Info("order submitted", zap.String("orderId", order.ID))

	return order, nil
}

func (uc *SubmitOrderUseCase) validatePickupTime(pickupTime string) error {
	if pickupTime == "" {
		return apperrors.NewValidationError("pickup time is required", apperrors.ValidationDetail{
			Field:   "pickupTime",
			Message: "pickupTime is required",
		})
	}

	for _, slot := range uc.slots.Slots() {
		if slot == pickupTime {
			return nil
		}
	}

	return apperrors.NewValidationError("pickup time is not available", apperrors.ValidationDetail{
		Field:   "pickupTime",
		Message: "pickupTime must be one of the available slots",
	})
}
