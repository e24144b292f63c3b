package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cafeteria/internal/domain"
	apperrors "cafeteria/internal/errors"
)

type StatusRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
}

type AdvanceStatusUseCase struct {
	orders   StatusRepository
	notifier ChangeNotifier
	logger   *zap.Logger
}

func NewAdvanceStatusUseCase(orders StatusRepository, notifier ChangeNotifier, logger *zap.Logger) *AdvanceStatusUseCase {
	return &AdvanceStatusUseCase{
		orders:   orders,
		notifier: notifier,
		logger:   logger,
	}
}

// Advance moves an order one step along its lifecycle, or cancels it, and
// signals the owning customer's feed. The write is conditional on the
// status that was validated, so a concurrent change makes it a conflict.
func (uc *AdvanceStatusUseCase) Advance(ctx context.Context, orderID string, next domain.OrderStatus, traceID string) (*domain.Order, error) {
	logger := uc.logger.With(zap.String("traceId", traceID), zap.String("orderId", orderID))

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		return nil, apperrors.NewTransientError("loading order", err)
	}

	if !order.Status.CanTransitionTo(next) {
		logger.Warn("rejected status change", zap.String("from", string(order.Status)), zap.String("to", string(next)))
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	if err := uc.orders.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		if _, ok := apperrors.IsConflictError(err); ok {
			logger.Warn("order changed concurrently", zap.String("from", string(order.Status)), zap.String("to", string(next)))
			return nil, err
		}
		return nil, apperrors.NewTransientError("updating order status", err)
	}

	updated, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NewTransientError("reloading order", err)
	}

	if err := uc.notifier.Publish(ctx, updated.CustomerUID); err != nil {
		logger.Warn("order change notification failed", zap.Error(err))
	}

	logger.Info("order status changed", zap.String("from", string(order.Status)), zap.String("to", string(next)))

	return updated, nil
}
