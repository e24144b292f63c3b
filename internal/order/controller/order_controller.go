package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/cart"
	"cafeteria/internal/commons"
	"cafeteria/internal/domain"
	"cafeteria/internal/dto"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/order/tracker"
	"cafeteria/internal/order/usecase"
)

const (
	OrdersPath          = "/orders"
	OrdersLoginRedirect = "/login?redirect=/orders"
)

type OrderSubmitter interface {
	Submit(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error)
}

type StatusAdvancer interface {
	Advance(ctx context.Context, orderID string, next domain.OrderStatus, traceID string) (*domain.Order, error)
}

type OrderTracker interface {
	Load(ctx context.Context, customerUID string) ([]domain.Order, error)
	Start(ctx context.Context, customerUID string) (*tracker.Subscription, error)
}

type SlotSource interface {
	Slots() []string
}

type OrderController struct {
	submitter OrderSubmitter
	advancer  StatusAdvancer
	tracker   OrderTracker
	slots     SlotSource
	sessions  *cart.Sessions
	logger    *zap.Logger
}

func NewOrderController(
	submitter OrderSubmitter,
	advancer StatusAdvancer,
	tracker OrderTracker,
	slots SlotSource,
	sessions *cart.Sessions,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		submitter: submitter,
		advancer:  advancer,
		tracker:   tracker,
		slots:     slots,
		sessions:  sessions,
		logger:    logger,
	}
}

func (c *OrderController) HandlePickupSlots(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, dto.PickupSlotsResponse{Slots: c.slots.Slots()}, c.logger)
}

func (c *OrderController) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	customer, _ := auth.CustomerFromContext(r.Context())

	var current usecase.Cart
	sessionID, hasSession := cart.ExistingSessionID(r)
	if hasSession {
		if store, ok := c.sessions.Get(sessionID); ok {
			current = store
		}
	}

	order, err := c.submitter.Submit(r.Context(), usecase.SubmitOrderInput{
		Customer:   customer,
		Cart:       current,
		PickupTime: req.PickupTime,
		Notes:      req.Notes,
		TraceID:    traceID,
	})
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if hasSession && c.sessions.DropIfEmpty(sessionID) {
		logger.Debug("cart session closed after checkout")
	}

	commons.WriteJSON(w, http.StatusCreated, dto.CheckoutResponse{
		TraceID: traceID,
		Order:   toOrderDTO(*order),
		Next:    OrdersPath,
	}, logger)
}

func (c *OrderController) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customer, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		commons.WriteError(w, traceID, apperrors.NewUnauthenticatedError("login required", OrdersLoginRedirect), logger)
		return
	}

	orders, err := c.tracker.Load(r.Context(), customer.UID)
	if err != nil {
		logger.Error("loading orders failed", zap.Error(err))
		commons.WriteJSON(w, http.StatusServiceUnavailable, toOrdersResponse(tracker.Snapshot{Err: err}), logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrdersResponse(tracker.Snapshot{Orders: orders}), logger)
}

// HandleStream pushes the customer's full order list as server-sent events,
// once on connect and again after every change. The subscription ends
// with the request.
func (c *OrderController) HandleStream(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customer, ok := auth.CustomerFromContext(r.Context())
	if !ok {
		commons.WriteError(w, traceID, apperrors.NewUnauthenticatedError("login required", OrdersLoginRedirect), logger)
		return
	}

	sub, err := c.tracker.Start(r.Context(), customer.UID)
	if err != nil {
		commons.WriteError(w, traceID, apperrors.NewTransientError("subscribing to orders", err), logger)
		return
	}
	defer sub.Stop()

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("write deadline not supported", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	logger.Info("order stream opened", zap.String("customerUid", customer.UID))

	for snap := range sub.Updates() {
		payload, err := json.Marshal(toOrdersResponse(snap))
		if err != nil {
			logger.Error("failed to encode snapshot", zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "event: orders\ndata: %s\n\n", payload); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}

	logger.Info("order stream closed", zap.String("customerUid", customer.UID))
}

func (c *OrderController) HandleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		commons.WriteValidationError(w, traceID, "orderId is required", logger, apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		commons.WriteValidationError(w, traceID, "unknown status", logger, apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of the order lifecycle states",
		})
		return
	}

	if staff, ok := auth.StaffFromContext(r.Context()); ok {
		logger = logger.With(zap.String("staffId", staff.ID))
	}

	order, err := c.advancer.Advance(r.Context(), orderID, status, traceID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderDTO(*order), logger)
}

func toOrdersResponse(snap tracker.Snapshot) dto.OrdersResponse {
	orders := make([]dto.OrderDTO, len(snap.Orders))
	for i, o := range snap.Orders {
		orders[i] = toOrderDTO(o)
	}

	resp := dto.OrdersResponse{
		State:  string(tracker.ViewStateOf(false, false, snap.Err, len(orders))),
		Orders: orders,
	}
	if snap.Err != nil {
		resp.Error = "No se pudieron cargar los pedidos"
	}
	return resp
}

func toOrderDTO(o domain.Order) dto.OrderDTO {
	items := make([]dto.OrderItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = dto.OrderItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Qty:         it.Qty,
			Notes:       it.Notes,
			Subtotal:    it.Subtotal(),
		}
	}

	badge := tracker.BadgeFor(o.Status)

	return dto.OrderDTO{
		ID:           o.ID,
		Status:       string(o.Status),
		Badge:        dto.StatusBadgeDTO{Label: badge.Label, Style: badge.Style},
		CustomerName: o.CustomerName,
		Items:        items,
		Total:        o.DisplayTotal(),
		Notes:        o.Notes,
		PickupTime:   o.PickupTime,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
