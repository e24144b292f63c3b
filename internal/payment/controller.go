package payment

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafeteria/internal/commons"
	"cafeteria/internal/dto"
	apperrors "cafeteria/internal/errors"
)

const NotImplementedMessage = "Pendiente de implementar"

// Controller is the payment entry point. No gateway is wired yet: a valid
// request is acknowledged and nothing is charged.
type Controller struct {
	logger *zap.Logger
}

func NewController(logger *zap.Logger) *Controller {
	return &Controller{logger: logger}
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if strings.TrimSpace(req.OrderID) == "" {
		commons.WriteValidationError(w, traceID, "orderId is required", logger, apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
		return
	}

	logger.Info("payment requested", zap.String("orderId", req.OrderID))

	commons.WriteJSON(w, http.StatusOK, dto.PaymentResponse{
		Message: NotImplementedMessage,
		OrderID: req.OrderID,
	}, logger)
}
