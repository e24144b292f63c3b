package cart

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafeteria/internal/commons"
	"cafeteria/internal/domain"
	apperrors "cafeteria/internal/errors"
)

type ProductFinder interface {
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
}

type Controller struct {
	sessions *Sessions
	products ProductFinder
	logger   *zap.Logger
}

func NewController(sessions *Sessions, products ProductFinder, logger *zap.Logger) *Controller {
	return &Controller{
		sessions: sessions,
		products: products,
		logger:   logger,
	}
}

// existing returns the caller's cart when one was already created. Only
// adding an item creates a cart.
func (c *Controller) existing(r *http.Request) (*Store, bool) {
	id, ok := ExistingSessionID(r)
	if !ok {
		return nil, false
	}
	return c.sessions.Get(id)
}

func (c *Controller) writeCart(w http.ResponseWriter, store *Store, logger *zap.Logger) {
	if store == nil {
		commons.WriteJSON(w, http.StatusOK, toResponse(Snapshot{Subtotal: decimal.Zero}), logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, toResponse(store.Snapshot()), logger)
}

func (c *Controller) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	store, _ := c.existing(r)
	c.writeCart(w, store, c.logger)
}

func (c *Controller) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.ProductID == "" {
		commons.WriteValidationError(w, traceID, "productId is required", logger, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId is required",
		})
		return
	}

	product, err := c.products.FindProduct(r.Context(), req.ProductID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	store := c.sessions.GetOrCreate(SessionID(w, r))
	store.AddItem(*product, req.Notes)
	logger.Debug("item added to cart", zap.String("productId", product.ID))

	commons.WriteJSON(w, http.StatusOK, toResponse(store.Snapshot()), logger)
}

func (c *Controller) HandleUpdateQty(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req UpdateQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Qty == nil {
		commons.WriteValidationError(w, traceID, "qty is required", logger, apperrors.ValidationDetail{
			Field:   "qty",
			Message: "qty is required",
		})
		return
	}

	store, ok := c.existing(r)
	if ok {
		store.UpdateQty(chi.URLParam(r, "productId"), *req.Qty)
	}

	c.writeCart(w, store, logger)
}

func (c *Controller) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := c.existing(r)
	if ok {
		store.RemoveItem(chi.URLParam(r, "productId"))
	}
	c.writeCart(w, store, c.logger)
}

func (c *Controller) HandleClear(w http.ResponseWriter, r *http.Request) {
	store, ok := c.existing(r)
	if ok {
		store.Clear()
	}
	c.writeCart(w, store, c.logger)
}
