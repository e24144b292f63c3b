package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/cart"
	"cafeteria/internal/domain"
	"cafeteria/internal/dto"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/notify"
	"cafeteria/internal/order/tracker"
	"cafeteria/internal/order/usecase"
)

type mockSubmitter struct {
	SubmitFunc func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
	return m.SubmitFunc(ctx, in)
}

type mockAdvancer struct {
	AdvanceFunc func(ctx context.Context, orderID string, next domain.OrderStatus, traceID string) (*domain.Order, error)
}

func (m *mockAdvancer) Advance(ctx context.Context, orderID string, next domain.OrderStatus, traceID string) (*domain.Order, error) {
	return m.AdvanceFunc(ctx, orderID, next, traceID)
}

type mockLister struct {
	ListByCustomerFunc func(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error)
}

func (m *mockLister) ListByCustomer(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error) {
	return m.ListByCustomerFunc(ctx, customerUID, source)
}

type fixedSlots []string

func (s fixedSlots) Slots() []string { return s }

var created = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func sampleOrder(id string, status domain.OrderStatus, minutes int) domain.Order {
	return domain.Order{
		ID:           id,
		Source:       domain.OrderSourceApp,
		CustomerUID:  "u-1",
		CustomerName: "Ana",
		Status:       status,
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "Café", UnitPrice: decimal.RequireFromString("2.50"), Qty: 3},
			{ProductID: "p2", ProductName: "Croissant", UnitPrice: decimal.RequireFromString("1.00"), Qty: 1},
		},
		PickupTime: "10:00",
		CreatedAt:  created.Add(time.Duration(minutes) * time.Minute),
	}
}

type fixture struct {
	submitter *mockSubmitter
	advancer  *mockAdvancer
	lister    *mockLister
	feed      *notify.MemoryFeed
	sessions  *cart.Sessions
	router    http.Handler
}

func withCustomer(uid string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid != "" {
				r = r.WithContext(auth.WithCustomer(r.Context(), &auth.Customer{UID: uid, Email: "ana@example.com"}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newFixture(uid string) *fixture {
	f := &fixture{
		submitter: &mockSubmitter{},
		advancer:  &mockAdvancer{},
		lister: &mockLister{
			ListByCustomerFunc: func(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error) {
				return nil, nil
			},
		},
		feed:     notify.NewMemoryFeed(),
		sessions: cart.NewSessions(),
	}

	tr := tracker.NewTracker(f.lister, f.feed, zap.NewNop())
	c := NewOrderController(f.submitter, f.advancer, tr, fixedSlots{"09:15", "09:30"}, f.sessions, zap.NewNop())

	r := chi.NewRouter()
	r.Use(withCustomer(uid))
	r.Get("/api/pickup-slots", c.HandlePickupSlots)
	r.Post("/api/orders", c.HandleCheckout)
	r.Get("/api/orders", c.HandleListOrders)
	r.Get("/api/orders/stream", c.HandleStream)
	r.Patch("/api/pos/orders/{orderId}/status", c.HandleAdvanceStatus)
	f.router = r

	return f
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlePickupSlots(t *testing.T) {
	f := newFixture("")

	rec := do(f.router, http.MethodGet, "/api/pickup-slots", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PickupSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"09:15", "09:30"}, resp.Slots)
}

func TestHandleCheckout_Created(t *testing.T) {
	f := newFixture("u-1")

	sessionID := "6f1c2f5e-8d7e-4a55-9a4e-0c7a2b1d9e10"
	store := f.sessions.GetOrCreate(sessionID)
	store.AddItem(domain.Product{ID: "p1", Name: "Café", Price: decimal.RequireFromString("2.50")}, "")

	var got usecase.SubmitOrderInput
	f.submitter.SubmitFunc = func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
		got = in
		o := sampleOrder("o-1", domain.OrderStatusPaymentPending, 0)
		return &o, nil
	}

	rec := do(f.router, http.MethodPost, "/api/orders", `{"pickupTime":"09:30","notes":"sin azúcar"}`,
		&http.Cookie{Name: cart.SessionCookie, Value: sessionID})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/orders", resp.Next)
	assert.Equal(t, "o-1", resp.Order.ID)
	assert.Equal(t, "Pendiente de pago", resp.Order.Badge.Label)
	assert.Equal(t, "8.5", resp.Order.Total.String())

	assert.Equal(t, "u-1", got.Customer.UID)
	assert.Equal(t, "09:30", got.PickupTime)
	assert.Equal(t, "sin azúcar", got.Notes)
	assert.Same(t, store, got.Cart)
}

func TestHandleCheckout_SuccessClosesEmptiedCartSession(t *testing.T) {
	f := newFixture("u-1")

	sessionID := "6f1c2f5e-8d7e-4a55-9a4e-0c7a2b1d9e10"
	store := f.sessions.GetOrCreate(sessionID)
	store.AddItem(domain.Product{ID: "p1", Name: "Café", Price: decimal.RequireFromString("2.50")}, "")

	f.submitter.SubmitFunc = func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
		in.Cart.RemoveOrdered(in.Cart.Items())
		o := sampleOrder("o-1", domain.OrderStatusPaymentPending, 0)
		return &o, nil
	}

	rec := do(f.router, http.MethodPost, "/api/orders", `{"pickupTime":"09:30"}`,
		&http.Cookie{Name: cart.SessionCookie, Value: sessionID})

	require.Equal(t, http.StatusCreated, rec.Code)
	_, ok := f.sessions.Get(sessionID)
	assert.False(t, ok)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestHandleCheckout_FailureKeepsCartSession(t *testing.T) {
	f := newFixture("u-1")

	sessionID := "6f1c2f5e-8d7e-4a55-9a4e-0c7a2b1d9e10"
	f.sessions.GetOrCreate(sessionID).AddItem(domain.Product{ID: "p1", Name: "Café", Price: decimal.RequireFromString("2.50")}, "")

	f.submitter.SubmitFunc = func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
		return nil, apperrors.NewTransientError("creating order", errors.New("connection reset"))
	}

	rec := do(f.router, http.MethodPost, "/api/orders", `{"pickupTime":"09:30"}`,
		&http.Cookie{Name: cart.SessionCookie, Value: sessionID})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	store, ok := f.sessions.Get(sessionID)
	require.True(t, ok)
	assert.Equal(t, 1, store.TotalItems())
}

func TestHandleCheckout_Unauthenticated(t *testing.T) {
	f := newFixture("")
	f.submitter.SubmitFunc = func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
		assert.Nil(t, in.Customer)
		return nil, apperrors.NewUnauthenticatedError("login required", usecase.CheckoutLoginRedirect)
	}

	rec := do(f.router, http.MethodPost, "/api/orders", `{"pickupTime":"09:30"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), usecase.CheckoutLoginRedirect)
}

func TestHandleCheckout_NoSessionPassesNoCart(t *testing.T) {
	f := newFixture("u-1")
	f.submitter.SubmitFunc = func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
		assert.Nil(t, in.Cart)
		return nil, apperrors.NewValidationError("cart is empty")
	}

	rec := do(f.router, http.MethodPost, "/api/orders", `{"pickupTime":"09:30"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCheckout_InvalidJSON(t *testing.T) {
	f := newFixture("u-1")

	rec := do(f.router, http.MethodPost, "/api/orders", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCheckout_TransientError(t *testing.T) {
	f := newFixture("u-1")
	f.submitter.SubmitFunc = func(ctx context.Context, in usecase.SubmitOrderInput) (*domain.Order, error) {
		return nil, apperrors.NewTransientError("creating order", errors.New("timeout"))
	}

	rec := do(f.router, http.MethodPost, "/api/orders", `{"pickupTime":"09:30"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "timeout")
}

func TestHandleListOrders(t *testing.T) {
	f := newFixture("u-1")
	f.lister.ListByCustomerFunc = func(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error) {
		return []domain.Order{
			sampleOrder("old", domain.OrderStatusPickedUp, 0),
			sampleOrder("new", "MYSTERY", 30),
		}, nil
	}

	rec := do(f.router, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "populated", resp.State)
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, "new", resp.Orders[0].ID)
	assert.Equal(t, "MYSTERY", resp.Orders[0].Badge.Label)
	assert.Equal(t, tracker.NeutralStyle, resp.Orders[0].Badge.Style)
	assert.Equal(t, "Recogido", resp.Orders[1].Badge.Label)
	assert.Equal(t, "8.5", resp.Orders[1].Total.String())
}

func TestHandleListOrders_Empty(t *testing.T) {
	f := newFixture("u-1")

	rec := do(f.router, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty", resp.State)
	assert.Empty(t, resp.Orders)
}

func TestHandleListOrders_StoreError(t *testing.T) {
	f := newFixture("u-1")
	f.lister.ListByCustomerFunc = func(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error) {
		return nil, errors.New("down")
	}

	rec := do(f.router, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp dto.OrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.State)
}

func TestHandleListOrders_RequiresCustomer(t *testing.T) {
	f := newFixture("")

	rec := do(f.router, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), OrdersLoginRedirect)
}

func TestHandleStream_PushesSnapshots(t *testing.T) {
	f := newFixture("u-1")
	current := []domain.Order{sampleOrder("a", domain.OrderStatusPaymentPending, 0)}
	updated := make(chan struct{})
	f.lister.ListByCustomerFunc = func(ctx context.Context, customerUID string, source domain.OrderSource) ([]domain.Order, error) {
		select {
		case <-updated:
			return []domain.Order{sampleOrder("a", domain.OrderStatusReady, 0)}, nil
		default:
			return current, nil
		}
	}

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/orders/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	require.Len(t, first.Orders, 1)
	assert.Equal(t, "Pendiente de pago", first.Orders[0].Badge.Label)

	close(updated)
	require.NoError(t, f.feed.Publish(context.Background(), "u-1"))

	second := readEvent(t, reader)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "Listo para recoger!", second.Orders[0].Badge.Label)

	cancel()
	assert.Eventually(t, func() bool { return f.feed.Subscribers("u-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, r *bufio.Reader) dto.OrdersResponse {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			var resp dto.OrdersResponse
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &resp))
			return resp
		}
	}
}

func TestHandleAdvanceStatus(t *testing.T) {
	f := newFixture("")
	f.advancer.AdvanceFunc = func(ctx context.Context, orderID string, next domain.OrderStatus, traceID string) (*domain.Order, error) {
		assert.Equal(t, "o-1", orderID)
		assert.Equal(t, domain.OrderStatusPaid, next)
		o := sampleOrder(orderID, next, 0)
		return &o, nil
	}

	rec := do(f.router, http.MethodPatch, "/api/pos/orders/o-1/status", `{"status":"PAID"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, "Pagado", resp.Badge.Label)
}

func TestHandleAdvanceStatus_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"unknown status", `{"status":"COOKED"}`, nil, http.StatusBadRequest},
		{"bad json", `nope`, nil, http.StatusBadRequest},
		{"invalid transition", `{"status":"READY"}`, apperrors.NewConflictError("cannot move"), http.StatusConflict},
		{"missing order", `{"status":"PAID"}`, apperrors.NewNotFoundError("order not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("")
			f.advancer.AdvanceFunc = func(ctx context.Context, orderID string, next domain.OrderStatus, traceID string) (*domain.Order, error) {
				return nil, tt.err
			}

			rec := do(f.router, http.MethodPatch, "/api/pos/orders/o-1/status", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
