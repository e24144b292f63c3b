package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafeteria/internal/dto"
)

func TestHandleCreate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"orderId":"o-1"}`, http.StatusOK},
		{"missing orderId", `{}`, http.StatusBadRequest},
		{"blank orderId", `{"orderId":"  "}`, http.StatusBadRequest},
		{"invalid json", `orderId=o-1`, http.StatusBadRequest},
	}

	c := NewController(zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/payments/create", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			c.HandleCreate(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandleCreate_EchoesOrderID(t *testing.T) {
	c := NewController(zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create", strings.NewReader(`{"orderId":"o-42"}`))
	rec := httptest.NewRecorder()

	c.HandleCreate(rec, req)

	var resp dto.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "o-42", resp.OrderID)
	assert.Equal(t, NotImplementedMessage, resp.Message)
}
