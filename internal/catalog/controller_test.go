package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafeteria/internal/domain"
)

type stubReader struct {
	catalog Catalog
}

func (s *stubReader) Load(ctx context.Context) Catalog { return s.catalog }

func (s *stubReader) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	return nil, nil
}

func TestController_HandleGetCatalog(t *testing.T) {
	reader := &stubReader{catalog: GroupByCategory([]domain.Product{
		product("p1", "Café con leche", "Cafés", "1.60"),
	}, nil)}
	ctrl := NewController(reader, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.HandleGetCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body CatalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Cafés", body.Categories[0].Name)
	assert.Equal(t, "p1", body.Categories[0].Products[0].ID)
	assert.Equal(t, "1.6", body.Categories[0].Products[0].Price.String())
}

func TestController_HandleGetCatalog_EmptyIsOK(t *testing.T) {
	ctrl := NewController(&stubReader{}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.HandleGetCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":[]}`, rec.Body.String())
}
