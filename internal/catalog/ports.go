package catalog

import (
	"context"

	"cafeteria/internal/domain"
)

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
}

type CatalogReader interface {
	Load(ctx context.Context) Catalog
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
}
