package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cafeteria/internal/domain"
	apperrors "cafeteria/internal/errors"
)

// OtherCategory collects products whose category cannot be resolved.
const OtherCategory = "Otros"

type Group struct {
	Name     string
	Products []domain.Product
}

// Catalog is the storefront's product listing. Groups keep the order in
// which their category was first seen in the fetch, and products keep
// fetch order within a group.
type Catalog struct {
	Groups []Group
}

func (c Catalog) Empty() bool {
	return len(c.Groups) == 0
}

func (c Catalog) ByCategory() map[string][]domain.Product {
	out := make(map[string][]domain.Product, len(c.Groups))
	for _, g := range c.Groups {
		out[g.Name] = g.Products
	}
	return out
}

type reader struct {
	repo   Repository
	logger *zap.Logger
}

func NewReader(repo Repository, logger *zap.Logger) CatalogReader {
	return &reader{repo: repo, logger: logger}
}

// Load fetches categories and products once. Any fetch error is logged
// and yields an empty catalog.
func (r *reader) Load(ctx context.Context) Catalog {
	categories, err := r.repo.ListCategories(ctx)
	if err != nil {
		r.logger.Error("loading categories failed", zap.Error(err))
		return Catalog{}
	}

	products, err := r.repo.ListProducts(ctx)
	if err != nil {
		r.logger.Error("loading products failed", zap.Error(err))
		return Catalog{}
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	valid := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !sellable(p) {
			r.logger.Warn("skipping malformed product", zap.String("productId", p.ID))
			continue
		}
		valid = append(valid, p)
	}

	catalog := GroupByCategory(valid, names)
	r.logger.Debug("catalog loaded", zap.Int("products", len(valid)), zap.Int("groups", len(catalog.Groups)))
	return catalog
}

// FindProduct returns a product only if Load would list it, so the cart
// never holds a product the catalog hides.
func (r *reader) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := r.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sellable(*p) {
		r.logger.Warn("refusing malformed product", zap.String("productId", p.ID))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	return p, nil
}

// sellable rejects rows with no name or a negative price.
func sellable(p domain.Product) bool {
	return p.Name != "" && !p.Price.IsNegative()
}

// GroupByCategory resolves each product's category through names, then the
// literal category field, then OtherCategory.
func GroupByCategory(products []domain.Product, names map[string]string) Catalog {
	index := make(map[string]int)
	var groups []Group

	for _, p := range products {
		name := names[p.Category]
		if name == "" {
			name = p.Category
		}
		if name == "" {
			name = OtherCategory
		}

		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	return Catalog{Groups: groups}
}
