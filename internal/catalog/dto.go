package catalog

import "github.com/shopspring/decimal"

type CatalogResponse struct {
	Categories []CategoryDTO `json:"categories"`
}

type CategoryDTO struct {
	Name     string       `json:"name"`
	Products []ProductDTO `json:"products"`
}

type ProductDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Origin   *string         `json:"origin,omitempty"`
}

func toResponse(c Catalog) CatalogResponse {
	resp := CatalogResponse{Categories: make([]CategoryDTO, 0, len(c.Groups))}
	for _, g := range c.Groups {
		dto := CategoryDTO{Name: g.Name, Products: make([]ProductDTO, 0, len(g.Products))}
		for _, p := range g.Products {
			dto.Products = append(dto.Products, ProductDTO{
				ID:       p.ID,
				Name:     p.Name,
				Price:    p.Price,
				Category: p.Category,
				Origin:   p.Origin,
			})
		}
		resp.Categories = append(resp.Categories, dto)
	}
	return resp
}
