package dto

import "github.com/qyinm/storesearch/types"

func FromProduct(p types.Product) Product {
	return Product{
		ID:       p.ID(),
		Title:    p.Title(),
		Category: p.Category(),
		Image:    p.Image(),
	}
}

// FromProducts never returns nil, so empty results encode as [].
func FromProducts(products []types.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}
