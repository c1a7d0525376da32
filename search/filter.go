package search

import (
	"strings"

	"github.com/qyinm/storesearch/types"
)

// FilterByTitle keeps the products whose title contains query, ignoring
// case. Order is preserved. An empty query matches nothing.
func FilterByTitle(products []types.Product, query string) []types.Product {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title()), needle) {
			out = append(out, p)
		}
	}
	return out
}
