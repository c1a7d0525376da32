package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qyinm/storesearch/search"
	"github.com/qyinm/storesearch/types"
)

// Message types for async operations

// debounceMsg fires when the quiet period after a keystroke ends. Only the
// newest seq commits; older timers are stale and do nothing.
type debounceMsg struct {
	seq uint64
}

type productsMsg struct {
	requestID uint64
	query     string
	catalog   bool
	products  []types.Product
	err       error
}

// debounce returns a tea.Cmd that reports seq after d
func debounce(d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// fetchProducts returns a tea.Cmd that runs req against the source under the
// model's lifetime context plus a per-request timeout.
func fetchProducts(ctx context.Context, source types.ProductSource, req search.Request, limit int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var (
			products []types.Product
			err      error
		)
		if req.Catalog {
			products, err = source.ListProducts(ctx)
		} else {
			products, err = source.SearchProducts(ctx, req.Query, limit)
		}
		return productsMsg{
			requestID: req.ID,
			query:     req.Query,
			catalog:   req.Catalog,
			products:  products,
			err:       err,
		}
	}
}
