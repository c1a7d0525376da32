package types

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects where candidate products come from
type Mode int

const (
	// ServerSearch sends every committed query to the upstream search endpoint
	ServerSearch Mode = iota
	// ClientFilter loads the whole catalog once and filters it locally
	ClientFilter
)

// String returns the config spelling of the mode
func (m Mode) String() string {
	switch m {
	case ServerSearch:
		return "server-search"
	case ClientFilter:
		return "client-filter"
	default:
		return "unknown"
	}
}

// ParseMode parses the config spelling of a mode
func ParseMode(raw string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "server-search":
		return ServerSearch, nil
	case "client-filter":
		return ClientFilter, nil
	default:
		return ServerSearch, fmt.Errorf("invalid mode %q; expected server-search|client-filter", raw)
	}
}

// SelectMode decides what confirming a candidate does
type SelectMode int

const (
	// MultiSelect appends to the selection set and clears the query
	MultiSelect SelectMode = iota
	// SingleSelect replaces the current selection and keeps the query
	SingleSelect
)

func (s SelectMode) String() string {
	switch s {
	case MultiSelect:
		return "multi"
	case SingleSelect:
		return "single"
	default:
		return "unknown"
	}
}

// ParseSelectMode parses "multi" or "single"
func ParseSelectMode(raw string) (SelectMode, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "multi":
		return MultiSelect, nil
	case "single":
		return SingleSelect, nil
	default:
		return MultiSelect, fmt.Errorf("invalid select mode %q; expected multi|single", raw)
	}
}

// FetchStatus is the state of the data source as seen by the view
type FetchStatus int

const (
	Idle FetchStatus = iota
	Loading
	Error
	Success
)

func (s FetchStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Product is a store catalog entry. Identity is the id.
type Product struct {
	id       int64
	title    string
	category string
	image    string
}

// NewProduct creates a new Product with the given fields
func NewProduct(id int64, title, category, image string) Product {
	return Product{
		id:       id,
		title:    title,
		category: category,
		image:    image,
	}
}

// Getters for Product fields
func (p Product) ID() int64        { return p.id }
func (p Product) Title() string    { return p.title }
func (p Product) Category() string { return p.category }
func (p Product) Image() string    { return p.image }


// ProductSource is the core abstraction for data access.
// The TUI and the MCP server both call it; implementations must be safe
// for concurrent use.
type ProductSource interface {
	// SearchProducts asks the upstream to search. An empty query returns
	// an empty list without a request.
	SearchProducts(ctx context.Context, query string, limit int) ([]Product, error)
	// ListProducts returns the full catalog.
	ListProducts(ctx context.Context) ([]Product, error)
}
