package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/qyinm/storesearch/catalog"
	"github.com/qyinm/storesearch/mcpsrv/dto"
	"github.com/qyinm/storesearch/search"
	"github.com/qyinm/storesearch/types"
)

const (
	defaultSearchLimit = 15
	defaultPageLimit   = 25
	maxLimit           = 100
)

type productsSearchArgs struct {
	Query string `json:"query" jsonschema:"Search query, matched by the store"`
	Limit int    `json:"limit,omitempty" jsonschema:"Optional maximum number of items (default 15, max 100)"`
}

type productsFilterArgs struct {
	Query string `json:"query" jsonschema:"Case-insensitive substring of the product title"`
	Limit int    `json:"limit,omitempty" jsonschema:"Optional maximum number of items (default 25, max 100)"`
}

type productsListArgs struct {
	Offset int `json:"offset,omitempty" jsonschema:"Optional pagination offset"`
	Limit  int `json:"limit,omitempty" jsonschema:"Optional page size limit (default 25, max 100)"`
}

type productsOutput struct {
	Query string        `json:"query"`
	Total int           `json:"total"`
	Items []dto.Product `json:"items"`
}

type productsListOutput struct {
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
	NextOffset int           `json:"next_offset"`
	HasMore    bool          `json:"has_more"`
	Total      int           `json:"total"`
	Items      []dto.Product `json:"items"`
}

type cacheClearOutput struct {
	Status string `json:"status"`
}

type ServerOptions struct {
	EnableAdmin bool
	APIKey      string
	Logger      *zap.Logger
}

func NewServer(source types.ProductSource, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	if opts == nil {
		opts = &ServerOptions{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("mcp")

	server := mcp.NewServer(&mcp.Implementation{Name: "storesearch", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "products_search",
		Description: "Search store products by query on the server side.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args productsSearchArgs) (*mcp.CallToolResult, productsOutput, error) {
		return productsSearchHandler(ctx, req, args, source, log)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "products_filter",
		Description: "Filter the full product catalog by title substring.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args productsFilterArgs) (*mcp.CallToolResult, productsOutput, error) {
		return productsFilterHandler(ctx, req, args, source, log)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "products_list",
		Description: "Page through the full product catalog.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args productsListArgs) (*mcp.CallToolResult, productsListOutput, error) {
		return productsListHandler(ctx, req, args, source, log)
	})

	if opts.EnableAdmin && strings.TrimSpace(opts.APIKey) != "" {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "cache_clear",
			Description: "Clear cached product responses (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, cacheClearOutput, error) {
			return cacheClearHandler(ctx, req, source, log)
		})
	}

	return server
}

func productsSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, args productsSearchArgs, source types.ProductSource, log *zap.Logger) (*mcp.CallToolResult, productsOutput, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errorToolResult("query is required"), productsOutput{}, nil
	}
	limit, err := clampLimit(args.Limit, defaultSearchLimit)
	if err != nil {
		return errorToolResult(err.Error()), productsOutput{}, nil
	}

	products, err := source.SearchProducts(ctx, query, limit)
	if err != nil {
		log.Warn("search failed", zap.String("query", query), zap.Error(err))
		return errorToolResult(upstreamMessage("search failed", err)), productsOutput{}, nil
	}

	products = applyLimit(products, limit)
	return nil, productsOutput{
		Query: query,
		Total: len(products),
		Items: dto.FromProducts(products),
	}, nil
}

func productsFilterHandler(ctx context.Context, _ *mcp.CallToolRequest, args productsFilterArgs, source types.ProductSource, log *zap.Logger) (*mcp.CallToolResult, productsOutput, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errorToolResult("query is required"), productsOutput{}, nil
	}
	limit, err := clampLimit(args.Limit, defaultPageLimit)
	if err != nil {
		return errorToolResult(err.Error()), productsOutput{}, nil
	}

	all, err := source.ListProducts(ctx)
	if err != nil {
		log.Warn("catalog load failed", zap.Error(err))
		return errorToolResult(upstreamMessage("fetch catalog failed", err)), productsOutput{}, nil
	}

	matched := search.FilterByTitle(all, query)
	return nil, productsOutput{
		Query: query,
		Total: len(matched),
		Items: dto.FromProducts(applyLimit(matched, limit)),
	}, nil
}

func productsListHandler(ctx context.Context, _ *mcp.CallToolRequest, args productsListArgs, source types.ProductSource, log *zap.Logger) (*mcp.CallToolResult, productsListOutput, error) {
	limit, err := clampLimit(args.Limit, defaultPageLimit)
	if err != nil {
		return errorToolResult(err.Error()), productsListOutput{}, nil
	}

	all, err := source.ListProducts(ctx)
	if err != nil {
		log.Warn("catalog load failed", zap.Error(err))
		return errorToolResult(upstreamMessage("fetch catalog failed", err)), productsListOutput{}, nil
	}

	offset := min(max(args.Offset, 0), len(all))
	end := min(offset+limit, len(all))
	hasMore := end < len(all)
	nextOffset := end
	if !hasMore {
		nextOffset = -1
	}

	return nil, productsListOutput{
		Offset:     offset,
		Limit:      limit,
		NextOffset: nextOffset,
		HasMore:    hasMore,
		Total:      len(all),
		Items:      dto.FromProducts(all[offset:end]),
	}, nil
}

func cacheClearHandler(_ context.Context, _ *mcp.CallToolRequest, source types.ProductSource, log *zap.Logger) (*mcp.CallToolResult, cacheClearOutput, error) {
	clearable, ok := source.(cacheClearSource)
	if !ok {
		return errorToolResult("cache clear is not supported by this source"), cacheClearOutput{}, nil
	}
	clearable.ClearCache()
	log.Info("cache cleared by admin tool")
	return nil, cacheClearOutput{Status: "ok"}, nil
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// upstreamMessage keeps raw upstream errors out of tool output.
func upstreamMessage(prefix string, err error) string {
	var statusErr *catalog.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("%s: upstream returned status %d", prefix, statusErr.StatusCode)
	case errors.Is(err, catalog.ErrDecode):
		return prefix + ": upstream sent an unexpected response"
	case errors.Is(err, context.DeadlineExceeded):
		return prefix + ": upstream timed out"
	default:
		return prefix
	}
}

func clampLimit(limit, fallback int) (int, error) {
	switch {
	case limit < 0:
		return 0, errors.New("limit must not be negative")
	case limit == 0:
		return fallback, nil
	default:
		return min(limit, maxLimit), nil
	}
}

func applyLimit(items []types.Product, limit int) []types.Product {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
