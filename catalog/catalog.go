package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/qyinm/storesearch/types"
)

const (
	// DefaultBaseURL is the public store API the widget was built against
	DefaultBaseURL   = "https://fakestoreapi.in/api"
	DefaultCacheSize = 128
	DefaultTimeout   = 10 * time.Second

	userAgent    = "storesearch/1.0 (+https://github.com/qyinm/storesearch)"
	errBodyLimit = 512
)

// Client implements types.ProductSource over the store REST API with an
// in-memory LRU cache keyed by request URL.
type Client struct {
	baseURL string
	client  *http.Client
	cache   *lru.Cache[string, []types.Product]
	group   singleflight.Group
	log     *zap.Logger
}

// Compile-time interface check
var _ types.ProductSource = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithCacheSize bounds the number of cached responses.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			return
		}
		if cache, err := lru.New[string, []types.Product](n); err == nil {
			c.cache = cache
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.Named("catalog")
		}
	}
}

// New creates a new Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cache, _ := lru.New[string, []types.Product](DefaultCacheSize)
	c := &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		cache: cache,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// SearchProducts runs a server-side search. An empty query short-circuits
// to an empty list without touching the network.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]types.Product, error) {
	if query == "" {
		return []types.Product{}, nil
	}
	return c.fetch(ctx, c.searchURL(query, limit))
}

// ListProducts returns the whole catalog. The first successful response is
// cached; concurrent callers share one in-flight request.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	return c.fetch(ctx, c.baseURL+"/products")
}

// ClearCache clears the in-memory cache.
func (c *Client) ClearCache() {
	c.cache.Purge()
	c.log.Debug("cache cleared")
}

func (c *Client) searchURL(query string, limit int) string {
	params := url.Values{}
	params.Set("search", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return c.baseURL + "/products?" + params.Encode()
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]types.Product, error) {
	if products, ok := c.cache.Get(endpoint); ok {
		c.log.Debug("cache hit", zap.String("url", endpoint))
		return products, nil
	}

	// The shared request must not die with whichever caller started it, but
	// each caller stops waiting when its own ctx is done.
	ch := c.group.DoChan(endpoint, func() (any, error) {
		return c.get(context.WithoutCancel(ctx), endpoint)
	})
	select {
	case <-ctx.Done():
		c.log.Debug("caller gave up", zap.String("url", endpoint), zap.Error(ctx.Err()))
		return nil, fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug("shared in-flight request", zap.String("url", endpoint))
		}
		return res.Val.([]types.Product), nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string) ([]types.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("request", zap.String("url", endpoint))
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: fetch products: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		c.log.Warn("unexpected status", zap.String("url", endpoint), zap.Int("status", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	products, dropped, err := ParseProducts(resp.Body)
	if err != nil {
		c.log.Warn("decode failed", zap.String("url", endpoint), zap.Error(err))
		return nil, err
	}
	if dropped > 0 {
		c.log.Warn("dropped malformed products", zap.String("url", endpoint), zap.Int("dropped", dropped))
	}
	c.log.Debug("response",
		zap.String("url", endpoint),
		zap.Int("products", len(products)),
		zap.Duration("elapsed", time.Since(start)),
	)

	c.cache.Add(endpoint, products)
	return products, nil
}
