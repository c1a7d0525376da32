package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const catalogBody = `[
  {"id": 1, "title": "Classic Shirt", "category": "clothing", "image": "https://img.example/1.png"},
  {"id": 2, "title": "Wireless Mouse", "category": "electronics", "image": "https://img.example/2.png"}
]`

type upstream struct {
	*httptest.Server
	hits    atomic.Int32
	queries chan string
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{queries: make(chan string, 16)}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		select {
		case u.queries <- r.URL.RawQuery:
		default:
		}
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, body)
	}
}

func TestNewNormalizesBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("  ").BaseURL())
	assert.Equal(t, "https://api.example/v1", New("https://api.example/v1/").BaseURL())
}

func TestSearchProductsRequest(t *testing.T) {
	var gotPath, gotSearch, gotLimit, gotAccept string
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		gotLimit = r.URL.Query().Get("limit")
		gotAccept = r.Header.Get("Accept")
		serveJSON(catalogBody)(w, r)
	})

	c := New(u.URL + "/api")
	got, err := c.SearchProducts(context.Background(), "blue shirt", 15)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "/api/products", gotPath)
	assert.Equal(t, "blue shirt", gotSearch)
	assert.Equal(t, "15", gotLimit)
	assert.Equal(t, "application/json", gotAccept)
}

func TestSearchProductsEmptyQuerySkipsNetwork(t *testing.T) {
	u := newUpstream(t, serveJSON(catalogBody))

	got, err := New(u.URL).SearchProducts(context.Background(), "", 15)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, u.hits.Load())
}

func TestSearchProductsOmitsNonPositiveLimit(t *testing.T) {
	u := newUpstream(t, serveJSON(catalogBody))

	_, err := New(u.URL).SearchProducts(context.Background(), "mouse", 0)
	require.NoError(t, err)
	assert.Equal(t, "search=mouse", <-u.queries)
}

func TestSearchProductsCachedPerQuery(t *testing.T) {
	u := newUpstream(t, serveJSON(catalogBody))
	c := New(u.URL)
	ctx := context.Background()

	_, err := c.SearchProducts(ctx, "shirt", 15)
	require.NoError(t, err)
	_, err = c.SearchProducts(ctx, "shirt", 15)
	require.NoError(t, err)
	assert.Equal(t, int32(1), u.hits.Load())

	_, err = c.SearchProducts(ctx, "mouse", 15)
	require.NoError(t, err)
	assert.Equal(t, int32(2), u.hits.Load())

	c.ClearCache()
	_, err = c.SearchProducts(ctx, "shirt", 15)
	require.NoError(t, err)
	assert.Equal(t, int32(3), u.hits.Load())
}

func TestListProductsSharedAcrossCallers(t *testing.T) {
	release := make(chan struct{})
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		serveJSON(catalogBody)(w, r)
	})
	c := New(u.URL)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := c.ListProducts(context.Background())
			if err == nil && len(products) != 2 {
				err = fmt.Errorf("got %d products", len(products))
			}
			errs <- err
		}()
	}
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), u.hits.Load())
}

func TestCallerDeadlineBoundsSlowUpstream(t *testing.T) {
	release := make(chan struct{})
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		serveJSON(catalogBody)(w, r)
	})
	defer close(release)
	c := New(u.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	products, err := c.SearchProducts(ctx, "shirt", 5)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, products)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, elapsed, time.Second)
}

func TestCancelledCallerDoesNotCancelSharedRequest(t *testing.T) {
	release := make(chan struct{})
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		serveJSON(catalogBody)(w, r)
	})
	c := New(u.URL)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.ListProducts(ctx)
		first <- err
	}()
	require.Eventually(t, func() bool { return u.hits.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	err := <-first
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	close(release)
	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int32(1), u.hits.Load())
}

func TestListProductsNotCachedOnFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		serveJSON(catalogBody)(w, r)
	})
	c := New(u.URL)

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	fail.Store(false)
	got, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), u.hits.Load())
}

func TestNon2xxIsNetworkError(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	_, err := New(u.URL).SearchProducts(context.Background(), "shirt", 15)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrDecode))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "nope", statusErr.Body)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	u := newUpstream(t, serveJSON(catalogBody))
	endpoint := u.URL
	u.Close()

	_, err := New(endpoint).ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestInvalidBodyIsDecodeError(t *testing.T) {
	u := newUpstream(t, serveJSON(`<!doctype html><p>maintenance</p>`))

	_, err := New(u.URL).ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDroppedRecordsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	u := newUpstream(t, serveJSON(`[{"id": 1, "title": "Ok", "category": "c", "image": "i"}, {"id": 2}]`))

	got, err := New(u.URL, WithLogger(zap.New(core))).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	entries := logs.FilterMessage("dropped malformed products").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["dropped"])
	assert.Equal(t, "catalog", entries[0].LoggerName)
}
