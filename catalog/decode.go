package catalog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/qyinm/storesearch/types"
)

// envelope is the wrapped response shape served by fakestoreapi.in.
type envelope struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Products []json.RawMessage `json:"products"`
}

// record mirrors one upstream product. Pointers tell absent from empty.
type record struct {
	ID       *int64  `json:"id"`
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
}

// ParseProducts decodes a product list. The body may be a bare JSON array
// or an object with a "products" array. Records that are malformed or miss
// a field are skipped and counted in dropped; only an unusable body as a
// whole is an error.
func ParseProducts(reader io.Reader) (products []types.Product, dropped int, err error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}

	items, err := splitItems(raw)
	if err != nil {
		return nil, 0, err
	}

	products = make([]types.Product, 0, len(items))
	for _, item := range items {
		p, ok := decodeRecord(item)
		if !ok {
			dropped++
			continue
		}
		products = append(products, p)
	}
	return products, dropped, nil
}

func splitItems(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return items, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if env.Products == nil {
			return nil, fmt.Errorf("%w: object without products array", ErrDecode)
		}
		return env.Products, nil
	default:
		return nil, fmt.Errorf("%w: unexpected body starting with %q", ErrDecode, trimmed[0])
	}
}

func decodeRecord(item json.RawMessage) (types.Product, bool) {
	var r record
	if err := json.Unmarshal(item, &r); err != nil {
		return types.Product{}, false
	}
	if r.ID == nil || r.Title == nil || r.Category == nil || r.Image == nil {
		return types.Product{}, false
	}
	title := strings.TrimSpace(*r.Title)
	if title == "" {
		return types.Product{}, false
	}
	return types.NewProduct(*r.ID, title, strings.TrimSpace(*r.Category), strings.TrimSpace(*r.Image)), true
}
