package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrDecode means the body was not a product array.
	ErrDecode = errors.New("decode error")
)

// StatusError reports a non-2xx upstream response. It matches ErrNetwork.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("network error: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("network error: unexpected status code: %d, body: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}
