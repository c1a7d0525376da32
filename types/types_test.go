package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    Mode
		wantErr bool
	}{
		{raw: "", want: ServerSearch},
		{raw: "server-search", want: ServerSearch},
		{raw: " Client-Filter ", want: ClientFilter},
		{raw: "both", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, []string{"server-search", "client-filter"}, got.String())
		})
	}
}

func TestParseSelectMode(t *testing.T) {
	m, err := ParseSelectMode("single")
	require.NoError(t, err)
	assert.Equal(t, SingleSelect, m)

	m, err = ParseSelectMode("")
	require.NoError(t, err)
	assert.Equal(t, MultiSelect, m)

	_, err = ParseSelectMode("many")
	assert.Error(t, err)
}

func TestProductGetters(t *testing.T) {
	p := NewProduct(7, "Blue Shirt", "clothing", "https://img.example/7.png")
	assert.Equal(t, int64(7), p.ID())
	assert.Equal(t, "Blue Shirt", p.Title())
	assert.Equal(t, "clothing", p.Category())
	assert.Equal(t, "https://img.example/7.png", p.Image())
}

func TestFetchStatusString(t *testing.T) {
	cases := map[FetchStatus]string{
		Idle:           "idle",
		Loading:        "loading",
		Error:          "error",
		Success:        "success",
		FetchStatus(9): "unknown",
	}
	for s, want := range cases {
		assert.Equal(t, want, s.String(), "FetchStatus(%d)", int(s))
	}
}
