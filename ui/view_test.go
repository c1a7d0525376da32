package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qyinm/storesearch/types"
)

func TestScrollIntoView(t *testing.T) {
	tests := []struct {
		name                string
		offset, rows, index int
		want                int
	}{
		{"visible stays", 2, 5, 4, 2},
		{"above scrolls up to it", 3, 5, 1, 1},
		{"below scrolls down to last row", 0, 5, 7, 3},
		{"exact bottom edge", 0, 5, 4, 0},
		{"no highlight", 4, 5, -1, 4},
		{"no rows", 4, 0, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrollIntoView(tt.offset, tt.rows, tt.index))
		})
	}
}

func frameWith(status types.FetchStatus, committed string, candidates []types.Product) Frame {
	return Frame{
		Input:      "> " + committed,
		Spinner:    "* ",
		Status:     status,
		Committed:  committed,
		Candidates: candidates,
		Highlight:  -1,
		Rows:       3,
		Width:      60,
		PanelTitle: "Selections",
	}
}

func TestRenderFrameStatusLine(t *testing.T) {
	assert.Contains(t, renderFrame(frameWith(types.Loading, "a", nil)), "* "+loadingText)
	assert.Contains(t, renderFrame(frameWith(types.Error, "a", nil)), errorText)
	assert.Contains(t, renderFrame(frameWith(types.Success, "a", nil)), emptyText)

	idle := renderFrame(frameWith(types.Idle, "", nil))
	assert.NotContains(t, idle, emptyText)
	assert.NotContains(t, idle, loadingText)
	assert.NotContains(t, idle, errorText)
}

func TestRenderFrameWindowAndHighlight(t *testing.T) {
	f := frameWith(types.Success, "shirt", products("Shirt", 6))
	f.Offset = 2
	f.Highlight = 3
	f.Picked = func(id int64) bool { return id == 3 }

	out := renderFrame(f)
	assert.NotContains(t, out, "Shirt 2")
	assert.Contains(t, out, "Shirt 5")
	assert.NotContains(t, out, "Shirt 6")
	assert.Contains(t, out, "↓ 1 more")
	assert.Contains(t, out, "6 results")

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Shirt 4"):
			assert.True(t, strings.HasPrefix(line, cursorMark), line)
		case strings.Contains(line, "Shirt 3"):
			assert.Contains(t, line, pickedMark)
			assert.False(t, strings.HasPrefix(line, cursorMark), line)
		}
	}
}

func TestRenderRowTruncatesLongTitles(t *testing.T) {
	p := types.NewProduct(1, strings.Repeat("Wide ", 30), "electronics", "x.png")
	row := renderRow(p, false, false, 40)
	assert.Contains(t, row, "…")
	assert.Contains(t, row, "electronics")
}

func TestRenderDetails(t *testing.T) {
	assert.Contains(t, renderDetails(nil, 40), "Nothing selected")

	out := renderDetails([]types.Product{
		types.NewProduct(7, "Desk Lamp", "home", "https://img.example/lamp.png"),
	}, 60)
	assert.Contains(t, out, "Desk Lamp")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "https://img.example/lamp.png")
}
