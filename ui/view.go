package ui

import (
	"fmt"
	"strings"

	"github.com/qyinm/storesearch/types"
)

const (
	appTitle = "Store Search"

	// headerLines is the number of lines above the first candidate row:
	// title, search box and status line. Mouse hit-testing depends on it.
	headerLines = 3

	loadingText = "Loading..."
	errorText   = "Error fetching data."
	emptyText   = "No results found"
)

// Frame is a snapshot of everything one screen depends on.
type Frame struct {
	Input      string
	Spinner    string
	Status     types.FetchStatus
	Committed  string
	Candidates []types.Product
	Highlight  int
	Offset     int
	Rows       int
	Width      int
	Picked     func(id int64) bool
	PanelTitle string
	Details    string
	Help       string
}

// renderFrame draws f. It has no side effects.
func renderFrame(f Frame) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(appTitle))
	b.WriteString("\n")
	b.WriteString(f.Input)
	b.WriteString("\n")
	b.WriteString(statusLine(f))
	b.WriteString("\n")

	end := min(f.Offset+f.Rows, len(f.Candidates))
	for i := f.Offset; i < end; i++ {
		p := f.Candidates[i]
		picked := f.Picked != nil && f.Picked(p.ID())
		b.WriteString(renderRow(p, i == f.Highlight, picked, f.Width))
		b.WriteString("\n")
	}
	if hidden := len(f.Candidates) - end; hidden > 0 && f.Offset < end {
		b.WriteString(ScrollHintStyle.Render(fmt.Sprintf("  ↓ %d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(PanelTitleStyle.Render(f.PanelTitle))
	b.WriteString("\n")
	b.WriteString(f.Details)
	b.WriteString("\n")
	b.WriteString(f.Help)
	return b.String()
}

func statusLine(f Frame) string {
	switch f.Status {
	case types.Loading:
		return f.Spinner + LoadingStyle.Render(loadingText)
	case types.Error:
		return ErrorStyle.Render(errorText)
	case types.Success:
		if f.Committed == "" {
			return ""
		}
		if len(f.Candidates) == 0 {
			return EmptyStyle.Render(emptyText)
		}
		noun := "results"
		if len(f.Candidates) == 1 {
			noun = "result"
		}
		return ScrollHintStyle.Render(fmt.Sprintf("%d %s", len(f.Candidates), noun))
	default:
		return ""
	}
}

// scrollIntoView returns the offset that shows row index inside a window of
// rows lines, moving as little as possible.
func scrollIntoView(offset, rows, index int) int {
	if rows <= 0 || index < 0 {
		return offset
	}
	if index < offset {
		return index
	}
	if index >= offset+rows {
		return index - rows + 1
	}
	return offset
}
