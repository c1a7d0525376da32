package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/qyinm/storesearch/types"
)

const (
	cursorMark = "▸ "
	pickedMark = "✓ "
	blankMark  = "  "
)

// renderRow renders one candidate on a single line:
// "▸ ✓ Title                                  category"
func renderRow(p types.Product, highlighted, picked bool, width int) string {
	cursor := blankMark
	if highlighted {
		cursor = cursorMark
	}
	mark := blankMark
	if picked {
		mark = RowPickedStyle.Render(pickedMark)
	}

	category := p.Category()
	prefixWidth := runewidth.StringWidth(cursorMark) + runewidth.StringWidth(pickedMark)
	categoryWidth := runewidth.StringWidth(category) + 1
	availableForTitle := width - prefixWidth - categoryWidth
	if availableForTitle < 8 {
		// Too narrow for both; drop the category
		category = ""
		availableForTitle = width - prefixWidth
	}
	if availableForTitle < 1 {
		availableForTitle = 1
	}

	title := runewidth.Truncate(p.Title(), availableForTitle, "…")
	title = runewidth.FillRight(title, availableForTitle)

	titleStyle := RowStyle
	if highlighted {
		titleStyle = HighlightRowStyle
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(cursor))
	b.WriteString(mark)
	b.WriteString(titleStyle.Render(title))
	if category != "" {
		b.WriteString(" ")
		b.WriteString(RowCategoryStyle.Render(category))
	}
	return b.String()
}

// renderDetails renders the picked products, one block per product.
func renderDetails(picked []types.Product, width int) string {
	if len(picked) == 0 {
		return EmptyStyle.Render("Nothing selected yet")
	}
	blocks := make([]string, 0, len(picked))
	for _, p := range picked {
		blocks = append(blocks, strings.Join([]string{
			DetailTitleStyle.Render(runewidth.Truncate(p.Title(), max(width, 1), "…")),
			DetailCategoryStyle.Render(p.Category()),
			DetailImageStyle.Render(runewidth.Truncate(p.Image(), max(width, 1), "…")),
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
