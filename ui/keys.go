package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/qyinm/storesearch/search"
)

// Letters are not bound: every printable key belongs to the search box.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Escape      key.Binding
	DetailsUp   key.Binding
	DetailsDown key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "unhighlight")),
	DetailsUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll picks")),
	DetailsDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll picks")),
	Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Escape, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Escape},
		{k.DetailsUp, k.DetailsDown, k.Quit},
	}
}

// navKey translates a key press into a state machine event.
func (k keyMap) navKey(msg tea.KeyMsg) (search.Key, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return search.KeyUp, true
	case key.Matches(msg, k.Down):
		return search.KeyDown, true
	case key.Matches(msg, k.Enter):
		return search.KeyEnter, true
	case key.Matches(msg, k.Escape):
		return search.KeyEscape, true
	}
	return search.KeyUnknown, false
}
