package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette
var (
	DraculaForeground = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "13", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "6", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}

	TitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true)

	// Status line
	LoadingStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed)
	EmptyStyle = lipgloss.NewStyle().
			Foreground(DraculaComment).
			Italic(true)

	// Candidate rows
	RowStyle = lipgloss.NewStyle().
			Foreground(DraculaForeground)
	HighlightRowStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	RowCategoryStyle = lipgloss.NewStyle().
				Foreground(DraculaComment)
	RowPickedStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen)
	ScrollHintStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)

	// Details panel
	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPurple).
			Bold(true)
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	DetailCategoryStyle = lipgloss.NewStyle().
				Foreground(DraculaCyan).
				Italic(true)
	DetailImageStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Underline(true)
)
