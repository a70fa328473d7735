// Package tui provides terminal UI components.
package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Composer styles
var (
	UserStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	TimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	InputBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	// Attachment chips above the input box
	AttachmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#FBBF24")).
			PaddingLeft(1).
			MarginRight(1)

	// Autocomplete styles
	AutocompleteBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1)
	AutocompleteItemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	AutocompleteSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	AutocompleteDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// State-aware styles
	EscWarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	EscWarningBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FF6B6B")).
				Padding(0, 1)

	HistoryModeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A78BFA")).
				Italic(true)

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6EE7B7")).
			Bold(true)

	DimHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	HistoryBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#A78BFA")).
				Padding(0, 1)
)

// Picker styles
var (
	TitleStyle        = lipgloss.NewStyle().MarginLeft(2)
	ItemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	SelectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	PaginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	HelpListStyle     = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)
