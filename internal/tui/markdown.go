package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/vstratful/composer/internal/config"
)

// MarkdownRenderer renders transcript messages. With Markdown disabled, or
// if glamour fails, it word-wraps plain text instead.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	enabled  bool
}

// NewMarkdownRenderer creates a renderer wrapping at width.
func NewMarkdownRenderer(width int, enabled bool) (*MarkdownRenderer, error) {
	m := &MarkdownRenderer{enabled: enabled}
	if err := m.SetWidth(width); err != nil {
		return nil, err
	}
	return m, nil
}

// SetWidth updates the word wrap width, rebuilding glamour when it changes.
func (m *MarkdownRenderer) SetWidth(width int) error {
	if width <= 0 {
		width = config.DefaultTerminalWidth
	}
	if width == m.width && (m.renderer != nil || !m.enabled) {
		return nil
	}
	m.width = width
	if !m.enabled {
		return nil
	}

	// Use the dark style explicitly to avoid terminal detection which can
	// interfere with Bubble Tea's terminal handling
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	m.renderer = renderer
	return nil
}

// Width returns the current wrap width.
func (m *MarkdownRenderer) Width() int {
	return m.width
}

// Render renders content for the transcript without trailing newlines.
func (m *MarkdownRenderer) Render(content string) string {
	if m.enabled && m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return Wrap(content, m.width)
}

// Wrap word-wraps plain text to width.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	return strings.TrimRight(wrapped, "\n")
}
