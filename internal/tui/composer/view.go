package composer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/vstratful/composer/internal/tui"
)

// View renders the composer model.
func (m Model) View() string {
	if m.picker != nil {
		return m.picker.View()
	}

	if !m.ready {
		return "Initializing..."
	}

	header := tui.HelpStyle.Render("Conversation " + shortID(m.conv.ID))
	if m.isResumed {
		header += " " + tui.HelpStyle.Render("(Resumed)")
	}

	sep := tui.DimHelpStyle.Render(" • ")
	var footer string
	switch pos, navigating := m.history.Position().Index(); {
	case m.mode == ModeEscPending:
		escAction := "clear input"
		if m.escActionIsExit {
			escAction = "exit"
		}
		footer = tui.EscWarningStyle.Render("Press ⎋ again to " + escAction)
	case navigating:
		n := m.history.Store().Len(m.conv.ID)
		historyPos := fmt.Sprintf("history (%d/%d)", n-pos, n)
		footer = tui.HistoryModeStyle.Render(historyPos) +
			sep + tui.DimHelpStyle.Render("↑↓: navigate • type to edit • Enter: send")
	default:
		hints := []string{
			tui.KeyHintStyle.Render("Enter") + tui.DimHelpStyle.Render(": send"),
			tui.KeyHintStyle.Render("↑") + tui.DimHelpStyle.Render(": history"),
			tui.KeyHintStyle.Render("/") + tui.DimHelpStyle.Render(": commands"),
		}
		footer = strings.Join(hints, sep)
	}

	// Style the input box - change border color based on state
	inputStyle := tui.InputBoxStyle
	if m.mode == ModeEscPending {
		inputStyle = tui.EscWarningBoxStyle
	} else if m.history.Position().Navigating() {
		inputStyle = tui.HistoryBorderStyle
	}

	var inputBox string
	if m.showingSummary {
		summaryText := tui.DimHelpStyle.Render(fmt.Sprintf("[text input: %d lines] ", m.calculateVisualLines())) + "Enter: send | Backspace: clear"
		inputBox = inputStyle.Width(m.width - 4).Render(summaryText)
	} else {
		inputBox = inputStyle.Width(m.width - 4).Render(m.input.ta.View())
	}

	parts := []string{header, m.viewport.View()}
	if m.autocomplete.Visible() && len(m.autocomplete.Filtered()) > 0 {
		parts = append(parts, m.renderAutocomplete())
	}
	if len(m.attachments) > 0 {
		parts = append(parts, renderAttachments(m.attachments))
	}
	parts = append(parts, inputBox, footer)

	return strings.Join(parts, "\n")
}

// renderAutocomplete renders the autocomplete dropdown.
func (m *Model) renderAutocomplete() string {
	var items []string
	for i, cmd := range m.autocomplete.Filtered() {
		var line string
		if i == m.autocomplete.Index() {
			line = tui.AutocompleteSelectedStyle.Render("> " + cmd.Usage())
		} else {
			line = tui.AutocompleteItemStyle.Render(cmd.Usage())
		}
		line += " " + tui.AutocompleteDescStyle.Render(cmd.Description)
		items = append(items, line)
	}
	return tui.AutocompleteBoxStyle.Render(strings.Join(items, "\n"))
}

// renderAttachments renders pending attachments as a row of chips.
func renderAttachments(paths []string) string {
	chips := make([]string, len(paths))
	for i, p := range paths {
		chips[i] = tui.AttachmentStyle.Render("📎 " + attachmentLabel(p))
	}
	return strings.Join(chips, " ")
}

// attachmentLabel names a file, with its language when the extension is
// unambiguous.
func attachmentLabel(path string) string {
	name := filepath.Base(path)
	if lang, safe := enry.GetLanguageByExtension(name); safe && lang != "" {
		return name + " · " + lang
	}
	return name
}

// updateViewportContent updates the viewport with the transcript.
func (m *Model) updateViewportContent() {
	var sb strings.Builder

	if len(m.conv.Messages) == 0 {
		sb.WriteString(tui.HelpStyle.Render("No messages yet. Press ↑ on an empty composer to recall what you sent."))
		sb.WriteString("\n\n")
	}

	for _, msg := range m.conv.Messages {
		sb.WriteString(tui.TimestampStyle.Render(msg.SentAt.Format("15:04")))
		sb.WriteString(" ")
		sb.WriteString(tui.UserStyle.Render("You:"))
		sb.WriteString("\n")
		if msg.Content != "" {
			sb.WriteString(m.mdRenderer.Render(msg.Content))
			sb.WriteString("\n")
		}
		if len(msg.Attachments) > 0 {
			sb.WriteString(renderAttachments(msg.Attachments))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString(tui.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// shortID abbreviates a conversation ID for the header.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
