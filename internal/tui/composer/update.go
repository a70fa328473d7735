package composer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/vstratful/composer/internal/config"
	"github.com/vstratful/composer/internal/tui/picker"
)

// Update handles messages for the composer model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case afterRenderMsg:
		// The recalled text has been drawn; now place the caret.
		m.frames.flush()
		return m, nil

	case escTimeoutMsg:
		if m.mode == ModeEscPending {
			m.mode = ModeCompose
		}
		return m, nil

	case conversationsLoadedMsg:
		if m.picker != nil {
			if msg.err != nil {
				m.picker.SetError(msg.err)
			} else {
				m.picker.SetItems(picker.ConversationPickerTitle, picker.ConversationItems(msg.summaries, m.conv.ID))
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		if m.picker != nil {
			p, _ := m.picker.Update(msg)
			m.picker = &p
		}
		return m, nil
	}

	if m.picker != nil {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		// Handle mouse wheel scrolling for viewport (3 lines at a time)
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.SetYOffset(m.viewport.YOffset - 3)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.viewport.SetYOffset(m.viewport.YOffset + 3)
			return m, nil
		}
	}

	var tiCmd, vpCmd tea.Cmd
	m.input.ta, tiCmd = m.input.ta.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// updateKey routes a key press. Recall gets first refusal; whatever it does
// not suppress goes to the dropdown, the composer shortcuts and finally the
// textarea.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.syncHistory()
	if m.history.HandleKeyDown(m.keys.Event(msg)) {
		m.updateTextareaState()
		return m, m.frames.cmd()
	}

	if m.autocomplete.Visible() {
		return m.updateAutocomplete(msg)
	}

	// Handle backspace in summary mode - clear the input
	if m.showingSummary && (msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete) {
		m.clearText()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		isEmpty := strings.TrimSpace(m.input.Value()) == "" && len(m.attachments) == 0
		now := time.Now()

		if m.mode == ModeEscPending && now.Sub(m.escPressedAt) < config.EscDoublePressTimeout {
			// Second ESC within the timeout
			if m.escActionIsExit {
				return m, tea.Quit
			}
			m.attachments = nil
			m.clearText()
			m.syncHistory()
			m.mode = ModeCompose
			return m, nil
		}

		// First ESC - show prompt, start timer
		m.escPressedAt = now
		m.mode = ModeEscPending
		m.escActionIsExit = isEmpty
		return m, tea.Tick(config.EscDoublePressTimeout, func(time.Time) tea.Msg {
			return escTimeoutMsg{}
		})

	case tea.KeyCtrlU:
		// Unix standard: clear line
		m.clearText()
		m.mode = ModeCompose
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyEnter:
		return m.submit()
	}

	return m.forwardToInput(msg)
}

// forwardToInput lets the textarea perform the key's default action and
// reports any resulting edit to recall and the dropdown.
func (m Model) forwardToInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.input.Value()

	var cmd tea.Cmd
	m.input.ta, cmd = m.input.ta.Update(msg)

	if after := m.input.Value(); after != before {
		m.history.HandleTextChange(after)
		m.autocomplete.Update(after)
	}
	m.updateTextareaState()
	return m, cmd
}

// updateAutocomplete handles key events when autocomplete is visible.
func (m Model) updateAutocomplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Hide autocomplete but don't quit
		m.autocomplete.Hide()
		return m, nil

	case tea.KeyUp:
		m.autocomplete.Up()
		return m, nil

	case tea.KeyDown:
		m.autocomplete.Down()
		return m, nil

	case tea.KeyEnter, tea.KeyTab:
		// Fill selected command into textarea
		if selected := m.autocomplete.Select(); selected != "" {
			m.input.ta.SetValue(selected)
			m.history.HandleTextChange(selected)
			m.updateTextareaState()
		}
		m.autocomplete.Hide()
		return m, nil

	default:
		return m.forwardToInput(msg)
	}
}

// submit sends the composer contents, or runs them as a command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" && len(m.attachments) == 0 {
		return m, nil
	}

	if cmd, arg, ok := parseCommand(text); ok {
		return m.runCommand(cmd, arg)
	}

	m.history.RecordHistory(text)
	m.history.ResetHistoryNavigation()

	attachments := m.attachments
	m.attachments = nil
	m.err = nil
	if err := m.conv.Append(text, attachments); err != nil {
		m.err = err
		m.logger.Error("failed to save conversation", "id", m.conv.ID, "err", err)
	}
	m.logger.Debug("message sent", "id", m.conv.ID, "attachments", len(attachments))

	m.clearText()
	m.syncHistory()
	m.updateViewportContent()
	return m, nil
}

// runCommand executes a composer command. The command line itself is never
// recorded for recall.
func (m Model) runCommand(cmd Command, arg string) (tea.Model, tea.Cmd) {
	switch cmd.Name {
	case CmdQuit, CmdExit:
		return m, tea.Quit

	case CmdNew:
		m.clearText()
		m.openConversation(config.NewConversation(), false)
		return m, nil

	case CmdSwitch:
		m.clearText()
		p := picker.NewLoading(m.width, m.height)
		m.picker = &p
		m.mode = ModePicker
		return m, tea.Batch(p.Init(), m.loadConversations())

	case CmdAttach:
		if arg == "" {
			m.err = fmt.Errorf("usage: %s", cmd.Usage())
			m.updateViewportContent()
			return m, nil
		}
		path, err := resolveAttachment(arg)
		if err != nil {
			m.err = err
			m.updateViewportContent()
			return m, nil
		}
		if !slices.Contains(m.attachments, path) {
			m.attachments = append(m.attachments, path)
		}
		m.err = nil
		m.clearText()
		m.syncHistory()
		m.updateViewportContent()
		return m, nil

	case CmdDetach:
		m.attachments = nil
		m.clearText()
		m.syncHistory()
		return m, nil
	}

	return m, nil
}

// updatePicker forwards messages to the conversation picker and handles its
// outcome.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	p, cmd := m.picker.Update(msg)

	switch {
	case p.Chosen:
		m.picker = nil
		m.mode = ModeCompose
		summary := picker.GetConversationSummary(p.SelectedItem())
		if summary != nil && summary.ID != m.conv.ID {
			conv, ok := m.conversations[summary.ID]
			if !ok {
				loaded, err := config.LoadConversation(summary.ID)
				if err != nil {
					m.err = fmt.Errorf("failed to load conversation: %w", err)
					m.updateViewportContent()
					return m, m.input.ta.Focus()
				}
				conv = loaded
			}
			m.openConversation(conv, true)
		}
		return m, m.input.ta.Focus()

	case p.Quitting:
		m.picker = nil
		m.mode = ModeCompose
		return m, m.input.ta.Focus()
	}

	m.picker = &p
	return m, cmd
}

// clearText empties the textarea. Recall treats this as an edit.
func (m *Model) clearText() {
	m.input.ta.Reset()
	m.history.HandleTextChange("")
	m.autocomplete.Update("")
	m.updateTextareaState()
}

// resolveAttachment returns the absolute path of a readable regular file.
func resolveAttachment(arg string) (string, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cannot attach %s: file does not exist", arg)
		}
		return "", fmt.Errorf("cannot attach %s: %w", arg, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot attach %s: is a directory", arg)
	}
	return path, nil
}

// mergeSummaries combines conversations open in this process with those on
// disk. Open ones win, since their transcript may be newer than the file.
func mergeSummaries(open, saved []config.ConversationSummary) []config.ConversationSummary {
	byID := make(map[string]config.ConversationSummary, len(open)+len(saved))
	for _, s := range saved {
		byID[s.ID] = s
	}
	for _, s := range open {
		byID[s.ID] = s
	}

	merged := make([]config.ConversationSummary, 0, len(byID))
	for _, s := range byID {
		merged = append(merged, s)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].UpdatedAt.Equal(merged[j].UpdatedAt) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})
	return merged
}

// resize lays the screen out for a new terminal size.
func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	// Account for border and padding in textarea width
	m.input.ta.SetWidth(max(msg.Width-8, 1))

	// Update markdown renderer width for proper word wrapping
	contentWidth := msg.Width - 4
	if contentWidth < 10 {
		contentWidth = config.DefaultTerminalWidth
	}
	m.mdRenderer.SetWidth(contentWidth)

	if !m.ready {
		m.viewport = viewport.New(msg.Width, 1)
		m.viewport.YPosition = 1
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
	}

	m.updateTextareaState()
	m.updateViewportContent()
}

// calculateVisualLines calculates how many visual rows the content takes.
func (m *Model) calculateVisualLines() int {
	content := m.input.Value()
	if content == "" {
		return 1
	}

	// Use a slightly smaller width than the textarea to be conservative
	textWidth := m.width - 10
	if textWidth <= 0 {
		return 1
	}

	totalLines := 0
	for _, line := range strings.Split(content, "\n") {
		// Wide runes take two cells
		cells := runewidth.StringWidth(line)
		if cells == 0 {
			totalLines++
			continue
		}
		totalLines += (cells + textWidth - 1) / textWidth
	}
	return totalLines
}

// updateTextareaState updates textarea height, summary state and the
// viewport height left over.
func (m *Model) updateTextareaState() {
	visualLines := m.calculateVisualLines()

	// Show summary for very long text (more than 2x max height)
	m.showingSummary = visualLines > maxTextareaHeight*2

	if !m.showingSummary {
		// Add 1 line buffer when there's wrapped content to prevent scroll issues
		newHeight := visualLines
		if visualLines > 1 {
			newHeight++
		}
		m.input.ta.SetHeight(min(max(newHeight, 1), maxTextareaHeight))
	}

	if m.ready && m.height > 0 {
		m.viewport.Height = max(m.height-m.chromeHeight(), 1)
	}
}

// chromeHeight is the number of rows used by everything but the transcript.
func (m *Model) chromeHeight() int {
	headerHeight := 1
	inputBoxHeight := m.input.ta.Height() + 2 // textarea + border
	if m.showingSummary {
		inputBoxHeight = 3
	}
	footerHeight := 1
	rows := headerHeight + inputBoxHeight + footerHeight + 1
	if len(m.attachments) > 0 {
		rows++
	}
	return rows
}
