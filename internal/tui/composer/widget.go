package composer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
)

// textInput adapts the textarea to history.Widget. It is shared by pointer
// so deferred caret placement reaches the live textarea, not a Model copy.
type textInput struct {
	ta    textarea.Model
	caret int // last caret offset reported by recall
}

func newTextInput() *textInput {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Focus()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(80) // Updated on WindowSizeMsg
	ta.SetHeight(1) // Grows with content
	ta.ShowLineNumbers = false
	// Enter submits; newlines need a modifier
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	return &textInput{ta: ta}
}

func (t *textInput) Value() string { return t.ta.Value() }

func (t *textInput) SetValue(s string) { t.ta.SetValue(s) }

func (t *textInput) Focus() { t.ta.Focus() }

// SetSelection moves the caret to end. The textarea has no selection, so
// start is ignored.
func (t *textInput) SetSelection(_, end int) {
	row, col := offsetToRowCol(t.ta.Value(), end)

	// CursorUp/Down move by visual rows, so bound the walk by content size.
	guard := len(t.ta.Value()) + t.ta.LineCount() + 1
	for i := 0; t.ta.Line() > row && i < guard; i++ {
		t.ta.CursorUp()
	}
	for i := 0; t.ta.Line() < row && i < guard; i++ {
		t.ta.CursorDown()
	}
	t.ta.SetCursor(col)
}

// offsetToRowCol converts a rune offset into a line and column, clamping to
// the end of the text.
func offsetToRowCol(s string, offset int) (int, int) {
	lines := strings.Split(s, "\n")
	for row, line := range lines {
		n := len([]rune(line))
		if offset <= n {
			return row, max(offset, 0)
		}
		offset -= n + 1
	}
	last := len(lines) - 1
	return last, len([]rune(lines[last]))
}
