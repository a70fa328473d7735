package history

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key identifies the recall direction of a key press.
type Key int

const (
	// KeyOther is any key that does not drive recall.
	KeyOther Key = iota
	// KeyOlder recalls the previous (older) entry.
	KeyOlder
	// KeyNewer steps toward the newest entry and then the draft.
	KeyNewer
)

// Modifiers are the modifier keys held during a key press.
type Modifiers struct {
	Meta  bool
	Ctrl  bool
	Alt   bool
	Shift bool
}

// Any reports whether any modifier is held.
func (m Modifiers) Any() bool {
	return m.Meta || m.Ctrl || m.Alt || m.Shift
}

// KeyEvent is a key press as seen by the Controller.
type KeyEvent struct {
	Key Key
	Modifiers
}

// KeyMap binds the recall directions to terminal keys.
type KeyMap struct {
	Older key.Binding
	Newer key.Binding
}

// DefaultKeyMap binds recall to the arrow keys.
func DefaultKeyMap() KeyMap {
	return NewKeyMap([]string{"up"}, []string{"down"})
}

// NewKeyMap builds a KeyMap from key names such as "up" or "ctrl+p".
// Empty lists fall back to the arrow keys.
func NewKeyMap(older, newer []string) KeyMap {
	if len(older) == 0 {
		older = []string{"up"}
	}
	if len(newer) == 0 {
		newer = []string{"down"}
	}
	return KeyMap{
		Older: key.NewBinding(
			key.WithKeys(older...),
			key.WithHelp(older[0], "older entry"),
		),
		Newer: key.NewBinding(
			key.WithKeys(newer...),
			key.WithHelp(newer[0], "newer entry"),
		),
	}
}

// Event translates a Bubble Tea key message. Modified arrows are reported
// as the plain arrow with the modifier set, so they reach the Controller's
// modifier check instead of being mistaken for an unrelated key.
func (k KeyMap) Event(msg tea.KeyMsg) KeyEvent {
	ev := KeyEvent{Modifiers: Modifiers{Alt: msg.Alt}}

	base := msg
	base.Alt = false
	switch msg.Type {
	case tea.KeyShiftUp:
		base.Type, ev.Shift = tea.KeyUp, true
	case tea.KeyShiftDown:
		base.Type, ev.Shift = tea.KeyDown, true
	case tea.KeyCtrlUp:
		base.Type, ev.Ctrl = tea.KeyUp, true
	case tea.KeyCtrlDown:
		base.Type, ev.Ctrl = tea.KeyDown, true
	case tea.KeyCtrlShiftUp:
		base.Type, ev.Ctrl, ev.Shift = tea.KeyUp, true, true
	case tea.KeyCtrlShiftDown:
		base.Type, ev.Ctrl, ev.Shift = tea.KeyDown, true, true
	}

	switch {
	case key.Matches(base, k.Older):
		ev.Key = KeyOlder
	case key.Matches(base, k.Newer):
		ev.Key = KeyNewer
	}
	return ev
}
