package composer

// Mode represents what the composer screen is currently doing.
type Mode int

const (
	// ModeCompose is the default mode, ready for input.
	ModeCompose Mode = iota
	// ModeEscPending indicates waiting for a second ESC press.
	ModeEscPending
	// ModePicker shows the conversation picker.
	ModePicker
)

// String returns a human-readable name for the mode.
func (s Mode) String() string {
	switch s {
	case ModeCompose:
		return "compose"
	case ModeEscPending:
		return "esc_pending"
	case ModePicker:
		return "picker"
	default:
		return "unknown"
	}
}
