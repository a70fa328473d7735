package composer

import "strings"

// AutocompleteState manages the command dropdown. While it is visible the
// arrow keys belong to it and history recall stands aside.
type AutocompleteState struct {
	visible  bool
	index    int
	filtered []Command
}

// NewAutocompleteState creates a hidden AutocompleteState.
func NewAutocompleteState() *AutocompleteState {
	return &AutocompleteState{}
}

// Update updates the autocomplete state based on the current input.
func (a *AutocompleteState) Update(input string) {
	// Only complete a bare command word
	if !strings.HasPrefix(input, "/") || strings.Contains(input, " ") {
		a.visible = false
		a.filtered = nil
		a.index = 0
		return
	}

	a.filtered = FilterCommands(input)

	exactMatch := false
	for _, cmd := range a.filtered {
		if strings.EqualFold(cmd.Name, input) {
			exactMatch = true
			break
		}
	}

	a.visible = len(a.filtered) > 0 && !exactMatch

	if a.index >= len(a.filtered) {
		a.index = max(0, len(a.filtered)-1)
	}
}

// Visible returns whether autocomplete is currently showing.
func (a *AutocompleteState) Visible() bool {
	return a.visible
}

// Hide hides the autocomplete dropdown.
func (a *AutocompleteState) Hide() {
	a.visible = false
}

// Up moves selection up in the autocomplete list.
func (a *AutocompleteState) Up() {
	if a.index > 0 {
		a.index--
	}
}

// Down moves selection down in the autocomplete list.
func (a *AutocompleteState) Down() {
	if a.index < len(a.filtered)-1 {
		a.index++
	}
}

// Select returns the text to place in the composer for the selected
// command: its name, followed by a space when it expects an argument.
// Returns empty string if no valid selection.
func (a *AutocompleteState) Select() string {
	if a.index >= len(a.filtered) {
		return ""
	}
	cmd := a.filtered[a.index]
	if cmd.Args != "" {
		return cmd.Name + " "
	}
	return cmd.Name
}

// Index returns the current selection index.
func (a *AutocompleteState) Index() int {
	return a.index
}

// Filtered returns the filtered commands.
func (a *AutocompleteState) Filtered() []Command {
	return a.filtered
}
