package picker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/vstratful/composer/internal/config"
)

// ConversationItem wraps a ConversationSummary for display in a picker.
type ConversationItem struct {
	Summary config.ConversationSummary
	Active  bool // the conversation currently shown in the composer
}

func (i ConversationItem) Title() string {
	title := i.Summary.UpdatedAt.Format("Jan 2, 15:04")
	if i.Active {
		title += " (current)"
	}
	return title
}

func (i ConversationItem) Description() string {
	if i.Summary.MessageCount == 0 {
		return "(no messages yet)"
	}
	return fmt.Sprintf("\"%s\" (%d messages)", i.Summary.Preview, i.Summary.MessageCount)
}

func (i ConversationItem) FilterValue() string {
	return i.Summary.Preview
}

// ConversationPickerTitle is the list title of the conversation picker.
const ConversationPickerTitle = "Switch conversation"

// ConversationItems converts summaries into picker items, marking activeID.
func ConversationItems(summaries []config.ConversationSummary, activeID string) []list.Item {
	items := make([]list.Item, len(summaries))
	for i, s := range summaries {
		items[i] = ConversationItem{Summary: s, Active: s.ID == activeID}
	}
	return items
}

// NewConversationPicker creates a new picker for conversations.
func NewConversationPicker(summaries []config.ConversationSummary, activeID string, width, height int) Model {
	return New(Config{
		Title:  ConversationPickerTitle,
		Items:  ConversationItems(summaries, activeID),
		Width:  width,
		Height: height,
	})
}

// GetConversationSummary extracts the ConversationSummary from a selected item.
func GetConversationSummary(item list.Item) *config.ConversationSummary {
	if ci, ok := item.(ConversationItem); ok {
		return &ci.Summary
	}
	return nil
}
