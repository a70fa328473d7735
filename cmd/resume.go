package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vstratful/composer/internal/config"
	"github.com/vstratful/composer/internal/tui"
	"github.com/vstratful/composer/internal/tui/picker"
)

var lastConversation bool

var resumeCmd = &cobra.Command{
	Use:   "resume [conversation-id]",
	Short: "Resume a saved conversation",
	Long: `Resume a saved conversation. Recall history starts empty: only the
transcript is saved.

Usage:
  composer resume           # Opens conversation picker TUI
  composer resume <id>      # Resumes conversation directly by ID
  composer resume --last    # Resumes most recent conversation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.Flags().BoolVar(&lastConversation, "last", false, "Resume most recent conversation")
}

func runResume(cmd *cobra.Command, args []string) error {
	var (
		conv *config.Conversation
		err  error
	)

	switch {
	case len(args) > 0:
		conv, err = config.LoadConversation(args[0])
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}

	case lastConversation:
		conv, err = config.GetLatestConversation()
		if errors.Is(err, config.ErrConversationNotFound) {
			fmt.Println("No saved conversations found.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load latest conversation: %w", err)
		}

	default:
		summaries, err := config.ListConversations()
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No saved conversations found.")
			fmt.Println("Start a new one with: composer")
			return nil
		}

		summary, err := runConversationPicker(summaries)
		if err != nil {
			return fmt.Errorf("failed to show conversation picker: %w", err)
		}
		if summary == nil {
			// User quit without selecting
			return nil
		}
		conv, err = config.LoadConversation(summary.ID)
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}
	}

	return runComposer(conv)
}

// conversationPickerModel is a standalone picker for the resume command.
type conversationPickerModel struct {
	picker   picker.Model
	selected *config.ConversationSummary
}

func (m conversationPickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m conversationPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	switch {
	case m.picker.Chosen:
		m.selected = picker.GetConversationSummary(m.picker.SelectedItem())
		return m, tea.Quit
	case m.picker.Quitting:
		return m, tea.Quit
	}
	return m, cmd
}

func (m conversationPickerModel) View() string {
	return m.picker.View() + "\n" + tui.HelpStyle.Render("Enter: select | Esc/q: cancel | /: filter")
}

// runConversationPicker shows the picker TUI and returns the selection, or
// nil if the user cancelled.
func runConversationPicker(summaries []config.ConversationSummary) (*config.ConversationSummary, error) {
	m := conversationPickerModel{
		picker: picker.NewConversationPicker(summaries, "", 0, 0),
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	if fm, ok := finalModel.(conversationPickerModel); ok {
		return fm.selected, nil
	}
	return nil, nil
}
