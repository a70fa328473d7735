package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"github.com/vstratful/composer/internal/config"
	"github.com/vstratful/composer/internal/tui"
)

var showDetails bool

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"ls"},
	Short:   "List saved conversations",
	Long: `List saved conversations, most recent first.

Examples:
  composer conversations              # One line per conversation
  composer conversations --details    # Include timestamps
  composer conversations show <id>    # Print a transcript`,
	Args: cobra.NoArgs,
	RunE: runConversations,
}

var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
	conversationsCmd.AddCommand(showCmd)
	conversationsCmd.Flags().BoolVar(&showDetails, "details", false, "Show detailed conversation information")
}

func runConversations(cmd *cobra.Command, args []string) error {
	summaries, err := config.ListConversations()
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No saved conversations found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d conversations:\n\n", len(summaries))
	for _, s := range summaries {
		if showDetails {
			printConversationDetails(out, s)
		} else {
			printConversationSummary(out, s)
		}
	}
	return nil
}

func printConversationSummary(w io.Writer, s config.ConversationSummary) {
	fmt.Fprintf(w, "%-36s  %3d  %s\n", s.ID, s.MessageCount, s.Preview)
}

func printConversationDetails(w io.Writer, s config.ConversationSummary) {
	fmt.Fprintf(w, "ID: %s\n", s.ID)
	fmt.Fprintf(w, "Created: %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated: %s\n", s.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Messages: %d\n", s.MessageCount)
	if s.Preview != "" {
		fmt.Fprintf(w, "First: %s\n", s.Preview)
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
}

func runShow(cmd *cobra.Command, args []string) error {
	conv, err := config.LoadConversation(args[0])
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	width := config.DefaultTerminalWidth
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = tw
	}

	renderer, err := tui.NewMarkdownRenderer(width, cfg.Markdown)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, msg := range conv.Messages {
		fmt.Fprintln(out, tui.TimestampStyle.Render(msg.SentAt.Format("2006-01-02 15:04")))
		if msg.Content != "" {
			fmt.Fprintln(out, renderer.Render(msg.Content))
		}
		for _, a := range msg.Attachments {
			fmt.Fprintln(out, tui.AttachmentStyle.Render("📎 "+filepath.Base(a)))
		}
		fmt.Fprintln(out)
	}
	return nil
}
