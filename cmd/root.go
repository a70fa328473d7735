package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vstratful/composer/internal/config"
	"github.com/vstratful/composer/internal/logging"
	"github.com/vstratful/composer/internal/tui/composer"
)

var (
	conversationID string
	debugLog       bool
	noMarkdown     bool

	// Set up by PersistentPreRunE for every command
	cfg      *config.Config
	logger   = logging.Discard()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "composer",
	Short: "A terminal composer with shell-style message recall",
	Long: `Composer is a terminal text entry surface for writing messages into
conversations. Each conversation keeps its own history of what you sent:
press Up on an empty composer to recall it, Down to walk back.

Examples:
  composer                          # Start a new conversation
  composer -c 3f2a...               # Open a saved conversation
  composer --debug                  # Log to the config directory
  COMPOSER_HISTORY_LIMIT=50 composer`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE: func(cmd *cobra.Command, args []string) error {
		if conversationID == "" {
			return runComposer(nil)
		}
		conv, err := config.LoadConversation(conversationID)
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}
		return runComposer(conv)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "Open a saved conversation by ID")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Write a debug log to the config directory")
	rootCmd.PersistentFlags().BoolVar(&noMarkdown, "no-markdown", false, "Show messages as plain text")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration and opens the debug log.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if noMarkdown {
		loaded.Markdown = false
	}
	cfg = loaded

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	l, closeFn, err := logging.New(logPath, debugLog)
	if err != nil {
		return err
	}
	logger, closeLog = l, closeFn
	logger.Debug("starting", "command", cmd.Name(), "version", version,
		slog.Group("history", "limit", cfg.History.Limit, "disabled", cfg.History.Disabled))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return closeLog()
}

// runComposer starts the TUI, resuming conv when it is non-nil.
func runComposer(conv *config.Conversation) error {
	return composer.Run(composer.Options{
		Config:       cfg,
		Conversation: conv,
		Logger:       logger,
	})
}
