// Package composer is the Bubble Tea composer: a textarea with per-conversation
// history recall, a transcript, attachments and a conversation switcher.
package composer

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vstratful/composer/internal/config"
	"github.com/vstratful/composer/internal/history"
	"github.com/vstratful/composer/internal/logging"
	"github.com/vstratful/composer/internal/tui"
	"github.com/vstratful/composer/internal/tui/picker"
)

// Message types for tea.Msg
type (
	afterRenderMsg         struct{}
	escTimeoutMsg          struct{}
	conversationsLoadedMsg struct {
		summaries []config.ConversationSummary
		err       error
	}
)

// frameQueue defers recall caret placement to the next turn of the event
// loop, after the textarea has rendered the recalled text.
type frameQueue struct {
	pending []func()
}

func (q *frameQueue) AfterRender(fn func()) {
	q.pending = append(q.pending, fn)
}

// cmd returns a command that wakes the loop to flush, or nil if idle.
func (q *frameQueue) cmd() tea.Cmd {
	if len(q.pending) == 0 {
		return nil
	}
	return func() tea.Msg { return afterRenderMsg{} }
}

func (q *frameQueue) flush() {
	pending := q.pending
	q.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// Model is the Bubble Tea model for the composer.
type Model struct {
	// UI components
	viewport viewport.Model
	input    *textInput
	picker   *picker.Model

	// Recall
	history *history.Controller
	frames  *frameQueue
	keys    history.KeyMap

	// Conversations opened during this process, by ID
	conv          *config.Conversation
	conversations map[string]*config.Conversation
	isResumed     bool

	attachments  []string
	autocomplete *AutocompleteState

	// State
	mode            Mode
	escPressedAt    time.Time
	escActionIsExit bool
	showingSummary  bool
	err             error
	ready           bool
	width           int
	height          int

	cfg        *config.Config
	logger     *slog.Logger
	mdRenderer *tui.MarkdownRenderer
}

// Options holds configuration for creating a new composer.
type Options struct {
	Config *config.Config
	// Conversation is resumed when set; otherwise a new one is started.
	Conversation *config.Conversation
	Logger       *slog.Logger
}

// New creates a new composer Model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	input := newTextInput()
	frames := &frameQueue{}
	ctrl := history.NewController(history.Options{
		Limit:     cfg.History.Limit,
		Scheduler: frames,
		OnCaret:   func(offset int) { input.caret = offset },
		Logger:    logger,
	})
	ctrl.Attach(input)

	// Markdown renderer failures fall back to plain text
	mdRenderer, err := tui.NewMarkdownRenderer(config.DefaultTerminalWidth, cfg.Markdown)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "err", err)
		mdRenderer, _ = tui.NewMarkdownRenderer(config.DefaultTerminalWidth, false)
	}

	m := Model{
		input:         input,
		history:       ctrl,
		frames:        frames,
		keys:          history.NewKeyMap(cfg.Keys.Older, cfg.Keys.Newer),
		conversations: make(map[string]*config.Conversation),
		autocomplete:  NewAutocompleteState(),
		cfg:           cfg,
		logger:        logger,
		mdRenderer:    mdRenderer,
	}

	if opts.Conversation != nil {
		m.openConversation(opts.Conversation, true)
	} else {
		m.openConversation(config.NewConversation(), false)
	}

	return m
}

// Init initializes the composer model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Conversation returns the active conversation.
func (m Model) Conversation() *config.Conversation {
	return m.conv
}

// IsResumed returns whether the active conversation was loaded from disk.
func (m Model) IsResumed() bool {
	return m.isResumed
}

// History returns the recall controller.
func (m Model) History() *history.Controller {
	return m.history
}

// Value returns the composer text.
func (m Model) Value() string {
	return m.input.Value()
}

// CaretOffset returns the caret offset last placed by recall.
func (m Model) CaretOffset() int {
	return m.input.caret
}

// Attachments returns the files pending for the next message.
func (m Model) Attachments() []string {
	return m.attachments
}

// Mode returns what the screen is currently doing.
func (m Model) Mode() Mode {
	return m.mode
}

// Err returns the last error.
func (m Model) Err() error {
	return m.err
}

// openConversation makes conv the active partition. A conversation already
// open in this process is reused so its transcript stays current.
func (m *Model) openConversation(conv *config.Conversation, resumed bool) {
	if open, ok := m.conversations[conv.ID]; ok {
		conv = open
	}
	m.conv = conv
	m.conversations[conv.ID] = conv
	m.isResumed = resumed
	m.err = nil
	m.syncHistory()
	m.logger.Info("conversation opened", "id", conv.ID, "messages", len(conv.Messages), "resumed", resumed)
	m.updateViewportContent()
}

// syncHistory hands the controller the flags it checks on each key press.
func (m *Model) syncHistory() {
	m.history.Sync(history.Props{
		Disabled:         m.cfg.History.Disabled,
		AutocompleteOpen: m.autocomplete.Visible(),
		HasAttachments:   len(m.attachments) > 0,
		PartitionKey:     m.conv.ID,
	})
}

// openSummaries lists the conversations opened during this process.
func (m Model) openSummaries() []config.ConversationSummary {
	open := make([]config.ConversationSummary, 0, len(m.conversations))
	for _, c := range m.conversations {
		open = append(open, c.Summary())
	}
	return open
}

// loadConversations lists saved conversations for the picker. Open ones are
// computed here, on the event loop, and merged in the command.
func (m Model) loadConversations() tea.Cmd {
	open := m.openSummaries()
	return func() tea.Msg {
		saved, err := config.ListConversations()
		if err != nil {
			return conversationsLoadedMsg{err: err}
		}
		return conversationsLoadedMsg{summaries: mergeSummaries(open, saved)}
	}
}

// Run starts the composer TUI.
func Run(opts Options) error {
	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
