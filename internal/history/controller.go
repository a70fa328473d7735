package history

import (
	"io"
	"log/slog"
)

// Widget is the text entry the Controller recalls into.
type Widget interface {
	Value() string
	SetValue(s string)
	Focus()
	// SetSelection places the caret range at rune offsets [start, end].
	SetSelection(start, end int)
}

// Scheduler defers fn until the widget has re-rendered.
type Scheduler interface {
	AfterRender(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// AfterRender calls f(fn).
func (f SchedulerFunc) AfterRender(fn func()) { f(fn) }

// Props are the caller-owned flags consulted on every key press.
type Props struct {
	Disabled         bool
	AutocompleteOpen bool
	HasAttachments   bool
	PartitionKey     string
}

// Options configure a Controller.
type Options struct {
	// Limit bounds each partition; <= 0 uses DefaultLimit.
	Limit int
	// Scheduler runs caret placement after the next render. Nil runs it
	// immediately.
	Scheduler Scheduler
	// OnCaret receives the caret offset after each recall.
	OnCaret func(offset int)
	Logger  *slog.Logger
}

// Controller is the recall state machine for one composer. It owns the
// Store and is driven from a single event loop.
type Controller struct {
	store  *Store
	widget Widget

	props Props
	key   string
	pos   Position
	draft string

	sched   Scheduler
	onCaret func(int)
	logger  *slog.Logger
}

// NewController creates an Idle Controller on the default partition.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		store:   NewStore(opts.Limit),
		key:     DefaultPartition,
		sched:   opts.Scheduler,
		onCaret: opts.OnCaret,
		logger:  logger,
	}
}

// Attach sets the widget. Passing nil detaches it; pending caret placements
// then do nothing.
func (c *Controller) Attach(w Widget) {
	c.widget = w
}

// Sync updates the caller's flags. A change of partition resets recall.
func (c *Controller) Sync(p Props) {
	c.props = p
	key := PartitionKey(p.PartitionKey)
	if key == c.key {
		return
	}
	c.logger.Debug("history partition changed", "from", c.key, "to", key, "position", c.pos.String())
	c.key = key
	c.ResetHistoryNavigation()
}

// Position returns the current recall position.
func (c *Controller) Position() Position {
	return c.pos
}

// Partition returns the active partition key.
func (c *Controller) Partition() string {
	return c.key
}

// Store returns the underlying history store.
func (c *Controller) Store() *Store {
	return c.store
}

// HandleKeyDown applies a key press and reports whether the caller should
// suppress the key's default action.
func (c *Controller) HandleKeyDown(ev KeyEvent) bool {
	if c.props.Disabled || c.props.AutocompleteOpen || ev.Modifiers.Any() {
		return false
	}
	if ev.Key != KeyOlder && ev.Key != KeyNewer {
		return false
	}
	n := c.store.Len(c.key)
	if n == 0 {
		return false
	}

	i, navigating := c.pos.Index()
	if !navigating {
		if ev.Key != KeyOlder || c.props.HasAttachments || c.widget == nil || c.widget.Value() != "" {
			return false
		}
		c.draft = c.widget.Value()
		c.move(navigatingAt(n - 1))
		c.apply(c.store.at(c.key, n-1))
		return true
	}

	switch ev.Key {
	case KeyOlder:
		next := max(0, i-1)
		if next == i {
			return true
		}
		c.move(navigatingAt(next))
		c.apply(c.store.at(c.key, next))
	case KeyNewer:
		if i >= n-1 {
			draft := c.draft
			c.ResetHistoryNavigation()
			c.apply(draft)
			return true
		}
		c.move(navigatingAt(i + 1))
		c.apply(c.store.at(c.key, i+1))
	}
	return true
}

// HandleTextChange is called when the user edits the text directly. Recall
// stops; the text is left alone.
func (c *Controller) HandleTextChange(string) {
	if c.pos.Navigating() {
		c.ResetHistoryNavigation()
	}
}

// RecordHistory records a submitted value on the active partition.
func (c *Controller) RecordHistory(value string) {
	if c.store.Record(c.key, value) {
		c.logger.Debug("history recorded", "partition", c.key, "len", c.store.Len(c.key))
	}
}

// ResetHistoryNavigation returns to Idle and drops the preserved draft.
func (c *Controller) ResetHistoryNavigation() {
	if c.pos.Navigating() {
		c.logger.Debug("history navigation reset", "position", c.pos.String())
	}
	c.pos = Idle
	c.draft = ""
}

func (c *Controller) move(p Position) {
	c.logger.Debug("history navigate", "partition", c.key, "from", c.pos.String(), "to", p.String())
	c.pos = p
}

// apply writes v into the widget and defers focus and caret placement.
func (c *Controller) apply(v string) {
	if c.widget == nil {
		return
	}
	c.widget.SetValue(v)

	place := func() {
		w := c.widget
		if w == nil {
			return
		}
		end := len([]rune(v))
		w.Focus()
		w.SetSelection(end, end)
		if c.onCaret != nil {
			c.onCaret(end)
		}
	}
	if c.sched == nil {
		place()
		return
	}
	c.sched.AfterRender(place)
}
