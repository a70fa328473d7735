package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWidget struct {
	value   string
	focused int
	start   int
	end     int
	sets    []string
}

func (w *fakeWidget) Value() string { return w.value }

func (w *fakeWidget) SetValue(s string) {
	w.value = s
	w.sets = append(w.sets, s)
}

func (w *fakeWidget) Focus() { w.focused++ }

func (w *fakeWidget) SetSelection(start, end int) {
	w.start, w.end = start, end
}

// frameQueue holds deferred callbacks until flush, like a render loop.
type frameQueue struct {
	pending []func()
}

func (q *frameQueue) AfterRender(fn func()) {
	q.pending = append(q.pending, fn)
}

func (q *frameQueue) flush() {
	pending := q.pending
	q.pending = nil
	for _, fn := range pending {
		fn()
	}
}

var (
	older = KeyEvent{Key: KeyOlder}
	newer = KeyEvent{Key: KeyNewer}
)

func newTestController(t *testing.T, key string, entries ...string) (*Controller, *fakeWidget) {
	t.Helper()
	c := NewController(Options{})
	w := &fakeWidget{}
	c.Attach(w)
	c.Sync(Props{PartitionKey: key})
	for _, e := range entries {
		c.RecordHistory(e)
	}
	return c, w
}

func TestController_RecallWalk(t *testing.T) {
	c, w := newTestController(t, "conv", "a", "b", "c")

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "c", w.value)
	assert.Equal(t, navigatingAt(2), c.Position())

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "b", w.value)

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "a", w.value)
	assert.Equal(t, navigatingAt(0), c.Position())

	// Oldest boundary: suppressed, but nothing moves or is re-applied.
	sets := len(w.sets)
	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "a", w.value)
	assert.Equal(t, navigatingAt(0), c.Position())
	assert.Len(t, w.sets, sets)

	require.True(t, c.HandleKeyDown(newer))
	assert.Equal(t, "b", w.value)
	require.True(t, c.HandleKeyDown(newer))
	assert.Equal(t, "c", w.value)

	// Newest boundary: exits and restores the draft.
	require.True(t, c.HandleKeyDown(newer))
	assert.Equal(t, "", w.value)
	assert.Equal(t, Idle, c.Position())
}

func TestController_NewerWhileIdleFallsThrough(t *testing.T) {
	c, w := newTestController(t, "conv", "a")

	assert.False(t, c.HandleKeyDown(newer))
	assert.Equal(t, Idle, c.Position())
	assert.Empty(t, w.sets)
}

func TestController_IdleRequiresBlankComposer(t *testing.T) {
	t.Run("text present", func(t *testing.T) {
		c, w := newTestController(t, "conv", "a")
		w.value = "typing"

		assert.False(t, c.HandleKeyDown(older))
		assert.Equal(t, Idle, c.Position())
		assert.Equal(t, "typing", w.value)
	})

	t.Run("attachments present", func(t *testing.T) {
		c, w := newTestController(t, "conv", "a")
		c.Sync(Props{PartitionKey: "conv", HasAttachments: true})

		assert.False(t, c.HandleKeyDown(older))
		assert.Equal(t, Idle, c.Position())
		assert.Equal(t, "", w.value)
	})

	t.Run("no widget", func(t *testing.T) {
		c, _ := newTestController(t, "conv", "a")
		c.Attach(nil)

		assert.False(t, c.HandleKeyDown(older))
		assert.Equal(t, Idle, c.Position())
	})
}

func TestController_IgnoredEvents(t *testing.T) {
	tests := []struct {
		name  string
		props Props
		ev    KeyEvent
	}{
		{"disabled", Props{Disabled: true}, older},
		{"autocomplete open", Props{AutocompleteOpen: true}, older},
		{"meta", Props{}, KeyEvent{Key: KeyOlder, Modifiers: Modifiers{Meta: true}}},
		{"ctrl", Props{}, KeyEvent{Key: KeyOlder, Modifiers: Modifiers{Ctrl: true}}},
		{"alt", Props{}, KeyEvent{Key: KeyOlder, Modifiers: Modifiers{Alt: true}}},
		{"shift", Props{}, KeyEvent{Key: KeyOlder, Modifiers: Modifiers{Shift: true}}},
		{"other key", Props{}, KeyEvent{Key: KeyOther}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestController(t, "conv", "a", "b")
			props := tt.props
			props.PartitionKey = "conv"
			c.Sync(props)

			assert.False(t, c.HandleKeyDown(tt.ev))
			assert.Equal(t, Idle, c.Position())
			assert.Empty(t, w.sets)
		})
	}
}

func TestController_IgnoredEventsWhileNavigating(t *testing.T) {
	c, w := newTestController(t, "conv", "a", "b")
	require.True(t, c.HandleKeyDown(older))

	c.Sync(Props{PartitionKey: "conv", AutocompleteOpen: true})
	assert.False(t, c.HandleKeyDown(older))
	assert.Equal(t, navigatingAt(1), c.Position())
	assert.Equal(t, "b", w.value)
}

func TestController_EmptyHistory(t *testing.T) {
	c, w := newTestController(t, "conv")

	assert.False(t, c.HandleKeyDown(older))
	assert.False(t, c.HandleKeyDown(newer))
	assert.Equal(t, Idle, c.Position())
	assert.Empty(t, w.sets)
}

func TestController_TextChangeStopsRecall(t *testing.T) {
	c, w := newTestController(t, "conv", "a", "b")
	require.True(t, c.HandleKeyDown(older))
	require.True(t, c.HandleKeyDown(older))

	w.value = "a edited"
	c.HandleTextChange(w.value)

	assert.Equal(t, Idle, c.Position())
	assert.Equal(t, "a edited", w.value)
	assert.Equal(t, []string{"a", "b"}, c.Store().Sequence("conv"))

	// A fresh recall needs a blank composer again.
	assert.False(t, c.HandleKeyDown(older))
}

func TestController_TextChangeWhileIdle(t *testing.T) {
	c, w := newTestController(t, "conv", "a")
	w.value = "x"
	c.HandleTextChange("x")
	assert.Equal(t, Idle, c.Position())
	assert.Empty(t, w.sets)
}

func TestController_PartitionSwitch(t *testing.T) {
	c, w := newTestController(t, "conv-1", "one-a", "one-b")
	c.Sync(Props{PartitionKey: "conv-2"})
	c.RecordHistory("two-a")
	c.Sync(Props{PartitionKey: "conv-1"})

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "one-b", w.value)

	c.Sync(Props{PartitionKey: "conv-2"})
	assert.Equal(t, Idle, c.Position())
	assert.Equal(t, "conv-2", c.Partition())

	// The widget still shows the stale recall, so the blank rule blocks.
	assert.False(t, c.HandleKeyDown(older))

	w.value = ""
	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "two-a", w.value)

	// The draft from conv-1 was discarded; exiting restores this draft.
	require.True(t, c.HandleKeyDown(newer))
	assert.Equal(t, "", w.value)
	assert.Equal(t, Idle, c.Position())
}

func TestController_SyncSameKeyKeepsPosition(t *testing.T) {
	c, _ := newTestController(t, "conv", "a", "b")
	require.True(t, c.HandleKeyDown(older))

	c.Sync(Props{PartitionKey: "conv", HasAttachments: true})
	assert.Equal(t, navigatingAt(1), c.Position())
}

func TestController_DefaultPartition(t *testing.T) {
	c, w := newTestController(t, "", "x")
	assert.Equal(t, DefaultPartition, c.Partition())
	assert.Equal(t, []string{"x"}, c.Store().Sequence(DefaultPartition))

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "x", w.value)
}

func TestController_DeferredCaretPlacement(t *testing.T) {
	q := &frameQueue{}
	var caret []int
	c := NewController(Options{
		Scheduler: q,
		OnCaret:   func(offset int) { caret = append(caret, offset) },
	})
	w := &fakeWidget{}
	c.Attach(w)
	c.RecordHistory("héllo")

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "héllo", w.value)
	assert.Zero(t, w.focused, "focus waits for the next render")
	assert.Empty(t, caret)

	q.flush()
	assert.Equal(t, 1, w.focused)
	assert.Equal(t, 5, w.start)
	assert.Equal(t, 5, w.end)
	assert.Equal(t, []int{5}, caret)
}

func TestController_DeferredPlacementAfterDetach(t *testing.T) {
	q := &frameQueue{}
	called := false
	c := NewController(Options{
		Scheduler: q,
		OnCaret:   func(int) { called = true },
	})
	w := &fakeWidget{}
	c.Attach(w)
	c.RecordHistory("a")

	require.True(t, c.HandleKeyDown(older))
	c.Attach(nil)
	q.flush()

	assert.Zero(t, w.focused)
	assert.False(t, called)
}

func TestController_DeferredPlacementReadsLiveWidget(t *testing.T) {
	q := &frameQueue{}
	c := NewController(Options{Scheduler: q})
	first := &fakeWidget{}
	c.Attach(first)
	c.RecordHistory("abc")

	require.True(t, c.HandleKeyDown(older))
	second := &fakeWidget{}
	c.Attach(second)
	q.flush()

	assert.Zero(t, first.focused)
	assert.Equal(t, 1, second.focused)
	assert.Equal(t, 3, second.end)
}

func TestController_SubmitFlow(t *testing.T) {
	c, w := newTestController(t, "conv-1")

	w.value = "hello"
	c.HandleTextChange(w.value)
	c.RecordHistory(w.value)
	c.ResetHistoryNavigation()
	w.value = ""

	assert.Equal(t, []string{"hello"}, c.Store().Sequence("conv-1"))
	assert.Equal(t, Idle, c.Position())

	require.True(t, c.HandleKeyDown(older))
	assert.Equal(t, "hello", w.value)
	assert.Equal(t, navigatingAt(0), c.Position())

	require.True(t, c.HandleKeyDown(newer))
	assert.Equal(t, "", w.value)
	assert.Equal(t, Idle, c.Position())
}

func TestController_Limit(t *testing.T) {
	c := NewController(Options{Limit: 2})
	c.RecordHistory("a")
	c.RecordHistory("b")
	c.RecordHistory("c")
	assert.Equal(t, []string{"b", "c"}, c.Store().Sequence(DefaultPartition))
}
