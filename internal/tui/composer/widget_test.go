package composer

import (
	"testing"
	"time"

	"github.com/vstratful/composer/internal/config"
)

func TestOffsetToRowCol(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		offset  int
		wantRow int
		wantCol int
	}{
		{"start", "abc", 0, 0, 0},
		{"end of single line", "abc", 3, 0, 3},
		{"second line", "ab\ncd", 4, 1, 1},
		{"line boundary", "ab\ncd", 2, 0, 2},
		{"after newline", "ab\ncd", 3, 1, 0},
		{"multibyte", "héllo\nwörld", 11, 1, 5},
		{"past end clamps", "ab\ncd", 99, 1, 2},
		{"empty", "", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := offsetToRowCol(tt.text, tt.offset)
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("offsetToRowCol(%q, %d) = (%d, %d), want (%d, %d)",
					tt.text, tt.offset, row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestTextInput_SetSelectionMultiline(t *testing.T) {
	in := newTextInput()
	in.SetValue("first\nsecond\nthird")

	in.SetSelection(0, 3)
	if in.ta.Line() != 0 {
		t.Errorf("Line() = %d, want 0", in.ta.Line())
	}

	in.SetSelection(0, len([]rune("first\nsecond\nthird")))
	if in.ta.Line() != 2 {
		t.Errorf("Line() = %d, want 2", in.ta.Line())
	}
	if got := in.ta.LineInfo().ColumnOffset; got != 5 {
		t.Errorf("ColumnOffset = %d, want 5", got)
	}
}

func TestMergeSummaries(t *testing.T) {
	now := time.Now()
	saved := []config.ConversationSummary{
		{ID: "a", UpdatedAt: now.Add(-2 * time.Hour), MessageCount: 1},
		{ID: "b", UpdatedAt: now.Add(-time.Hour), MessageCount: 3},
	}
	open := []config.ConversationSummary{
		{ID: "a", UpdatedAt: now, MessageCount: 2},
		{ID: "c", UpdatedAt: now.Add(-3 * time.Hour)},
	}

	got := mergeSummaries(open, saved)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	wantOrder := []string{"a", "b", "c"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[0].MessageCount != 2 {
		t.Errorf("open conversation should win, got MessageCount %d", got[0].MessageCount)
	}
}
