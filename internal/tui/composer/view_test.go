package composer

import (
	"strings"
	"testing"
)

func TestAttachmentLabel(t *testing.T) {
	if got := attachmentLabel("/src/main.go"); got != "main.go · Go" {
		t.Errorf("attachmentLabel(main.go) = %q, want %q", got, "main.go · Go")
	}
	if got := attachmentLabel("/tmp/NOTES"); got != "NOTES" {
		t.Errorf("attachmentLabel(NOTES) = %q, want %q", got, "NOTES")
	}
}

func TestRenderAttachments(t *testing.T) {
	out := renderAttachments([]string{"/a/one.go", "/b/two.bin"})
	for _, want := range []string{"one.go", "two.bin"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderAttachments() = %q, missing %q", out, want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID() = %q, want %q", got, "01234567")
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q, want %q", got, "abc")
	}
}
