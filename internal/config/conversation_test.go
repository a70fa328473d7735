package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testConversationDir overrides the conversation directory for testing
var testConversationDir string

func init() {
	originalGetConversationDir := GetConversationDir
	GetConversationDir = func() (string, error) {
		if testConversationDir != "" {
			return testConversationDir, nil
		}
		return originalGetConversationDir()
	}
}

func setupTestDir(t *testing.T) {
	t.Helper()
	testConversationDir = filepath.Join(t.TempDir(), "conversations")
	t.Cleanup(func() { testConversationDir = "" })
}

func TestNewConversation(t *testing.T) {
	c := NewConversation()

	if c.ID == "" {
		t.Error("ID should not be empty")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if len(c.Messages) != 0 {
		t.Errorf("Messages should be empty, got %d items", len(c.Messages))
	}
	if other := NewConversation(); other.ID == c.ID {
		t.Error("two conversations share an ID")
	}
}

func TestConversationSaveAndLoad(t *testing.T) {
	setupTestDir(t)

	c := NewConversation()
	if err := c.Append("Hello", []string{"notes.txt"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	loaded, err := LoadConversation(c.ID)
	if err != nil {
		t.Fatalf("LoadConversation() error = %v", err)
	}
	if loaded.ID != c.ID {
		t.Errorf("ID = %q, want %q", loaded.ID, c.ID)
	}
	if len(loaded.Messages) != 1 {
		t.Fatalf("Messages length = %d, want 1", len(loaded.Messages))
	}
	if loaded.Messages[0].Content != "Hello" {
		t.Errorf("Messages[0].Content = %q, want %q", loaded.Messages[0].Content, "Hello")
	}
	if len(loaded.Messages[0].Attachments) != 1 || loaded.Messages[0].Attachments[0] != "notes.txt" {
		t.Errorf("Messages[0].Attachments = %q, want [notes.txt]", loaded.Messages[0].Attachments)
	}

	info, err := os.Stat(filepath.Join(testConversationDir, c.ID+".json"))
	if err != nil {
		t.Fatalf("failed to stat conversation file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want %o", perm, 0600)
	}
}

func TestLoadConversationNotFound(t *testing.T) {
	setupTestDir(t)

	_, err := LoadConversation("nonexistent-id")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("LoadConversation() error = %v, want ErrConversationNotFound", err)
	}
}

func TestListConversations(t *testing.T) {
	setupTestDir(t)

	c1 := NewConversation()
	c1.Append("First message", nil)

	// Small delay to ensure different UpdatedAt
	time.Sleep(10 * time.Millisecond)

	c2 := NewConversation()
	c2.Append("Second message", nil)

	// Empty conversation should be filtered out
	if err := NewConversation().Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Corrupted files are skipped
	os.WriteFile(filepath.Join(testConversationDir, "broken.json"), []byte("{"), 0600)

	summaries, err := ListConversations()
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("ListConversations() returned %d conversations, want 2", len(summaries))
	}
	if summaries[0].ID != c2.ID {
		t.Errorf("First conversation ID = %q, want %q", summaries[0].ID, c2.ID)
	}
}

func TestListConversationsNoDir(t *testing.T) {
	setupTestDir(t)

	summaries, err := ListConversations()
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("ListConversations() returned %d, want 0", len(summaries))
	}
}

func TestConversationPreview(t *testing.T) {
	c := NewConversation()
	if c.Preview() != "" {
		t.Errorf("Preview() on empty conversation = %q", c.Preview())
	}

	c.Messages = append(c.Messages, Message{
		Content: "This is a very long message that should be truncated\nwhen displayed as a preview in the list",
	})
	preview := c.Preview()
	if n := len([]rune(preview)); n != PreviewTruncateLength {
		t.Errorf("Preview() rune length = %d, want %d", n, PreviewTruncateLength)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview() = %q, want trailing ellipsis", preview)
	}
	if strings.Contains(preview, "\n") {
		t.Errorf("Preview() = %q, should not contain newlines", preview)
	}
}

func TestGetLatestConversation(t *testing.T) {
	setupTestDir(t)

	if _, err := GetLatestConversation(); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("GetLatestConversation() error = %v, want ErrConversationNotFound", err)
	}

	c1 := NewConversation()
	c1.Append("First", nil)

	time.Sleep(10 * time.Millisecond)

	c2 := NewConversation()
	c2.Append("Second", nil)

	latest, err := GetLatestConversation()
	if err != nil {
		t.Fatalf("GetLatestConversation() error = %v", err)
	}
	if latest.ID != c2.ID {
		t.Errorf("GetLatestConversation().ID = %q, want %q", latest.ID, c2.ID)
	}
}
