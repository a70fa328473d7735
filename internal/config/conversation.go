package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrConversationNotFound is returned when a conversation cannot be found.
var ErrConversationNotFound = errors.New("conversation not found")

// Message is one submitted entry of a conversation transcript.
type Message struct {
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// Conversation is a transcript of submitted messages. Its ID is also the
// partition key of the composer's recall history, which lives in memory only.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// ConversationSummary represents a conversation for list display.
type ConversationSummary struct {
	ID           string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Preview      string // First message, truncated to PreviewTruncateLength
}

// NewConversation creates a new conversation with a generated UUID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// GetConversationDir returns the directory where conversations are stored.
// This is a variable to allow mocking in tests.
var GetConversationDir = func() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "conversations"), nil
}

// Save writes the conversation to disk.
func (c *Conversation) Save() error {
	dir, err := GetConversationDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create conversations directory: %w", err)
	}

	c.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	path := filepath.Join(dir, c.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write conversation file: %w", err)
	}

	return nil
}

// Append adds a message to the transcript and saves.
func (c *Conversation) Append(content string, attachments []string) error {
	c.Messages = append(c.Messages, Message{
		Content:     content,
		Attachments: attachments,
		SentAt:      time.Now(),
	})
	return c.Save()
}

// Preview returns the first message truncated for list display.
func (c *Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return ""
	}
	preview := strings.ReplaceAll(c.Messages[0].Content, "\n", " ")
	runes := []rune(preview)
	if len(runes) > PreviewTruncateLength {
		preview = string(runes[:PreviewTruncateLength-3]) + "..."
	}
	return preview
}

// Summary returns the list view of the conversation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: len(c.Messages),
		Preview:      c.Preview(),
	}
}

// LoadConversation loads an existing conversation by ID.
func LoadConversation(id string) (*Conversation, error) {
	dir, err := GetConversationDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
		}
		return nil, fmt.Errorf("failed to read conversation file: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation file: %w", err)
	}

	return &conv, nil
}

// ListConversations returns summaries of all non-empty conversations sorted
// by UpdatedAt descending.
func ListConversations() ([]ConversationSummary, error) {
	dir, err := GetConversationDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ConversationSummary{}, nil
		}
		return nil, fmt.Errorf("failed to read conversations directory: %w", err)
	}

	var summaries []ConversationSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		conv, err := LoadConversation(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip corrupted files
			continue
		}
		if len(conv.Messages) == 0 {
			continue
		}
		summaries = append(summaries, conv.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	return summaries, nil
}

// GetLatestConversation returns the most recently updated conversation.
func GetLatestConversation() (*Conversation, error) {
	summaries, err := ListConversations()
	if err != nil {
		return nil, err
	}

	if len(summaries) == 0 {
		return nil, ErrConversationNotFound
	}

	return LoadConversation(summaries[0].ID)
}
