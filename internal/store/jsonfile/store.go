// Package jsonfile implements the store on plain JSON files, one for the
// conversation collection and one for the flattened projection. Suited to
// development and tests; production deployments use the Postgres backend.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/store"
)

const (
	conversationsFileName = "conversations.json"
	flattenedFileName     = "flattenedMessages.json"
)

// Compile-time check to ensure JSONStore implements store.Store
var _ store.Store = (*JSONStore)(nil)

// JSONStore persists conversations and flattened messages as JSON files
// under a single data directory. A mutex serializes every read-modify-write,
// and files are written to a temp name then renamed so a crashed write never
// leaves a truncated collection behind.
type JSONStore struct {
	mu  sync.RWMutex
	dir string
}

// NewJSONStore creates a store rooted at dir, creating the directory if
// needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

// ListConversations returns the full conversation collection. A store that
// has never been written returns an empty collection, not an error.
func (s *JSONStore) ListConversations(_ context.Context) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readConversations()
}

// GetConversation returns one conversation by ID, or store.ErrNotFound.
func (s *JSONStore) GetConversation(_ context.Context, conversationID string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	convs, err := s.readConversations()
	if err != nil {
		return nil, err
	}
	for i := range convs {
		if convs[i].ConversationID == conversationID {
			return &convs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateConversations runs apply on the current collection and persists the
// result, all under the write lock. If apply fails, nothing is written.
func (s *JSONStore) UpdateConversations(_ context.Context, apply func(current []models.Conversation) ([]models.Conversation, error)) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readConversations()
	if err != nil {
		return nil, err
	}
	updated, err := apply(current)
	if err != nil {
		return nil, err
	}
	if err := s.writeJSON(conversationsFileName, updated); err != nil {
		return nil, fmt.Errorf("persisting conversations: %w", err)
	}
	return updated, nil
}

// ReplaceFlattened overwrites the derived flattened collection wholesale.
func (s *JSONStore) ReplaceFlattened(_ context.Context, records []models.FlatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []models.FlatMessage{}
	}
	if err := s.writeJSON(flattenedFileName, records); err != nil {
		return fmt.Errorf("persisting flattened messages: %w", err)
	}
	return nil
}

// LoadFlattened returns the persisted flattened collection.
func (s *JSONStore) LoadFlattened(_ context.Context) ([]models.FlatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.FlatMessage
	if err := s.readJSON(flattenedFileName, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.FlatMessage{}
	}
	return records, nil
}

func (s *JSONStore) readConversations() ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := s.readJSON(conversationsFileName, &convs); err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return convs, nil
}

func (s *JSONStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
