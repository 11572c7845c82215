package store

import (
	"context"
	"errors"

	"github.com/yashsay/message-app/internal/models"
)

// ErrNotFound is returned when a specific conversation is not found.
var ErrNotFound = errors.New("record not found")

// Store defines durable persistence for the conversation collection
// (authoritative) and the flattened projection (derived). This allows for
// mocking in tests and switching between the JSON-file and Postgres backends.
//
// UpdateConversations is the single write path for conversations: it runs
// apply on the current collection and persists the result under the store's
// exclusion (a mutex for the file backend, an advisory-locked transaction for
// Postgres), so concurrent merges can never interleave their
// read-modify-write and lose messages. It returns the persisted collection.
type Store interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error)
	UpdateConversations(ctx context.Context, apply func(current []models.Conversation) ([]models.Conversation, error)) ([]models.Conversation, error)

	ReplaceFlattened(ctx context.Context, records []models.FlatMessage) error
	LoadFlattened(ctx context.Context) ([]models.FlatMessage, error)
}
