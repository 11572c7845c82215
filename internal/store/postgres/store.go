// Package postgres implements the store on PostgreSQL via pgx. Conversations
// are kept as JSONB documents ordered by position; merge exclusion comes from
// a transaction-scoped advisory lock, so concurrent bulk updates serialize at
// the database even across multiple service instances.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/store"
)

// Advisory lock key guarding the conversation collection's read-modify-write.
const conversationsLockKey = 7741

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables (and the pgvector extension) if they do not
// exist yet. Called once at startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			conversation_id TEXT NOT NULL UNIQUE,
			position INT NOT NULL,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS flat_messages (
			position INT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS message_index (
			position INT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			snippet TEXT NOT NULL,
			sender TEXT NOT NULL,
			message_timestamp TEXT NOT NULL,
			embedding vector
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

// ListConversations returns the full conversation collection in store order.
func (s *PostgresStore) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	return s.listConversations(ctx, s.db)
}

// GetConversation returns one conversation by ID, or store.ErrNotFound.
func (s *PostgresStore) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM conversations WHERE conversation_id = $1`,
		conversationID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetConversation %s: %v", conversationID, err)
		return nil, fmt.Errorf("database error fetching conversation: %w", err)
	}

	var conv models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("parsing conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

// UpdateConversations loads the collection, runs apply, and rewrites the
// collection wholesale, all inside one transaction holding the advisory
// lock. If apply fails the transaction rolls back with nothing written.
func (s *PostgresStore) UpdateConversations(ctx context.Context, apply func(current []models.Conversation) ([]models.Conversation, error)) ([]models.Conversation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, conversationsLockKey); err != nil {
		return nil, fmt.Errorf("acquiring conversations lock: %w", err)
	}

	current, err := s.listConversations(ctx, tx)
	if err != nil {
		return nil, err
	}
	updated, err := apply(current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM conversations`); err != nil {
		return nil, fmt.Errorf("clearing conversations: %w", err)
	}
	for i := range updated {
		data, err := json.Marshal(&updated[i])
		if err != nil {
			return nil, fmt.Errorf("encoding conversation %s: %w", updated[i].ConversationID, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO conversations (id, conversation_id, position, data) VALUES ($1, $2, $3, $4)`,
			uuid.New(), updated[i].ConversationID, i, data,
		)
		if err != nil {
			log.Printf("ERROR [PostgresStore] UpdateConversations insert %s: %v", updated[i].ConversationID, err)
			return nil, fmt.Errorf("database error writing conversation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing conversations: %w", err)
	}
	return updated, nil
}

// ReplaceFlattened overwrites the derived flattened collection in one
// transaction, so readers see either the old or the new projection.
func (s *PostgresStore) ReplaceFlattened(ctx context.Context, records []models.FlatMessage) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM flat_messages`); err != nil {
		return fmt.Errorf("clearing flattened messages: %w", err)
	}
	for i := range records {
		data, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("encoding flattened record %d: %w", i, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO flat_messages (position, conversation_id, message_id, data) VALUES ($1, $2, $3, $4)`,
			i, records[i].ConversationID, records[i].MessageID, data,
		)
		if err != nil {
			log.Printf("ERROR [PostgresStore] ReplaceFlattened insert %d: %v", i, err)
			return fmt.Errorf("database error writing flattened record: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LoadFlattened returns the persisted flattened collection in order.
func (s *PostgresStore) LoadFlattened(ctx context.Context) ([]models.FlatMessage, error) {
	rows, err := s.db.Query(ctx, `SELECT data FROM flat_messages ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("database error reading flattened messages: %w", err)
	}
	defer rows.Close()

	records := []models.FlatMessage{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning flattened record: %w", err)
		}
		var rec models.FlatMessage
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parsing flattened record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PostgresStore) listConversations(ctx context.Context, q querier) ([]models.Conversation, error) {
	rows, err := q.Query(ctx, `SELECT data FROM conversations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("database error reading conversations: %w", err)
	}
	defer rows.Close()

	convs := []models.Conversation{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		var conv models.Conversation
		if err := json.Unmarshal(data, &conv); err != nil {
			return nil, fmt.Errorf("parsing conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}
