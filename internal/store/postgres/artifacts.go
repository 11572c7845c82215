package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/yashsay/message-app/internal/index"
)

// Compile-time check to ensure ArtifactWriter implements index.ArtifactWriter
var _ index.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter persists built index artifacts into the message_index table
// with a pgvector embedding per row. The whole table is replaced inside one
// transaction, so a failed write leaves the previous artifacts intact.
type ArtifactWriter struct {
	db *pgxpool.Pool
}

// NewArtifactWriter creates a writer over the given pool.
func NewArtifactWriter(db *pgxpool.Pool) *ArtifactWriter {
	return &ArtifactWriter{db: db}
}

// Write replaces the message_index contents with the snapshot's records and
// embeddings.
func (w *ArtifactWriter) Write(ctx context.Context, snap *index.Snapshot) error {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM message_index`); err != nil {
		return fmt.Errorf("clearing message index: %w", err)
	}

	records := snap.Records()
	vectors := snap.Vectors()
	for i := range records {
		vec := make([]float32, len(vectors[i]))
		for j, v := range vectors[i] {
			vec[j] = float32(v)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO message_index (position, conversation_id, message_id, snippet, sender, message_timestamp, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			i, records[i].ConversationID, records[i].MessageID,
			records[i].Text, records[i].Sender, records[i].Timestamp,
			pgvector.NewVector(vec),
		)
		if err != nil {
			log.Printf("ERROR [PostgresStore] index artifact insert %d: %v", i, err)
			return fmt.Errorf("database error writing index entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing index artifacts: %w", err)
	}
	log.Printf("[PostgresStore] Persisted %d index entries (dimension %d)", len(records), snap.Dimension())
	return nil
}
