// Package index builds and serves the vector index over flattened messages.
// Every build is a wholesale replacement: the builder embeds the entire
// flattened sequence and produces an immutable Snapshot, which is published
// by atomic swap only after the build fully succeeds. A failed build never
// disturbs the snapshot currently serving queries.
package index

import (
	"errors"
	"fmt"

	"github.com/yashsay/message-app/internal/models"
)

// ErrNoRecords is returned when a build is attempted over an empty flattened
// sequence. An empty store has no index; queries report not-ready instead.
var ErrNoRecords = errors.New("no records to index")

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// EmbedderFactory produces a fresh Embedder per build. Corpus-trained
// embedders (TF-IDF) learn a vocabulary during Prepare, so an embedder
// instance is owned by exactly one snapshot.
type EmbedderFactory func() Embedder

// Builder turns a flattened message sequence into a searchable Snapshot.
type Builder struct {
	newEmbedder EmbedderFactory
}

// NewBuilder creates a Builder using the given embedder factory.
func NewBuilder(factory EmbedderFactory) *Builder {
	return &Builder{newEmbedder: factory}
}

// Build embeds every record and returns a complete replacement snapshot.
// Running it twice on the same input yields functionally equivalent indexes.
func (b *Builder) Build(records []models.FlatMessage) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	corpus := make([]string, len(records))
	for i := range records {
		corpus[i] = records[i].Text
	}

	emb := b.newEmbedder()
	if err := emb.Prepare(corpus); err != nil {
		return nil, fmt.Errorf("preparing embedder %q: %w", emb.Name(), err)
	}

	vectors := make([][]float64, len(records))
	for i, text := range corpus {
		vec, err := emb.Embed(text)
		if err != nil {
			return nil, fmt.Errorf("embedding record %d: %w", i, err)
		}
		vectors[i] = vec
	}

	return newSnapshot(emb, records, vectors), nil
}
