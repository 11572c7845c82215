package index

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/yashsay/message-app/internal/models"
)

// Match pairs a flattened record with its similarity score and its position
// in the flattened sequence.
type Match struct {
	Record   models.FlatMessage
	Position int
	Score    float64
}

// Snapshot is one fully built, immutable index generation: the flattened
// records, their embeddings, and the embedder that produced them. Safe for
// unbounded concurrent reads.
type Snapshot struct {
	embedder Embedder
	records  []models.FlatMessage
	vectors  [][]float64
	builtAt  time.Time
}

func newSnapshot(emb Embedder, records []models.FlatMessage, vectors [][]float64) *Snapshot {
	return &Snapshot{
		embedder: emb,
		records:  records,
		vectors:  vectors,
		builtAt:  time.Now().UTC(),
	}
}

// Records returns the flattened sequence this snapshot was built from.
// Callers must not modify the returned slice.
func (s *Snapshot) Records() []models.FlatMessage { return s.records }

// Vectors returns the embedding per record, aligned with Records.
func (s *Snapshot) Vectors() [][]float64 { return s.vectors }

// Dimension returns the embedding dimensionality of this snapshot.
func (s *Snapshot) Dimension() int { return s.embedder.Dimension() }

// BuiltAt returns when this snapshot finished building.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of indexed records.
func (s *Snapshot) Len() int { return len(s.records) }

// Search embeds the query with this snapshot's embedder and returns the topK
// nearest records by cosine similarity, ties broken by flattened order.
// Vectors are L2-normalized at build time, so the dot product is the cosine.
func (s *Snapshot) Search(query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	qvec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches := make([]Match, len(s.records))
	for i := range s.records {
		matches[i] = Match{
			Record:   s.records[i],
			Position: i,
			Score:    dot(s.vectors[i], qvec),
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Holder publishes the most recent successfully built snapshot. Readers get
// a consistent snapshot or nothing; a partially built index is never visible.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates an empty Holder; Current reports not-ready until the
// first Swap.
func NewHolder() *Holder { return &Holder{} }

// Swap atomically publishes a new snapshot.
func (h *Holder) Swap(s *Snapshot) { h.current.Store(s) }

// Current returns the last published snapshot, or false if no build has
// ever completed.
func (h *Holder) Current() (*Snapshot, bool) {
	s := h.current.Load()
	return s, s != nil
}
