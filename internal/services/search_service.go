package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/yashsay/message-app/internal/index"
	"github.com/yashsay/message-app/internal/models"
)

// KeywordScorer scores a message text against a query; zero means no match.
// Injected so the matching routine can be swapped without touching the
// facade.
type KeywordScorer func(text, query string) float64

// SubstringScorer is the default keyword scorer: the number of
// case-insensitive occurrences of the query in the text.
func SubstringScorer(text, query string) float64 {
	if query == "" {
		return 0
	}
	return float64(strings.Count(strings.ToLower(text), strings.ToLower(query)))
}

// SearchService serves keyword and semantic queries against the last
// successfully built index snapshot. Pure reader; never mutates state.
type SearchService struct {
	holder      *index.Holder
	scorer      KeywordScorer
	defaultTopK int
	maxTopK     int
}

// NewSearchService creates a SearchService. A nil scorer falls back to
// SubstringScorer; non-positive limits fall back to 5 and 50.
func NewSearchService(holder *index.Holder, scorer KeywordScorer, defaultTopK, maxTopK int) *SearchService {
	if scorer == nil {
		scorer = SubstringScorer
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	if maxTopK <= 0 {
		maxTopK = 50
	}
	return &SearchService{
		holder:      holder,
		scorer:      scorer,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Messages returns the full flattened collection from the current snapshot.
func (s *SearchService) Messages(_ context.Context) ([]models.FlatMessage, error) {
	snap, ok := s.holder.Current()
	if !ok {
		return nil, ErrNotReady
	}
	return snap.Records(), nil
}

// Keyword scores every flattened record against the query and returns the
// topK records by descending score, ties broken by store order. A query that
// matches nothing returns an empty slice, distinct from ErrNotReady.
func (s *SearchService) Keyword(_ context.Context, query string, topK int) ([]models.FlatMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrValidation)
	}
	topK = s.clampTopK(topK)

	snap, ok := s.holder.Current()
	if !ok {
		return nil, ErrNotReady
	}

	type scored struct {
		pos   int
		score float64
	}
	matches := []scored{}
	for pos, rec := range snap.Records() {
		if score := s.scorer(rec.Text, query); score > 0 {
			matches = append(matches, scored{pos: pos, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if topK > len(matches) {
		topK = len(matches)
	}

	results := make([]models.FlatMessage, topK)
	for i := 0; i < topK; i++ {
		results[i] = snap.Records()[matches[i].pos]
	}
	log.Printf("[SearchService] Keyword search returned %d results", len(results))
	return results, nil
}

// Semantic embeds the query, finds the nearest indexed messages by cosine
// similarity, and returns hydrated results with scores.
func (s *SearchService) Semantic(_ context.Context, query string, topK int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrValidation)
	}
	topK = s.clampTopK(topK)

	snap, ok := s.holder.Current()
	if !ok {
		return nil, ErrNotReady
	}

	matches, err := snap.Search(query, topK)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	results := make([]models.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = models.SearchResult{
			ConversationID: m.Record.ConversationID,
			MessageID:      m.Record.MessageID,
			Snippet:        m.Record.Text,
			Participant:    m.Record.Sender,
			Sender:         m.Record.Sender,
			Timestamp:      m.Record.Timestamp,
			Score:          m.Score,
		}
	}
	log.Printf("[SearchService] Semantic search returned %d results", len(results))
	return results, nil
}

func (s *SearchService) clampTopK(topK int) int {
	if topK <= 0 {
		return s.defaultTopK
	}
	if topK > s.maxTopK {
		return s.maxTopK
	}
	return topK
}
