package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/yashsay/message-app/internal/flatten"
	"github.com/yashsay/message-app/internal/index"
	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/store"
)

// IngestService is the merge engine: it reconciles incoming conversation
// batches against the store, persists the result, and regenerates the
// flattened collection and vector index. It is the only mutator of the
// conversation store.
type IngestService struct {
	store     store.Store
	builder   *index.Builder
	holder    *index.Holder
	artifacts index.ArtifactWriter

	// Serializes whole bulk updates so two rebuilds never interleave. The
	// store additionally guards its own read-modify-write, which protects
	// against other writers (e.g. a second instance on Postgres).
	mu sync.Mutex
}

// NewIngestService creates an IngestService. artifacts may be nil, in which
// case built indexes are held in memory only.
func NewIngestService(s store.Store, builder *index.Builder, holder *index.Holder, artifacts index.ArtifactWriter) *IngestService {
	return &IngestService{
		store:     s,
		builder:   builder,
		holder:    holder,
		artifacts: artifacts,
	}
}

// BulkUpdate merges the incoming batch into the store and rebuilds the
// derived data. On a post-processing failure the returned stats are still
// valid, since the store write committed, and the error wraps ErrPostProcessing
// so callers can report "saved but search is stale".
func (s *IngestService) BulkUpdate(ctx context.Context, incoming []models.Conversation) (*models.BulkUpdateStats, error) {
	if err := validateBatch(incoming); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.BulkUpdateStats{ConversationsProcessed: len(incoming)}
	updated, err := s.store.UpdateConversations(ctx, func(current []models.Conversation) ([]models.Conversation, error) {
		return mergeBatch(current, incoming, stats), nil
	})
	if err != nil {
		log.Printf("ERROR [IngestService] BulkUpdate: store update failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	log.Printf("[IngestService] BulkUpdate: processed=%d added=%d updated=%d messagesAdded=%d",
		stats.ConversationsProcessed, stats.ConversationsAdded, stats.ConversationsUpdated, stats.MessagesAdded)

	if err := s.rebuild(ctx, updated); err != nil {
		log.Printf("ERROR [IngestService] BulkUpdate: post-processing failed, search index is stale: %v", err)
		return stats, fmt.Errorf("%w: %v", ErrPostProcessing, err)
	}
	return stats, nil
}

// Rebuild regenerates the flattened collection and vector index from the
// current store contents. Used at startup to reconstruct the derived data,
// which is a cache over the authoritative conversation collection.
func (s *IngestService) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, err := s.store.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if len(convs) == 0 {
		log.Println("[IngestService] Rebuild: store is empty, nothing to index")
		return nil
	}
	return s.rebuild(ctx, convs)
}

// rebuild flattens, persists the flattened collection, builds a replacement
// snapshot, and publishes it. The snapshot swap happens only after a fully
// successful build; artifact persistence failures after the swap still count
// as index-build failures for the caller.
func (s *IngestService) rebuild(ctx context.Context, convs []models.Conversation) error {
	records := flatten.Flatten(convs)
	if err := s.store.ReplaceFlattened(ctx, records); err != nil {
		return fmt.Errorf("replacing flattened collection: %w", err)
	}

	// A store with no messages has no index to build. That is a valid state
	// (empty batch, or conversations without messages yet): search reports
	// not-ready until the first message arrives.
	if len(records) == 0 {
		log.Println("[IngestService] No messages to index, skipping index build")
		return nil
	}

	snap, err := s.builder.Build(records)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}
	s.holder.Swap(snap)
	log.Printf("[IngestService] Index rebuilt: %d records, dimension %d", snap.Len(), snap.Dimension())

	if s.artifacts != nil {
		if err := s.artifacts.Write(ctx, snap); err != nil {
			return fmt.Errorf("%w: persisting artifacts: %v", ErrIndexBuild, err)
		}
	}
	return nil
}

// validateBatch rejects the whole batch before any mutation when a
// conversation or message is missing its identifier.
func validateBatch(incoming []models.Conversation) error {
	for i := range incoming {
		if incoming[i].ConversationID == "" {
			return fmt.Errorf("%w: conversation at index %d has no conversationId", ErrValidation, i)
		}
		for j := range incoming[i].Messages {
			if incoming[i].Messages[j].MessageID == "" {
				return fmt.Errorf("%w: conversation %q message at index %d has no messageId",
					ErrValidation, incoming[i].ConversationID, j)
			}
		}
	}
	return nil
}

// mergeBatch reconciles each incoming conversation against the current
// collection, updating stats as it goes. Existing conversations keep their
// message order and gain only messages whose messageId is new; subject,
// purpose, participants, and status are overwritten last-write-wins.
// A conversation that already exists counts as updated whenever it is
// processed, whether or not anything changed.
func mergeBatch(current, incoming []models.Conversation, stats *models.BulkUpdateStats) []models.Conversation {
	byID := make(map[string]int, len(current))
	for i := range current {
		byID[current[i].ConversationID] = i
	}

	for i := range incoming {
		in := incoming[i]
		pos, exists := byID[in.ConversationID]
		if !exists {
			// Within-batch dedup applies to brand-new conversations too.
			in.Messages = dedupeMessages(nil, in.Messages, stats)
			current = append(current, in)
			byID[in.ConversationID] = len(current) - 1
			stats.ConversationsAdded++
			continue
		}

		ex := &current[pos]
		ex.Messages = dedupeMessages(ex.Messages, in.Messages, stats)
		ex.Subject = in.Subject
		ex.Purpose = in.Purpose
		ex.Participants = in.Participants
		ex.Status = in.Status
		stats.ConversationsUpdated++
	}
	return current
}

// dedupeMessages appends to existing every incoming message whose messageId
// is not already present, guarding against duplicates within the incoming
// batch as well, and counts the appends.
func dedupeMessages(existing, incoming []models.Message, stats *models.BulkUpdateStats) []models.Message {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for i := range existing {
		seen[existing[i].MessageID] = struct{}{}
	}
	for i := range incoming {
		if _, dup := seen[incoming[i].MessageID]; dup {
			continue
		}
		seen[incoming[i].MessageID] = struct{}{}
		existing = append(existing, incoming[i])
		stats.MessagesAdded++
	}
	return existing
}
