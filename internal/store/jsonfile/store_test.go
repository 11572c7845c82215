package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/store"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	s, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s
}

func TestEmptyStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	convs, err := s.ListConversations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("fresh store should be empty, got %d conversations", len(convs))
	}

	if _, err := s.GetConversation(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	records, err := s.LoadFlattened(ctx)
	if err != nil {
		t.Fatalf("load flattened: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("fresh store should have no flattened records, got %d", len(records))
	}
}

func TestUpdateAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv := models.Conversation{
		ConversationID: "c1",
		Subject:        "Refills",
		Status:         models.ConversationStatusOpen,
		Messages:       []models.Message{{MessageID: "m1", Content: "refill request"}},
	}
	_, err := s.UpdateConversations(ctx, func(current []models.Conversation) ([]models.Conversation, error) {
		return append(current, conv), nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetConversation(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Subject != "Refills" || len(got.Messages) != 1 || got.Messages[0].MessageID != "m1" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestUpdateApplyErrorWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("merge failed")
	_, err := s.UpdateConversations(ctx, func(current []models.Conversation) ([]models.Conversation, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected apply error to propagate, got %v", err)
	}

	convs, err := s.ListConversations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("failed apply must not persist anything, got %d conversations", len(convs))
	}
}

func TestFlattenedRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []models.FlatMessage{
		{ConversationID: "c1", MessageID: "m1", Text: "hello"},
		{ConversationID: "c1", MessageID: "m2", Text: "world"},
	}
	if err := s.ReplaceFlattened(ctx, records); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.LoadFlattened(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].MessageID != "m1" || got[1].MessageID != "m2" {
		t.Errorf("flattened round-trip mismatch: %+v", got)
	}
}

// Concurrent updates must serialize their read-modify-write: every appended
// conversation must survive.
func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.UpdateConversations(ctx, func(current []models.Conversation) ([]models.Conversation, error) {
				return append(current, models.Conversation{ConversationID: fmt.Sprintf("c%d", n)}), nil
			})
			if err != nil {
				t.Errorf("writer %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	convs, err := s.ListConversations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != writers {
		t.Errorf("lost updates: got %d conversations, want %d", len(convs), writers)
	}
}
