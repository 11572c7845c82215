package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/services"
)

type stubIngest struct {
	stats *models.BulkUpdateStats
	err   error
}

func (s stubIngest) BulkUpdate(context.Context, []models.Conversation) (*models.BulkUpdateStats, error) {
	return s.stats, s.err
}

func postBulkUpdate(t *testing.T, svc IngestService, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewIngestHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/bulk-update", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.HandleBulkUpdate(rr, req)
	return rr
}

func TestHandleBulkUpdateSuccess(t *testing.T) {
	stats := &models.BulkUpdateStats{ConversationsProcessed: 1, ConversationsAdded: 1, MessagesAdded: 2}
	rr := postBulkUpdate(t, stubIngest{stats: stats}, `[{"conversationId":"c1","messageResponse":[]}]`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp models.BulkUpdateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || !resp.SearchConsistent {
		t.Errorf("expected full success, got %+v", resp)
	}
	if resp.MessagesAdded != 2 {
		t.Errorf("messagesAdded = %d, want 2", resp.MessagesAdded)
	}
}

func TestHandleBulkUpdateValidationError(t *testing.T) {
	err := fmt.Errorf("%w: conversation at index 0 has no conversationId", services.ErrValidation)
	rr := postBulkUpdate(t, stubIngest{err: err}, `[{}]`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// A post-processing failure means the data was saved but the index is stale;
// the response must distinguish this from full success.
func TestHandleBulkUpdatePostProcessingError(t *testing.T) {
	stats := &models.BulkUpdateStats{ConversationsProcessed: 1, ConversationsUpdated: 1, MessagesAdded: 1}
	err := fmt.Errorf("%w: index build failed", services.ErrPostProcessing)
	rr := postBulkUpdate(t, stubIngest{stats: stats, err: err}, `[{"conversationId":"c1"}]`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp models.BulkUpdateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Error("data was committed, success should be true")
	}
	if resp.SearchConsistent {
		t.Error("searchConsistent must be false after a post-processing failure")
	}
	if resp.MessagesAdded != 1 {
		t.Errorf("messagesAdded = %d, want 1", resp.MessagesAdded)
	}
}

func TestHandleBulkUpdateStorageError(t *testing.T) {
	err := fmt.Errorf("%w: disk error", services.ErrStorage)
	rr := postBulkUpdate(t, stubIngest{err: err}, `[{"conversationId":"c1"}]`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "disk") {
		t.Error("operational error details must not leak to the client")
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Detail == "" {
		t.Error(`error payload must carry a human-readable "detail" string`)
	}
}

func TestHandleBulkUpdateMalformedBody(t *testing.T) {
	rr := postBulkUpdate(t, stubIngest{}, `{"not":"an array"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
