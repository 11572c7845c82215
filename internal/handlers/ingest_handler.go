package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/services"
	"github.com/yashsay/message-app/pkg/httputil"
)

// IngestService defines the interface expected from the merge engine.
type IngestService interface {
	BulkUpdate(ctx context.Context, incoming []models.Conversation) (*models.BulkUpdateStats, error)
}

type IngestHandler struct {
	ingestService IngestService
}

func NewIngestHandler(svc IngestService) *IngestHandler {
	return &IngestHandler{ingestService: svc}
}

// HandleBulkUpdate handles POST /api/bulk-update. The body is an ordered
// list of conversation payloads to merge into the store.
func (h *IngestHandler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var batch []models.Conversation
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload: expected a JSON array of conversations")
		return
	}
	defer r.Body.Close()

	stats, err := h.ingestService.BulkUpdate(r.Context(), batch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPostProcessing):
			// The store write committed; only the derived data is stale.
			// Report partial success so the caller knows search lags the
			// just-ingested data.
			log.Printf("ERROR [IngestHandler] HandleBulkUpdate: %v", err)
			httputil.RespondJSON(w, http.StatusOK, models.BulkUpdateResponse{
				Success:          true,
				Message:          "Conversations saved, but the search index rebuild failed; search results may be stale",
				SearchConsistent: false,
				BulkUpdateStats:  *stats,
			})
		default:
			log.Printf("ERROR [IngestHandler] HandleBulkUpdate: %v", err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to update conversations")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.BulkUpdateResponse{
		Success:          true,
		Message:          "Conversations updated successfully",
		SearchConsistent: true,
		BulkUpdateStats:  *stats,
	})
}
