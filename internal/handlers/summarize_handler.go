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

// SummarizeService defines the interface expected from the summarizer.
type SummarizeService interface {
	Summarize(ctx context.Context, conversationID, scope string) (*models.SummaryResponse, error)
}

type SummarizeHandler struct {
	summarizeService SummarizeService
}

func NewSummarizeHandler(svc SummarizeService) *SummarizeHandler {
	return &SummarizeHandler{summarizeService: svc}
}

// HandleSummarize handles POST /api/summarize.
func (h *SummarizeHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.summarizeService.Summarize(r.Context(), req.ConversationID, req.Scope)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("ERROR [SummarizeHandler] HandleSummarize %s: %v", req.ConversationID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Conversation summarization failed")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
