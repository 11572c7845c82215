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

// SearchService defines the interface expected from the search facade.
type SearchService interface {
	Messages(ctx context.Context) ([]models.FlatMessage, error)
	Keyword(ctx context.Context, query string, topK int) ([]models.FlatMessage, error)
	Semantic(ctx context.Context, query string, topK int) ([]models.SearchResult, error)
}

type SearchHandlers struct {
	searchService SearchService
}

func NewSearchHandlers(svc SearchService) *SearchHandlers {
	return &SearchHandlers{searchService: svc}
}

// HandleGetMessages handles GET /api/messages, returning the full flattened
// message collection.
func (h *SearchHandlers) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.searchService.Messages(r.Context())
	if err != nil {
		h.respondSearchError(w, "HandleGetMessages", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.MessagesResponse{Messages: messages})
}

// HandleSearch handles POST /api/search (keyword search).
func (h *SearchHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	results, err := h.searchService.Keyword(r.Context(), req.Query, req.TopK)
	if err != nil {
		h.respondSearchError(w, "HandleSearch", err)
		return
	}
	if results == nil {
		results = []models.FlatMessage{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.KeywordSearchResponse{Results: results})
}

// HandleSemanticSearch handles POST /api/semantic-search.
func (h *SearchHandlers) HandleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	results, err := h.searchService.Semantic(r.Context(), req.Query, req.TopK)
	if err != nil {
		h.respondSearchError(w, "HandleSemanticSearch", err)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.SemanticSearchResponse{Query: req.Query, Results: results})
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (models.SearchRequest, bool) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return req, false
	}
	defer r.Body.Close()
	return req, true
}

func (h *SearchHandlers) respondSearchError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotReady):
		httputil.RespondError(w, http.StatusConflict, "Search index has not been built yet; ingest data first")
	default:
		log.Printf("ERROR [SearchHandlers] %s: %v", op, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Search operation failed")
	}
}
