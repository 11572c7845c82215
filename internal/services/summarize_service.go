package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/yashsay/message-app/internal/models"
	"github.com/yashsay/message-app/internal/store"
	"github.com/yashsay/message-app/internal/summarizer"
)

// Summarizer produces an extractive summary and highlight terms for a
// sequence of message texts.
type Summarizer interface {
	Summarize(texts []string) (summary string, highlights []string)
}

// SummarizeService computes extractive summaries for single conversations.
// Pure reader over the conversation store.
type SummarizeService struct {
	store      store.Store
	summarizer Summarizer
}

// NewSummarizeService creates a SummarizeService. A nil summarizer falls back
// to the frequency summarizer with its defaults.
func NewSummarizeService(s store.Store, sum Summarizer) *SummarizeService {
	if sum == nil {
		sum = summarizer.NewFrequency(3, 5)
	}
	return &SummarizeService{store: s, summarizer: sum}
}

// Summarize selects the conversation's messages per scope ("all", or
// "last_N" for the most recent N in message order) and returns the summary
// with highlights. Unknown conversation IDs yield ErrNotFound.
func (s *SummarizeService) Summarize(ctx context.Context, conversationID, scope string) (*models.SummaryResponse, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversationId cannot be empty", ErrValidation)
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, conversationID)
		}
		log.Printf("ERROR [SummarizeService] Summarize %s: %v", conversationID, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	messages := conv.Messages
	if n, ok := parseScope(scope); ok && n < len(messages) {
		messages = messages[len(messages)-n:]
	}

	texts := make([]string, 0, len(messages))
	for i := range messages {
		if messages[i].Content != "" {
			texts = append(texts, messages[i].Content)
		}
	}

	resp := &models.SummaryResponse{ConversationID: conversationID, Highlights: []string{}}
	if len(texts) == 0 {
		resp.Summary = "No text content found in this conversation."
		return resp, nil
	}

	summary, highlights := s.summarizer.Summarize(texts)
	resp.Summary = summary
	if highlights != nil {
		resp.Highlights = highlights
	}
	return resp, nil
}

// parseScope interprets "last_N" scopes; anything else (including "all" and
// malformed values) means the whole conversation.
func parseScope(scope string) (int, bool) {
	if !strings.HasPrefix(scope, "last_") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(scope, "last_"))
	if err != nil || n <= 0 {
		log.Printf("WARN [SummarizeService] Invalid scope %q, using all messages", scope)
		return 0, false
	}
	return n, true
}
