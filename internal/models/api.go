package models

// --- Request Structs ---

// SearchRequest defines the body shared by the keyword and semantic search
// endpoints.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SummarizeRequest defines the body for the summarize endpoint. Scope is
// either "all" or "last_N" (e.g. "last_5").
type SummarizeRequest struct {
	ConversationID string `json:"conversationId"`
	Scope          string `json:"scope,omitempty"`
}

// --- Response Structs ---

// BulkUpdateStats carries the counters produced by one merge run.
type BulkUpdateStats struct {
	ConversationsProcessed int `json:"conversationsProcessed"`
	ConversationsAdded     int `json:"conversationsAdded"`
	ConversationsUpdated   int `json:"conversationsUpdated"`
	MessagesAdded          int `json:"messagesAdded"`
}

// BulkUpdateResponse is returned by the bulk-update endpoint.
// SearchConsistent is false when the conversations were persisted but the
// flatten/index rebuild failed, so search results may lag the store.
type BulkUpdateResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	SearchConsistent bool   `json:"searchConsistent"`
	BulkUpdateStats
}

// MessagesResponse wraps the full flattened message collection.
type MessagesResponse struct {
	Messages []FlatMessage `json:"messages"`
}

// KeywordSearchResponse is returned by the keyword search endpoint.
type KeywordSearchResponse struct {
	Results []FlatMessage `json:"results"`
}

// SearchResult is one semantic search hit, hydrated from the flattened record
// that produced the matching vector.
type SearchResult struct {
	ConversationID string  `json:"conversationId"`
	MessageID      string  `json:"messageId"`
	Snippet        string  `json:"snippet"`
	Participant    string  `json:"participant"`
	Sender         string  `json:"sender"`
	Timestamp      string  `json:"timestamp"`
	Score          float64 `json:"score"`
}

// SemanticSearchResponse is returned by the semantic search endpoint.
type SemanticSearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SummaryResponse is returned by the summarize endpoint.
type SummaryResponse struct {
	ConversationID string   `json:"conversationId"`
	Summary        string   `json:"summary"`
	Highlights     []string `json:"highlights"`
}

// ErrorResponse defines the standard structure for API errors. The wire
// field is "detail" to match what existing clients of the upstream API parse.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
