package models

// FlatMessage is the denormalized, searchable projection of a single message.
// It is derived wholesale from the conversation store and never edited in
// place; the flattener is the only producer.
type FlatMessage struct {
	ConversationID string   `json:"conversationId"`
	Subject        string   `json:"subject"`
	Purpose        string   `json:"purpose"`
	Participants   []string `json:"participants"`
	MessageID      string   `json:"messageId"`
	MessageType    string   `json:"messageType"`
	Sender         string   `json:"sender"`
	Text           string   `json:"text"`
	Timestamp      string   `json:"timestamp"`
	Seen           bool     `json:"seen"`
	HasAttachments bool     `json:"hasAttachments"`
}
