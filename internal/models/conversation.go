package models

// UserType distinguishes the two kinds of participants that can read or
// attach things to a message.
type UserType string

const (
	UserTypePatient  UserType = "Patient"
	UserTypeProvider UserType = "Provider"
)

// ConversationStatus represents the lifecycle state of a conversation.
type ConversationStatus string

const (
	ConversationStatusOpen   ConversationStatus = "OPEN"
	ConversationStatusClosed ConversationStatus = "CLOSED"
)

// MessageType classifies how a message entered the conversation.
type MessageType string

const (
	MessageTypeOutgoing       MessageType = "OUTGOING"
	MessageTypeIncoming       MessageType = "INCOMING"
	MessageTypeStartAutomated MessageType = "START_AUTOMATED"
	MessageTypeCloseAutomated MessageType = "CLOSE_AUTOMATED"
)

// User identifies a patient or provider referenced by read receipts and
// attachments.
type User struct {
	Type            UserType `json:"type"`
	Identifier      string   `json:"identifier"`
	DisplayName     string   `json:"displayName"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	PatientPortalID string   `json:"patientPortalId,omitempty"`
}

// ReadReceipt records that a user has read a message and when.
type ReadReceipt struct {
	ReadUser      User   `json:"readUser"`
	ReadTimestamp string `json:"readTimestamp"`
}

// Attachment describes a file attached to a message.
type Attachment struct {
	CreatedBy   User   `json:"createdBy"`
	UpdatedBy   User   `json:"updatedBy"`
	CreatedDate string `json:"createdDate"`
	UpdatedDate string `json:"updatedDate"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	Bytes       int64  `json:"bytes"`
	StoragePath string `json:"storagePath"`
}

// Message is a single entry in a conversation. MessageID is unique within its
// conversation; the merge engine relies on it for deduplication.
type Message struct {
	MessageID   string        `json:"messageId"`
	MessageType MessageType   `json:"messageType"`
	Content     string        `json:"content"`
	SenderName  string        `json:"senderName"`
	ReadBy      []ReadReceipt `json:"readBy,omitempty"`
	TimeStamp   string        `json:"timeStamp"`
	Seen        bool          `json:"seen"`
	Attachments []Attachment  `json:"attachments,omitempty"`
}

// Conversation is the authoritative record of one multi-party message thread.
// The wire field for messages is "messageResponse" to match the upstream
// payload format.
type Conversation struct {
	Messages       []Message          `json:"messageResponse"`
	Subject        string             `json:"subject"`
	Purpose        string             `json:"purpose"`
	Participants   []string           `json:"participants"`
	Status         ConversationStatus `json:"status"`
	ConversationID string             `json:"conversationId"`
}
