package flatten

import (
	"reflect"
	"testing"

	"github.com/yashsay/message-app/internal/models"
)

func sampleConversations() []models.Conversation {
	return []models.Conversation{
		{
			ConversationID: "c1",
			Subject:        "Medication Refills",
			Purpose:        "Refills",
			Participants:   []string{"Ajayy", "Paul Watkins, MD"},
			Status:         models.ConversationStatusOpen,
			Messages: []models.Message{
				{
					MessageID:   "m1",
					MessageType: models.MessageTypeOutgoing,
					Content:     "Message for Medication Refills",
					SenderName:  "Ajayy",
					TimeStamp:   "2025-01-07T11:05:04.148",
					Seen:        true,
					Attachments: []models.Attachment{{Name: "mcp.log", MimeType: "image/jpg"}},
				},
				{
					MessageID:   "m2",
					MessageType: models.MessageTypeStartAutomated,
					Content:     "We have successfully received your message.",
					SenderName:  "Automated message",
					TimeStamp:   "2025-01-07T11:05:04.162",
				},
			},
		},
		{
			ConversationID: "c2",
			Subject:        "Lab Results",
			Status:         models.ConversationStatusClosed,
			Messages: []models.Message{
				{MessageID: "m3", Content: "Your results are ready.", TimeStamp: "2025-01-08T09:00:00.000"},
			},
		},
	}
}

func TestFlattenFieldMapping(t *testing.T) {
	records := Flatten(sampleConversations())
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.ConversationID != "c1" {
		t.Errorf("conversationId = %q, want c1", first.ConversationID)
	}
	if first.Subject != "Medication Refills" {
		t.Errorf("subject = %q", first.Subject)
	}
	if first.Sender != "Ajayy" {
		t.Errorf("sender = %q, want Ajayy", first.Sender)
	}
	if first.Text != "Message for Medication Refills" {
		t.Errorf("text = %q", first.Text)
	}
	if first.Timestamp != "2025-01-07T11:05:04.148" {
		t.Errorf("timestamp = %q", first.Timestamp)
	}
	if !first.Seen {
		t.Error("seen should be true")
	}
	if !first.HasAttachments {
		t.Error("hasAttachments should be true for a message with attachments")
	}
	if records[1].HasAttachments {
		t.Error("hasAttachments should be false for a message without attachments")
	}
}

func TestFlattenPreservesOrder(t *testing.T) {
	records := Flatten(sampleConversations())
	wantIDs := []string{"m1", "m2", "m3"}
	for i, want := range wantIDs {
		if records[i].MessageID != want {
			t.Errorf("record %d messageId = %q, want %q", i, records[i].MessageID, want)
		}
	}
}

func TestFlattenUnknownSender(t *testing.T) {
	convs := []models.Conversation{{
		ConversationID: "c1",
		Messages:       []models.Message{{MessageID: "m1", Content: "hi"}},
	}}
	records := Flatten(convs)
	if records[0].Sender != "Unknown" {
		t.Errorf("sender = %q, want Unknown for empty senderName", records[0].Sender)
	}
}

func TestFlattenDeterministic(t *testing.T) {
	convs := sampleConversations()
	a := Flatten(convs)
	b := Flatten(convs)
	if !reflect.DeepEqual(a, b) {
		t.Error("flattening the same store twice produced different output")
	}
}

func TestFlattenEmptyStore(t *testing.T) {
	records := Flatten(nil)
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
