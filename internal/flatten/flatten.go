// Package flatten projects the nested conversation store into the flat,
// one-row-per-message representation consumed by search and indexing.
package flatten

import (
	"github.com/yashsay/message-app/internal/models"
)

// Flatten converts the full conversation list into an ordered sequence of
// FlatMessage records, one per message, preserving conversation order and
// message order within each conversation. It is a pure function: identical
// input always yields identical output, which keeps index rebuilds
// reproducible.
func Flatten(conversations []models.Conversation) []models.FlatMessage {
	total := 0
	for i := range conversations {
		total += len(conversations[i].Messages)
	}

	records := make([]models.FlatMessage, 0, total)
	for i := range conversations {
		conv := &conversations[i]
		for j := range conv.Messages {
			msg := &conv.Messages[j]
			sender := msg.SenderName
			if sender == "" {
				sender = "Unknown"
			}
			records = append(records, models.FlatMessage{
				ConversationID: conv.ConversationID,
				Subject:        conv.Subject,
				Purpose:        conv.Purpose,
				Participants:   conv.Participants,
				MessageID:      msg.MessageID,
				MessageType:    string(msg.MessageType),
				Sender:         sender,
				Text:           msg.Content,
				Timestamp:      msg.TimeStamp,
				Seen:           msg.Seen,
				HasAttachments: len(msg.Attachments) > 0,
			})
		}
	}
	return records
}
