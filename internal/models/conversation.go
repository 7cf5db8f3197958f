package models

import (
	"sort"
	"time"
)

// Conversation is a two-party thread with its messages, oldest first.
type Conversation struct {
	ConversationID string     `json:"conversation_id"`
	UserID         string     `json:"user_id"`
	OtherUser      OtherUser  `json:"other_user"`
	Messages       []Message  `json:"messages"`
	LastMessageAt  *time.Time `json:"last_message_at"`
}

// Clone returns a copy whose message slice does not alias c's.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Messages = append([]Message(nil), c.Messages...)
	return &clone
}

// ConversationIDFor derives the stable identifier of the thread between two users.
func ConversationIDFor(userID1, userID2 string) string {
	ids := []string{userID1, userID2}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}

func NewConversation(viewer string, other *UserRecord, records []MessageRecord) *Conversation {
	messages := make([]Message, 0, len(records))
	var lastMessageAt *time.Time
	for i := range records {
		message := records[i].ToMessage()
		messages = append(messages, message)
		ts := message.Timestamp
		lastMessageAt = &ts
	}
	return &Conversation{
		ConversationID: ConversationIDFor(viewer, other.ID),
		UserID:         viewer,
		OtherUser:      other.ToOtherUser(),
		Messages:       messages,
		LastMessageAt:  lastMessageAt,
	}
}
