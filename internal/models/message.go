package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a single immutable chat message as served by the messaging API.
type Message struct {
	MessageID string    `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// MessageRecord is the stored form of a Message on the messaging service.
type MessageRecord struct {
	gorm.Model
	MessageID   string     `gorm:"uniqueIndex;not null" json:"message_id"`
	SenderID    string     `gorm:"index;not null" json:"sender_id"`
	RecipientID string     `gorm:"index;not null" json:"recipient_id"`
	Content     string     `gorm:"not null" json:"content"`
	ReadAt      *time.Time `json:"read_at"`
}

func (record *MessageRecord) ToMessage() Message {
	return Message{
		MessageID: record.MessageID,
		SenderID:  record.SenderID,
		Content:   record.Content,
		Timestamp: record.CreatedAt,
		Read:      record.ReadAt != nil,
	}
}
