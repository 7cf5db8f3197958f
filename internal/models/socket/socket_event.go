package models

import (
	"encoding/json"
)

// SocketEvent is a server initiated push frame.
type SocketEvent struct {
	Event          string          `json:"event"`
	ConversationID string          `json:"conversation_id"`
	Payload        json.RawMessage `json:"payload"`
}

type NewMessagePayload struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
}
