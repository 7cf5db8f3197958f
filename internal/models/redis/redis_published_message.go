package models

const REDIS_CHANNEL_MESSAGING = "messaging_channel"

// RedisPublishedMessage is the envelope fanned out between service instances.
type RedisPublishedMessage struct {
	Event          string   `json:"event"`
	ConversationID string   `json:"conversation_id"`
	Recipients     []string `json:"recipients"`
	Payload        any      `json:"payload"`
}
