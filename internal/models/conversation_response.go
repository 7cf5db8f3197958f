package models

type ConversationResponse struct {
	Conversation *Conversation `json:"conversation"`
}
