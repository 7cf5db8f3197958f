package interfaces

import (
	"context"

	"xelaConnect/internal/models"
)

// MessagingAPI is the remote boundary of a conversation view.
type MessagingAPI interface {
	FetchConversation(ctx context.Context, partnerID string) (*models.Conversation, error)
	SendMessage(ctx context.Context, partnerID, text string) error
}
