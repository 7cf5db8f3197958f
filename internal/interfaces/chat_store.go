package interfaces

import (
	"context"

	"xelaConnect/internal/models"
)

// ChatStore persists users and messages for the messaging service.
type ChatStore interface {
	FindUserByID(ctx context.Context, id string) (*models.UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	CreateUser(ctx context.Context, user *models.UserRecord) error
	MessagesBetween(ctx context.Context, userID1, userID2 string) ([]models.MessageRecord, error)
	SaveMessage(ctx context.Context, message *models.MessageRecord) error
	MarkRead(ctx context.Context, readerID, senderID string) error
}
