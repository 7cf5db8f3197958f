package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/models"
)

// ChatRepository keeps users and messages in memory. It backs the development
// messaging service when no database is configured.
type ChatRepository struct {
	mu       sync.RWMutex
	users    map[string]*models.UserRecord
	messages []models.MessageRecord
	nextID   uint
	now      func() time.Time
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{
		users: make(map[string]*models.UserRecord),
		now:   time.Now,
	}
}

func (chr *ChatRepository) FindUserByID(_ context.Context, id string) (*models.UserRecord, error) {
	chr.mu.RLock()
	defer chr.mu.RUnlock()

	user, ok := chr.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (chr *ChatRepository) FindUserByEmail(_ context.Context, email string) (*models.UserRecord, error) {
	chr.mu.RLock()
	defer chr.mu.RUnlock()

	for _, user := range chr.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (chr *ChatRepository) CreateUser(_ context.Context, user *models.UserRecord) error {
	chr.mu.Lock()
	defer chr.mu.Unlock()

	now := chr.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	chr.users[user.ID] = &copied
	return nil
}

func (chr *ChatRepository) MessagesBetween(_ context.Context, userID1, userID2 string) ([]models.MessageRecord, error) {
	chr.mu.RLock()
	defer chr.mu.RUnlock()

	var result []models.MessageRecord
	for _, message := range chr.messages {
		if isBetween(message, userID1, userID2) {
			result = append(result, message)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (chr *ChatRepository) SaveMessage(_ context.Context, message *models.MessageRecord) error {
	chr.mu.Lock()
	defer chr.mu.Unlock()

	chr.nextID++
	message.ID = chr.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = chr.now()
	}
	message.UpdatedAt = message.CreatedAt
	chr.messages = append(chr.messages, *message)
	return nil
}

func (chr *ChatRepository) MarkRead(_ context.Context, readerID, senderID string) error {
	chr.mu.Lock()
	defer chr.mu.Unlock()

	now := chr.now()
	for i := range chr.messages {
		message := &chr.messages[i]
		if message.SenderID == senderID && message.RecipientID == readerID && message.ReadAt == nil {
			readAt := now
			message.ReadAt = &readAt
		}
	}
	return nil
}

func isBetween(message models.MessageRecord, userID1, userID2 string) bool {
	return (message.SenderID == userID1 && message.RecipientID == userID2) ||
		(message.SenderID == userID2 && message.RecipientID == userID1)
}
