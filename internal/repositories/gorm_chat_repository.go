package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/models"
)

// GormChatRepository is the database backed ChatStore.
type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{
		db: db,
	}
}

func (gcr *GormChatRepository) FindUserByID(ctx context.Context, id string) (*models.UserRecord, error) {
	var user models.UserRecord
	if err := gcr.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (gcr *GormChatRepository) FindUserByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	var user models.UserRecord
	if err := gcr.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (gcr *GormChatRepository) CreateUser(ctx context.Context, user *models.UserRecord) error {
	return gcr.db.WithContext(ctx).Save(user).Error
}

func (gcr *GormChatRepository) MessagesBetween(ctx context.Context, userID1, userID2 string) ([]models.MessageRecord, error) {
	var messages []models.MessageRecord
	err := gcr.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (gcr *GormChatRepository) SaveMessage(ctx context.Context, message *models.MessageRecord) error {
	return gcr.db.WithContext(ctx).Create(message).Error
}

func (gcr *GormChatRepository) MarkRead(ctx context.Context, readerID, senderID string) error {
	// Only the recipient can mark a message as read
	return gcr.db.WithContext(ctx).
		Model(&models.MessageRecord{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", senderID, readerID).
		Update("read_at", time.Now()).Error
}
