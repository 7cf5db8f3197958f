package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/models"
	"xelaConnect/internal/utils"
)

const MockPassword = "xela-password"

// MockUsers are the people the development service knows about.
var MockUsers = []models.UserRecord{
	{ID: "u1", Name: "Alex Rivera", Picture: "/avatars/alex.png", Email: "alex@xela.app"},
	{ID: "u42", Name: "Jordan Lee", Picture: "/avatars/jordan.png", Email: "jordan@xela.app"},
	{ID: "u7", Name: "Sam Patel", Picture: "/avatars/sam.png", Email: "sam@xela.app"},
}

// SeedMockData loads MockUsers and a short thread between u1 and u7.
func SeedMockData(ctx context.Context, store interfaces.ChatStore) error {
	hash, err := utils.HashPassword(MockPassword)
	if err != nil {
		return err
	}
	for _, user := range MockUsers {
		user.PasswordHash = hash
		if err := store.CreateUser(ctx, &user); err != nil {
			return err
		}
	}

	base := time.Now().Add(-time.Hour)
	thread := []struct {
		from, to, content string
	}{
		{"u7", "u1", "Hey Alex, are you joining the design circle this week?"},
		{"u1", "u7", "Yes! Thursday works for me."},
		{"u7", "u1", "Great, I'll share the course link."},
	}
	for i, entry := range thread {
		record := &models.MessageRecord{
			MessageID:   uuid.NewString(),
			SenderID:    entry.from,
			RecipientID: entry.to,
			Content:     entry.content,
		}
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveMessage(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
