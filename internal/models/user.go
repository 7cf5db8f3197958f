package models

import "time"

// UserRecord represents a user known to the messaging service.
type UserRecord struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Picture      string `json:"picture"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (user *UserRecord) ToOtherUser() OtherUser {
	return OtherUser{
		ID:      user.ID,
		Name:    user.Name,
		Picture: user.Picture,
	}
}
