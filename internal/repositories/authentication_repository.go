package repositories

import (
	"context"
	"errors"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/models"
	"xelaConnect/internal/utils"
)

type AuthenticationRepository struct {
	store interfaces.ChatStore
}

func NewAuthenticationRepository(store interfaces.ChatStore) *AuthenticationRepository {
	return &AuthenticationRepository{
		store: store,
	}
}

func (ar *AuthenticationRepository) Login(ctx context.Context, login *models.LoginRequestBody) (*models.UserRecord, error) {
	user, err := ar.store.FindUserByEmail(ctx, login.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, login.Password); err != nil {
		return nil, errs.ErrWrongPassword
	}
	return user, nil
}
