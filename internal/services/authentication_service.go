package services

import (
	"context"
	"time"

	"xelaConnect/configs"
	"xelaConnect/internal/models"
	"xelaConnect/internal/repositories"
	"xelaConnect/internal/utils"
)

type AuthenticationService struct {
	authRepo *repositories.AuthenticationRepository
	config   *configs.Config
}

func NewAuthenticationService(
	authRepo *repositories.AuthenticationRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		config:   config,
	}
}

func (as *AuthenticationService) Login(ctx context.Context, loginData *models.LoginRequestBody) (*models.LoginResponse, error) {
	user, err := as.authRepo.Login(ctx, loginData)
	if err != nil {
		return nil, err
	}

	jwtExpiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, err := utils.CreateJwtToken(
		user.ID,
		user.Email,
		user.Name,
		as.config.JwtKey(),
		jwtExpiration,
	)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		User:  user.ToOtherUser(),
		Token: token,
	}, nil
}

func (as *AuthenticationService) VerifyToken(token string) (*models.Claims, error) {
	return utils.VerifyToken(token, as.config.JwtKey())
}
