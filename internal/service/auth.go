package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
	"hallms-backend/internal/security"
)

type authService struct {
	users  repository.UserRepository
	tokens security.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, Internal(err)
	}
	// A missing account and a wrong password answer identically.
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.HallID)
	if err != nil {
		return "", nil, Internal(err)
	}
	return token, user, nil
}
