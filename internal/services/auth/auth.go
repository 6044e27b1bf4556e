// Package auth выпускает JWT в обмен на API-ключ и проверяет выпущенные токены.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cards-api/internal/lib/jwt"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// ErrInvalidCredentials возвращается, когда API-ключ не принадлежит ни одному пользователю,
// а также для неверного, просроченного или выпущенного удалённому пользователю токена.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает поиск пользователя по API-ключу и по id.
type UserRepository interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// AuthService отвечает за выпуск и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login находит пользователя по API-ключу и выпускает для него JWT.
func (s *AuthService) Login(ctx context.Context, apiKey string) (string, error) {
	const op = "auth.Login"

	if apiKey == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	user, err := s.users.GetUserByAPIKey(ctx, apiKey)
	if errors.Is(err, models.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет JWT и возвращает вызывающего с текущими ролями из хранилища.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (models.Principal, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, err)
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Principal{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, err)
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewPrincipal(*user), nil
}
