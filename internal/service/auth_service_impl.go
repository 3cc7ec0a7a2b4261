package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/repository"
)

var secretKeyPattern = regexp.MustCompile(`^[0-9]{6}$`)

// AuthServiceImpl は AuthService の実装
type AuthServiceImpl struct {
	userRepo repository.UserRepository
	sessions *SessionService
}

// NewAuthService は AuthServiceImpl を生成する（DI: UserRepository と SessionService を注入）
func NewAuthService(userRepo repository.UserRepository, sessions *SessionService) AuthService {
	return &AuthServiceImpl{userRepo: userRepo, sessions: sessions}
}

// Login はキー形式を検証してからユーザーを検索し、セッションを作成する
func (s *AuthServiceImpl) Login(ctx context.Context, secretKey string) (*model.Session, error) {
	if !secretKeyPattern.MatchString(secretKey) {
		return nil, invalid("secret_key", "must be exactly 6 digits")
	}

	user, err := s.userRepo.FindBySecretKey(ctx, secretKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("login rejected: unknown secret key")
			return nil, ErrInvalidSecretKey
		}
		slog.Error("login lookup failed", "error", err)
		return nil, err
	}

	return s.sessions.Create(ctx, user)
}
