package service

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
)

// AuthService はシークレットキーによるログインのインターフェース
type AuthService interface {
	// Login は 6 桁のシークレットキーでユーザーを特定し、新しいセッションを返す
	Login(ctx context.Context, secretKey string) (*model.Session, error)
}
