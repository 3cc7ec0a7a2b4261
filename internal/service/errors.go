package service

import (
	"errors"
	"fmt"
)

// ErrInvalidSecretKey はシークレットキーに一致するユーザーがいない場合のエラー
var ErrInvalidSecretKey = errors.New("invalid secret key")

// ErrForbidden は他ユーザーのリソースを操作しようとした場合のエラー
var ErrForbidden = errors.New("forbidden")

// ErrSessionExpired は有効期限切れのセッションを使おうとした場合のエラー
var ErrSessionExpired = errors.New("session expired")

// ValidationError は入力値の検証エラー。Field は問題のある入力項目名。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
