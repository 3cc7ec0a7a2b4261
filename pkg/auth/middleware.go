package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/keyaccount/backend/internal/model"
)

type contextKey string

const sessionKey contextKey = "session"

// ErrSessionInvalid はセッションが存在しない・期限切れであることを表す。
// SessionLoader はこれをラップしたエラーで 401 を、それ以外のエラーで 500 を返させる。
var ErrSessionInvalid = errors.New("session invalid")

// SessionLoader はセッション ID からセッションを読み込む。
// 存在しない・期限切れの場合は ErrSessionInvalid をラップしたエラーを返す。
type SessionLoader interface {
	Load(ctx context.Context, id string) (*model.Session, error)
}

// SessionFromContext は context からセッションを取得する
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*model.Session)
	return s, ok && s != nil
}

// WithSession は context にセッションをセットする
func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// RequireSession は認証必須ミドルウェア。クッキーの JWT を検証してセッションを読み込み、context にセットする
func RequireSession(secret []byte, loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				unauthorized(w, "unauthorized")
				return
			}

			sessionID, err := VerifySessionToken(cookie.Value, secret)
			if err != nil {
				unauthorized(w, "invalid_session")
				return
			}

			session, err := loader.Load(r.Context(), sessionID)
			if errors.Is(err, ErrSessionInvalid) {
				slog.Debug("session rejected", "session_id", sessionID, "error", err)
				unauthorized(w, "invalid_session")
				return
			}
			if err != nil {
				slog.Error("load session failed", "session_id", sessionID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func unauthorized(w http.ResponseWriter, code string) {
	writeError(w, http.StatusUnauthorized, code)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
