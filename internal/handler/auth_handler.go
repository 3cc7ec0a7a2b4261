package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/auth"
)

// SessionDeleter はログアウト時にセッションを破棄する
type SessionDeleter interface {
	Delete(ctx context.Context, id string) error
}

// AuthConfig はセッションクッキーの設定
type AuthConfig struct {
	SessionSecret []byte
	CookieSecure  bool
}

// AuthHandler はログイン・ログアウト・現在のセッションの HTTP ハンドラ
type AuthHandler struct {
	authService service.AuthService
	sessions    SessionDeleter
	cfg         AuthConfig
}

// NewAuthHandler は AuthHandler を生成する
func NewAuthHandler(authService service.AuthService, sessions SessionDeleter, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cfg: cfg}
}

type loginRequest struct {
	SecretKey string `json:"secret_key"`
}

// Login は POST /api/auth/login を処理する
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	session, err := h.authService.Login(r.Context(), req.SecretKey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := auth.CreateSessionToken(session.ID, session.UserRecordID, session.ExpiresAt, h.cfg.SessionSecret)
	if err != nil {
		slog.Error("sign session token failed", "session_id", session.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	http.SetCookie(w, auth.SessionCookie(token, session.ExpiresAt, h.cfg.CookieSecure))
	writeJSON(w, http.StatusOK, session)
}

// Logout は POST /api/auth/logout を処理する。クッキーが無効でもクッキーは削除する。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName()); err == nil {
		if sessionID, err := auth.VerifySessionToken(cookie.Value, h.cfg.SessionSecret); err == nil {
			if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
				slog.Warn("delete session failed", "session_id", sessionID, "error", err)
			}
		}
	}
	http.SetCookie(w, auth.ClearSessionCookie(h.cfg.CookieSecure))
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// Me は GET /api/me を処理する（認証必須）
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, session)
}
