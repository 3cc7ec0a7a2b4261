package handler

import (
	"net/http"

	"github.com/keyaccount/backend/internal/repository"
)

// Handler はヘルスチェックと CORS を提供する共通ハンドラ
type Handler struct {
	checks      map[string]repository.DB
	frontendURL string
}

// New は Handler を生成する。checks は名前付きの依存先（postgres, redis など）で、
// 設定されていないものは含めない。
func New(checks map[string]repository.DB, frontendURL string) *Handler {
	return &Handler{checks: checks, frontendURL: frontendURL}
}

// CORS はフロントエンドのオリジンからの認証付きリクエストを許可する
func (h *Handler) CORS(next http.Handler) http.Handler {
	return CORS(h.frontendURL)(next)
}

// CORS は origin を許可するミドルウェアを返す。origin が "*" の場合は
// 認証情報付きリクエストを許可しない。
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
