package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/keyaccount/backend/internal/repository"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/airtable"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeServiceError はサービス層のエラーを HTTP ステータスとエラーコードに変換して書き込む
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve     *service.ValidationError
		apiErr *airtable.APIError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "validation_failed",
			"field":   ve.Field,
			"message": ve.Message,
		})
	case errors.Is(err, service.ErrInvalidSecretKey):
		writeError(w, http.StatusUnauthorized, "invalid_secret_key")
	case errors.Is(err, service.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "session_expired")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrNotFound), airtable.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.As(err, &apiErr):
		slog.Error("upstream error", "method", r.Method, "path", r.URL.Path, "status", apiErr.StatusCode, "error", err)
		writeError(w, http.StatusBadGateway, "upstream_error")
	case errors.Is(err, airtable.ErrNotConfigured):
		slog.Error("upstream not configured", "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusBadGateway, "upstream_not_configured")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
