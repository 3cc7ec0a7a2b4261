package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/airtable"
	"github.com/keyaccount/backend/pkg/auth"
)

var testSecret = auth.SessionSecretBytes("dev-secret-change-in-production-32bytes")

type recordingDeleter struct {
	deleted []string
}

func (d *recordingDeleter) Delete(_ context.Context, id string) error {
	d.deleted = append(d.deleted, id)
	return nil
}

func newAuthHandler(svc service.AuthService, deleter SessionDeleter) *AuthHandler {
	return NewAuthHandler(svc, deleter, AuthConfig{SessionSecret: testSecret})
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(_ context.Context, key string) (*model.Session, error) {
			if key != "123456" {
				t.Errorf("unexpected key %q", key)
			}
			return &model.Session{ID: "sess-1", UserRecordID: "recU", UserName: "Asha", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := newAuthHandler(svc, &recordingDeleter{})

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"secret_key":"123456"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName() {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie, got %+v", cookie)
	}
	sessionID, err := auth.VerifySessionToken(cookie.Value, testSecret)
	if err != nil || sessionID != "sess-1" {
		t.Errorf("cookie token should carry session id, got %q (%v)", sessionID, err)
	}

	var body model.Session
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserName != "Asha" {
		t.Errorf("expected session body, got %+v", body)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{`, nil, http.StatusBadRequest, "invalid_json"},
		{"bad format", `{"secret_key":"12"}`, &service.ValidationError{Field: "secret_key", Message: "must be exactly 6 digits"}, http.StatusBadRequest, "validation_failed"},
		{"unknown key", `{"secret_key":"000000"}`, service.ErrInvalidSecretKey, http.StatusUnauthorized, "invalid_secret_key"},
		{"upstream", `{"secret_key":"000000"}`, &airtable.APIError{StatusCode: 500, Status: "500"}, http.StatusBadGateway, "upstream_error"},
		{"unexpected", `{"secret_key":"000000"}`, errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				loginFunc: func(_ context.Context, _ string) (*model.Session, error) { return nil, tt.err },
			}
			h := newAuthHandler(svc, &recordingDeleter{})

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(tt.body)))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body map[string]string
			_ = json.NewDecoder(rec.Body).Decode(&body)
			if body["error"] != tt.wantErr {
				t.Errorf("expected error %q, got %q", tt.wantErr, body["error"])
			}
		})
	}
}

func TestAuthHandler_Logout_DeletesSessionAndClearsCookie(t *testing.T) {
	deleter := &recordingDeleter{}
	h := newAuthHandler(&mockAuthService{}, deleter)
	token, _ := auth.CreateSessionToken("sess-1", "recU", time.Now().Add(time.Hour), testSecret)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName(), Value: token})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if len(deleter.deleted) != 1 || deleter.deleted[0] != "sess-1" {
		t.Errorf("expected sess-1 deleted, got %v", deleter.deleted)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	deleter := &recordingDeleter{}
	h := newAuthHandler(&mockAuthService{}, deleter)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if len(deleter.deleted) != 0 {
		t.Errorf("expected no deletes, got %v", deleter.deleted)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := newAuthHandler(&mockAuthService{}, &recordingDeleter{})

	rec := httptest.NewRecorder()
	h.Me(rec, withSession(httptest.NewRequest("GET", "/api/me", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body model.Session
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.UserRecordID != "recU" {
		t.Errorf("unexpected body %+v", body)
	}

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest("GET", "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", rec.Code)
	}
}
