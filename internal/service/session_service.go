package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/repository"
	"github.com/keyaccount/backend/pkg/auth"
)

// SessionService manages server-side sessions and keeps the user's link
// fields in Airtable in step with the ids cached on the session.
// Implements auth.SessionLoader.
type SessionService struct {
	repo  repository.SessionRepository
	users repository.UserRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionService creates a SessionService.
func NewSessionService(repo repository.SessionRepository, users repository.UserRepository, ttl time.Duration) *SessionService {
	return &SessionService{repo: repo, users: users, ttl: ttl, now: time.Now}
}

// Create builds a session from the user record and stores it.
func (s *SessionService) Create(ctx context.Context, user *model.User) (*model.Session, error) {
	now := s.now()
	session := &model.Session{
		ID:           uuid.NewString(),
		UserRecordID: user.ID,
		UserName:     user.DisplayName(),
		AccountIDs:   nonNilIDs(user.Fields.Accounts),
		ProjectIDs:   nonNilIDs(user.Fields.Projects),
		UpdateIDs:    nonNilIDs(user.Fields.Updates),
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		slog.Error("create session failed", "user_record_id", user.ID, "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}
	slog.Info("session created", "session_id", session.ID, "user_record_id", user.ID, "expires_at", session.ExpiresAt)
	return session, nil
}

// Load returns the session for id. Unknown and expired sessions are
// reported wrapped in auth.ErrSessionInvalid; expired ones are deleted.
// Store failures are returned as is.
func (s *SessionService) Load(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", auth.ErrSessionInvalid, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Expired(s.now()) {
		if err := s.repo.Delete(ctx, id); err != nil {
			slog.Warn("delete expired session failed", "session_id", id, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrSessionInvalid, ErrSessionExpired)
	}
	return session, nil
}

// Delete removes a session (logout).
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Link adds recordID to the user's link field and to the session.
// field is one of repository.UserLinkAccounts / UserLinkProjects / UserLinkUpdates.
func (s *SessionService) Link(ctx context.Context, session *model.Session, field, recordID string) error {
	ids, err := sessionIDs(session, field)
	if err != nil {
		return err
	}
	next := model.AppendID(*ids, recordID)
	if err := s.users.SetLinks(ctx, session.UserRecordID, field, next); err != nil {
		return fmt.Errorf("link %s %s to user: %w", field, recordID, err)
	}
	*ids = next
	if err := s.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Unlink removes recordID from the user's link field and from the session.
func (s *SessionService) Unlink(ctx context.Context, session *model.Session, field, recordID string) error {
	ids, err := sessionIDs(session, field)
	if err != nil {
		return err
	}
	next := model.RemoveID(*ids, recordID)
	if err := s.users.SetLinks(ctx, session.UserRecordID, field, next); err != nil {
		return fmt.Errorf("unlink %s %s from user: %w", field, recordID, err)
	}
	*ids = next
	if err := s.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func sessionIDs(session *model.Session, field string) (*[]string, error) {
	switch field {
	case repository.UserLinkAccounts:
		return &session.AccountIDs, nil
	case repository.UserLinkProjects:
		return &session.ProjectIDs, nil
	case repository.UserLinkUpdates:
		return &session.UpdateIDs, nil
	}
	return nil, errors.New("unknown link field: " + field)
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
