package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// mockUserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	findBySecretKeyFunc func(ctx context.Context, secretKey string) (*model.User, error)
	setLinksFunc        func(ctx context.Context, userID, field string, ids []string) error
	setLinksCalls       []setLinksCall
}

type setLinksCall struct {
	UserID string
	Field  string
	IDs    []string
}

func (m *mockUserRepository) FindBySecretKey(ctx context.Context, secretKey string) (*model.User, error) {
	if m.findBySecretKeyFunc != nil {
		return m.findBySecretKeyFunc(ctx, secretKey)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) SetLinks(ctx context.Context, userID, field string, ids []string) error {
	m.setLinksCalls = append(m.setLinksCalls, setLinksCall{UserID: userID, Field: field, IDs: ids})
	if m.setLinksFunc != nil {
		return m.setLinksFunc(ctx, userID, field, ids)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockAccountRepository
// ---------------------------------------------------------------------------

type mockAccountRepository struct {
	records    map[string]*model.Account
	createFunc func(ctx context.Context, fields model.AccountFields) (*model.Account, error)
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*model.Account, error) {
	if a, ok := m.records[id]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Account, error) {
	out := make([]*model.Account, 0, len(ids))
	for _, id := range ids {
		a, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("Accounts/%s: %w", id, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAccountRepository) Create(ctx context.Context, fields model.AccountFields) (*model.Account, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, fields)
	}
	return &model.Account{ID: "accNew", Fields: fields}, nil
}

// ---------------------------------------------------------------------------
// mockProjectRepository
// ---------------------------------------------------------------------------

type mockProjectRepository struct {
	records    map[string]*model.Project
	createFunc func(ctx context.Context, fields model.ProjectFields) (*model.Project, error)
}

func (m *mockProjectRepository) GetByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := m.records[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProjectRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Project, error) {
	out := make([]*model.Project, 0, len(ids))
	for _, id := range ids {
		p, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("Projects/%s: %w", id, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepository) Create(ctx context.Context, fields model.ProjectFields) (*model.Project, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, fields)
	}
	return &model.Project{ID: "projNew", Fields: fields}, nil
}

// ---------------------------------------------------------------------------
// mockUpdateRepository
// ---------------------------------------------------------------------------

type mockUpdateRepository struct {
	records    []*model.Update // ListAll の返却順
	listErr    error
	createFunc func(ctx context.Context, fields model.UpdateFields) (*model.Update, error)
	deleted    []string
}

func (m *mockUpdateRepository) GetByID(_ context.Context, id string) (*model.Update, error) {
	for _, u := range m.records {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUpdateRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Update, error) {
	out := make([]*model.Update, 0, len(ids))
	for _, id := range ids {
		u, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("Updates/%s: %w", id, err)
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUpdateRepository) ListAll(_ context.Context) ([]*model.Update, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockUpdateRepository) Create(ctx context.Context, fields model.UpdateFields) (*model.Update, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, fields)
	}
	u := &model.Update{ID: fmt.Sprintf("updNew%d", len(m.records)+1), Fields: fields}
	m.records = append(m.records, u)
	return u, nil
}

func (m *mockUpdateRepository) Delete(_ context.Context, id string) error {
	for i, u := range m.records {
		if u.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

var errUpstream = errors.New("upstream unavailable")

// newTestSession はインメモリストアに保存済みのセッションを返す
func newTestSession(sessions *SessionService, user *model.User) *model.Session {
	s, err := sessions.Create(context.Background(), user)
	if err != nil {
		panic(err)
	}
	return s
}
