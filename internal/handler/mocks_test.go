package handler

import (
	"context"
	"net/http"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/auth"
)

// ---------------------------------------------------------------------------
// mockAuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc func(ctx context.Context, secretKey string) (*model.Session, error)
}

func (m *mockAuthService) Login(ctx context.Context, secretKey string) (*model.Session, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, secretKey)
	}
	return nil, service.ErrInvalidSecretKey
}

// ---------------------------------------------------------------------------
// mockAccountService
// ---------------------------------------------------------------------------

type mockAccountService struct {
	listFunc    func(ctx context.Context, session *model.Session, filter service.AccountFilter) ([]*model.Account, error)
	getByIDFunc func(ctx context.Context, id string) (*service.AccountDetail, error)
	createFunc  func(ctx context.Context, session *model.Session, input service.AccountInput) (*model.Account, error)
}

func (m *mockAccountService) List(ctx context.Context, session *model.Session, filter service.AccountFilter) ([]*model.Account, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, session, filter)
	}
	return []*model.Account{}, nil
}

func (m *mockAccountService) GetByID(ctx context.Context, id string) (*service.AccountDetail, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAccountService) Create(ctx context.Context, session *model.Session, input service.AccountInput) (*model.Account, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, session, input)
	}
	return &model.Account{ID: "aNew"}, nil
}

// ---------------------------------------------------------------------------
// mockProjectService
// ---------------------------------------------------------------------------

type mockProjectService struct {
	listFunc    func(ctx context.Context, session *model.Session, filter service.ProjectFilter) ([]*model.Project, error)
	getByIDFunc func(ctx context.Context, id string) (*service.ProjectDetail, error)
	createFunc  func(ctx context.Context, session *model.Session, input service.ProjectInput) (*model.Project, error)
}

func (m *mockProjectService) List(ctx context.Context, session *model.Session, filter service.ProjectFilter) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, session, filter)
	}
	return []*model.Project{}, nil
}

func (m *mockProjectService) GetByID(ctx context.Context, id string) (*service.ProjectDetail, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProjectService) Create(ctx context.Context, session *model.Session, input service.ProjectInput) (*model.Project, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, session, input)
	}
	return &model.Project{ID: "pNew"}, nil
}

// ---------------------------------------------------------------------------
// mockUpdateService
// ---------------------------------------------------------------------------

type mockUpdateService struct {
	listFunc             func(ctx context.Context, session *model.Session) ([]*service.UpdateView, error)
	getByIDFunc          func(ctx context.Context, id string) (*model.Update, error)
	createFunc           func(ctx context.Context, session *model.Session, input service.UpdateInput) (*model.Update, error)
	deleteFunc           func(ctx context.Context, session *model.Session, id string) error
	dailyViewFunc        func(ctx context.Context, session *model.Session, date string) (*service.DailyView, error)
	createForProjectFunc func(ctx context.Context, session *model.Session, projectID string, input service.ProjectUpdateInput) (*service.DailyView, error)
}

func (m *mockUpdateService) List(ctx context.Context, session *model.Session) ([]*service.UpdateView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, session)
	}
	return []*service.UpdateView{}, nil
}

func (m *mockUpdateService) GetByID(ctx context.Context, id string) (*model.Update, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUpdateService) Create(ctx context.Context, session *model.Session, input service.UpdateInput) (*model.Update, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, session, input)
	}
	return &model.Update{ID: "uNew"}, nil
}

func (m *mockUpdateService) Delete(ctx context.Context, session *model.Session, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, session, id)
	}
	return nil
}

func (m *mockUpdateService) DailyView(ctx context.Context, session *model.Session, date string) (*service.DailyView, error) {
	if m.dailyViewFunc != nil {
		return m.dailyViewFunc(ctx, session, date)
	}
	return &service.DailyView{}, nil
}

func (m *mockUpdateService) CreateForProject(ctx context.Context, session *model.Session, projectID string, input service.ProjectUpdateInput) (*service.DailyView, error) {
	if m.createForProjectFunc != nil {
		return m.createForProjectFunc(ctx, session, projectID, input)
	}
	return &service.DailyView{}, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

var testSession = &model.Session{
	ID:           "sess-1",
	UserRecordID: "recU",
	UserName:     "Asha",
	AccountIDs:   []string{"a1"},
	ProjectIDs:   []string{"p1"},
	UpdateIDs:    []string{},
}

// withSession はリクエストの context にテスト用セッションをセットする
func withSession(req *http.Request) *http.Request {
	return req.WithContext(auth.WithSession(req.Context(), testSession))
}
