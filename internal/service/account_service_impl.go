package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/repository"
)

// AccountServiceImpl は AccountService の実装
type AccountServiceImpl struct {
	accounts repository.AccountRepository
	projects repository.ProjectRepository
	sessions *SessionService
}

// NewAccountService は AccountServiceImpl を生成する
func NewAccountService(accounts repository.AccountRepository, projects repository.ProjectRepository, sessions *SessionService) AccountService {
	return &AccountServiceImpl{accounts: accounts, projects: projects, sessions: sessions}
}

// List はセッションのアカウントを一括取得し、検索語と種別で絞り込む。検索語があれば近い順に並べる。
func (s *AccountServiceImpl) List(ctx context.Context, session *model.Session, filter AccountFilter) ([]*model.Account, error) {
	all, err := s.accounts.GetByIDs(ctx, session.AccountIDs)
	if err != nil {
		return nil, err
	}
	return filterRanked(all, filter.Search,
		func(a *model.Account) []string { return []string{a.Fields.Name, a.Fields.Type} },
		func(a *model.Account) bool { return matchesExact(filter.Type, a.Fields.Type) },
	), nil
}

// GetByID はアカウントと紐づくプロジェクトを返す
func (s *AccountServiceImpl) GetByID(ctx context.Context, id string) (*AccountDetail, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.GetByIDs(ctx, account.Fields.Projects)
	if err != nil {
		return nil, err
	}
	return &AccountDetail{Account: account, Projects: projects}, nil
}

// Create はアカウントを作成し、ユーザーの Accounts に紐付ける。
// 紐付けに失敗しても作成済みレコードは残る。
func (s *AccountServiceImpl) Create(ctx context.Context, session *model.Session, input AccountInput) (*model.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	accountType, ok := normalizeChoice(input.Type, model.AccountTypes)
	if !ok {
		return nil, invalid("type", "must be one of "+strings.Join(model.AccountTypes, ", "))
	}

	account, err := s.accounts.Create(ctx, model.AccountFields{
		Name:        name,
		Type:        accountType,
		Description: strings.TrimSpace(input.Description),
		Owner:       []string{session.UserRecordID},
	})
	if err != nil {
		return nil, err
	}
	slog.Info("account created", "account_id", account.ID, "user_record_id", session.UserRecordID)

	if err := s.sessions.Link(ctx, session, repository.UserLinkAccounts, account.ID); err != nil {
		slog.Error("link account to user failed", "account_id", account.ID, "user_record_id", session.UserRecordID, "error", err)
		return nil, err
	}
	return account, nil
}
