package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/repository"
)

// ProjectServiceImpl は ProjectService の実装
type ProjectServiceImpl struct {
	projects repository.ProjectRepository
	updates  repository.UpdateRepository
	sessions *SessionService
	loc      *time.Location
}

// NewProjectService は ProjectServiceImpl を生成する。loc は開始日の既定値（今日）の基準タイムゾーン。
func NewProjectService(projects repository.ProjectRepository, updates repository.UpdateRepository, sessions *SessionService, loc *time.Location) ProjectService {
	return &ProjectServiceImpl{projects: projects, updates: updates, sessions: sessions, loc: loc}
}

// List はセッションのプロジェクトを一括取得し、検索語とステータスで絞り込む
func (s *ProjectServiceImpl) List(ctx context.Context, session *model.Session, filter ProjectFilter) ([]*model.Project, error) {
	all, err := s.projects.GetByIDs(ctx, session.ProjectIDs)
	if err != nil {
		return nil, err
	}
	return filterRanked(all, filter.Search,
		func(p *model.Project) []string { return []string{p.Fields.Name, p.Fields.Status} },
		func(p *model.Project) bool { return matchesExact(filter.Status, p.Fields.Status) },
	), nil
}

// GetByID はプロジェクトと紐づく更新を返す
func (s *ProjectServiceImpl) GetByID(ctx context.Context, id string) (*ProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updates, err := s.updates.GetByIDs(ctx, project.Fields.Updates)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: project, Updates: updates}, nil
}

// Create はプロジェクトを作成し、ユーザーの Projects に紐付ける
func (s *ProjectServiceImpl) Create(ctx context.Context, session *model.Session, input ProjectInput) (*model.Project, error) {
	fields, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	fields.Owner = []string{session.UserRecordID}

	project, err := s.projects.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	slog.Info("project created", "project_id", project.ID, "user_record_id", session.UserRecordID)

	if err := s.sessions.Link(ctx, session, repository.UserLinkProjects, project.ID); err != nil {
		slog.Error("link project to user failed", "project_id", project.ID, "user_record_id", session.UserRecordID, "error", err)
		return nil, err
	}
	return project, nil
}

func (s *ProjectServiceImpl) validate(input ProjectInput) (model.ProjectFields, error) {
	var fields model.ProjectFields

	fields.Name = strings.TrimSpace(input.Name)
	if fields.Name == "" {
		return fields, invalid("name", "is required")
	}
	if strings.TrimSpace(input.AccountID) == "" {
		return fields, invalid("account_id", "is required")
	}
	fields.Account = []string{strings.TrimSpace(input.AccountID)}

	fields.Status = model.ProjectStatuses[0]
	if input.Status != "" {
		status, ok := normalizeChoice(input.Status, model.ProjectStatuses)
		if !ok {
			return fields, invalid("status", "must be one of "+strings.Join(model.ProjectStatuses, ", "))
		}
		fields.Status = status
	}

	fields.StartDate = dateIn(time.Now(), s.loc)
	if input.StartDate != "" {
		d, err := FormatDate(input.StartDate)
		if err != nil {
			return fields, invalid("start_date", err.Error())
		}
		fields.StartDate = d
	}
	if input.EndDate != "" {
		d, err := FormatDate(input.EndDate)
		if err != nil {
			return fields, invalid("end_date", err.Error())
		}
		// YYYY-MM-DD は文字列比較で日付順になる
		if d < fields.StartDate {
			return fields, invalid("end_date", "must not be before start_date")
		}
		fields.EndDate = d
	}

	if input.Value != nil && *input.Value < 0 {
		return fields, invalid("value", "must not be negative")
	}
	fields.Value = input.Value
	fields.Description = strings.TrimSpace(input.Description)
	return fields, nil
}
