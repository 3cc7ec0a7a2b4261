package service

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/repository"
)

// UpdateServiceImpl は UpdateService の実装
type UpdateServiceImpl struct {
	updates  repository.UpdateRepository
	projects repository.ProjectRepository
	sessions *SessionService
	loc      *time.Location
	now      func() time.Time
}

// NewUpdateService は UpdateServiceImpl を生成する。loc は「今日」の基準タイムゾーン。
func NewUpdateService(updates repository.UpdateRepository, projects repository.ProjectRepository, sessions *SessionService, loc *time.Location) UpdateService {
	return &UpdateServiceImpl{updates: updates, projects: projects, sessions: sessions, loc: loc, now: time.Now}
}

// List はセッションの更新を取得し、参照先プロジェクト名を解決して返す
func (s *UpdateServiceImpl) List(ctx context.Context, session *model.Session) ([]*UpdateView, error) {
	updates, err := s.updates.GetByIDs(ctx, session.UpdateIDs)
	if err != nil {
		return nil, err
	}

	var projectIDs []string
	for _, u := range updates {
		if pid := u.ProjectID(); pid != "" && !slices.Contains(projectIDs, pid) {
			projectIDs = append(projectIDs, pid)
		}
	}
	projects, err := s.projects.GetByIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.DisplayName()
	}

	out := make([]*UpdateView, 0, len(updates))
	for _, u := range updates {
		out = append(out, &UpdateView{Update: u, ProjectName: names[u.ProjectID()]})
	}
	return out, nil
}

// GetByID は ID で更新を取得する
func (s *UpdateServiceImpl) GetByID(ctx context.Context, id string) (*model.Update, error) {
	return s.updates.GetByID(ctx, id)
}

// Create は更新を作成し、ユーザーの Updates に紐付ける
func (s *UpdateServiceImpl) Create(ctx context.Context, session *model.Session, input UpdateInput) (*model.Update, error) {
	projectID := strings.TrimSpace(input.ProjectID)
	if projectID == "" {
		return nil, invalid("project_id", "is required")
	}
	if strings.TrimSpace(input.Date) == "" {
		return nil, invalid("date", "is required")
	}
	fields, err := s.buildFields(session, projectID, input.Date, input.Notes, input.Type)
	if err != nil {
		return nil, err
	}
	for _, raw := range input.Attachments {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		fields.Attachments = append(fields.Attachments, model.Attachment{URL: u, Filename: path.Base(u)})
	}
	return s.create(ctx, session, fields)
}

// Delete は作成者本人であることを確認してから更新を削除し、紐付けを外す
func (s *UpdateServiceImpl) Delete(ctx context.Context, session *model.Session, id string) error {
	update, err := s.updates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if update.OwnerID() != session.UserRecordID {
		return ErrForbidden
	}
	if err := s.updates.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("update deleted", "update_id", id, "user_record_id", session.UserRecordID)
	return s.sessions.Unlink(ctx, session, repository.UserLinkUpdates, id)
}

// DailyView はセッションのプロジェクトと全更新を取得し、日付で絞り込む
func (s *UpdateServiceImpl) DailyView(ctx context.Context, session *model.Session, date string) (*DailyView, error) {
	today := dateIn(s.now(), s.loc)
	if date == "" {
		date = today
	} else {
		d, err := FormatDate(date)
		if err != nil {
			return nil, invalid("date", err.Error())
		}
		date = d
	}

	projects, err := s.projects.GetByIDs(ctx, session.ProjectIDs)
	if err != nil {
		return nil, err
	}
	all, err := s.updates.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := GroupByProject(all, session.ProjectIDs)
	return &DailyView{
		Date:        date,
		RecentDates: RecentDates(today, RecentDateCount),
		Projects:    projects,
		Updates:     SelectForDate(grouped, date),
	}, nil
}

// CreateForProject はセッションのプロジェクトに更新を追加し、最新の DailyView を返す
func (s *UpdateServiceImpl) CreateForProject(ctx context.Context, session *model.Session, projectID string, input ProjectUpdateInput) (*DailyView, error) {
	if !slices.Contains(session.ProjectIDs, projectID) {
		return nil, ErrForbidden
	}
	date := input.Date
	if date == "" {
		date = dateIn(s.now(), s.loc)
	}
	fields, err := s.buildFields(session, projectID, date, input.Notes, input.Type)
	if err != nil {
		return nil, err
	}
	if _, err := s.create(ctx, session, fields); err != nil {
		return nil, err
	}
	return s.DailyView(ctx, session, fields.Date)
}

func (s *UpdateServiceImpl) buildFields(session *model.Session, projectID, date, notes, updateType string) (model.UpdateFields, error) {
	var fields model.UpdateFields

	notes = strings.TrimSpace(notes)
	if notes == "" {
		return fields, invalid("notes", "is required")
	}
	d, err := FormatDate(date)
	if err != nil {
		return fields, invalid("date", err.Error())
	}
	t := model.DefaultUpdateType
	if updateType != "" {
		var ok bool
		if t, ok = normalizeChoice(updateType, model.UpdateTypes); !ok {
			return fields, invalid("type", "must be one of "+strings.Join(model.UpdateTypes, ", "))
		}
	}

	fields.Project = []string{projectID}
	fields.Date = d
	fields.Notes = notes
	fields.UpdateType = t
	fields.Owner = []string{session.UserRecordID}
	return fields, nil
}

func (s *UpdateServiceImpl) create(ctx context.Context, session *model.Session, fields model.UpdateFields) (*model.Update, error) {
	update, err := s.updates.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	slog.Info("update created", "update_id", update.ID, "project_id", fields.Project[0], "date", fields.Date)

	if err := s.sessions.Link(ctx, session, repository.UserLinkUpdates, update.ID); err != nil {
		slog.Error("link update to user failed", "update_id", update.ID, "user_record_id", session.UserRecordID, "error", err)
		return nil, err
	}
	return update, nil
}
