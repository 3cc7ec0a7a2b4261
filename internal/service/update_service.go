package service

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
)

// RecentDateCount は日付ピッカーに並べる日数
const RecentDateCount = 10

// UpdateInput は更新作成の入力。Attachments は添付ファイルの URL。
type UpdateInput struct {
	ProjectID   string   `json:"project_id"`
	Date        string   `json:"date"`
	Notes       string   `json:"notes"`
	Type        string   `json:"type"`
	Attachments []string `json:"attachments"`
}

// ProjectUpdateInput はプロジェクト画面から日付指定で更新を作成する入力
type ProjectUpdateInput struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
	Type  string `json:"type"`
}

// UpdateView は一覧表示用にプロジェクト名を解決した更新
type UpdateView struct {
	*model.Update
	ProjectName string `json:"project_name"`
}

// DailyView はプロジェクトごとの指定日の更新。更新がなければ Updates の値は nil。
type DailyView struct {
	Date        string                   `json:"date"`
	RecentDates []string                 `json:"recent_dates"`
	Projects    []*model.Project         `json:"projects"`
	Updates     map[string]*model.Update `json:"updates"`
}

// UpdateService は更新に関するビジネスロジックのインターフェース
type UpdateService interface {
	List(ctx context.Context, session *model.Session) ([]*UpdateView, error)
	GetByID(ctx context.Context, id string) (*model.Update, error)
	Create(ctx context.Context, session *model.Session, input UpdateInput) (*model.Update, error)
	// Delete は作成者本人の更新のみ削除できる
	Delete(ctx context.Context, session *model.Session, id string) error
	// DailyView は date（空なら今日）時点のプロジェクト別更新を返す
	DailyView(ctx context.Context, session *model.Session, date string) (*DailyView, error)
	// CreateForProject は更新を作成して、その日付の DailyView を返す
	CreateForProject(ctx context.Context, session *model.Session, projectID string, input ProjectUpdateInput) (*DailyView, error)
}
