package service

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
)

// ProjectFilter はプロジェクト一覧の絞り込み条件
type ProjectFilter struct {
	Search string
	Status string
}

// ProjectInput はプロジェクト作成の入力。日付は YYYY-MM-DD または RFC 3339。
type ProjectInput struct {
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	AccountID   string   `json:"account_id"`
	Value       *float64 `json:"value"`
	Description string   `json:"description"`
}

// ProjectDetail はプロジェクトとその更新一覧
type ProjectDetail struct {
	Project *model.Project  `json:"project"`
	Updates []*model.Update `json:"updates"`
}

// ProjectService はプロジェクトに関するビジネスロジックのインターフェース
type ProjectService interface {
	List(ctx context.Context, session *model.Session, filter ProjectFilter) ([]*model.Project, error)
	GetByID(ctx context.Context, id string) (*ProjectDetail, error)
	Create(ctx context.Context, session *model.Session, input ProjectInput) (*model.Project, error)
}
