package service

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
)

// AccountFilter はアカウント一覧の絞り込み条件
type AccountFilter struct {
	Search string
	Type   string
}

// AccountInput はアカウント作成の入力
type AccountInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// AccountDetail はアカウントと配下のプロジェクト
type AccountDetail struct {
	Account  *model.Account   `json:"account"`
	Projects []*model.Project `json:"projects"`
}

// AccountService はアカウントに関するビジネスロジックのインターフェース
type AccountService interface {
	List(ctx context.Context, session *model.Session, filter AccountFilter) ([]*model.Account, error)
	GetByID(ctx context.Context, id string) (*AccountDetail, error)
	Create(ctx context.Context, session *model.Session, input AccountInput) (*model.Account, error)
}
