package repository

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
)

// Airtable のテーブル名
const (
	TableUsers    = "Users"
	TableAccounts = "Accounts"
	TableProjects = "Projects"
	TableUpdates  = "Updates"
)

// Users テーブルのリンクフィールド名
const (
	UserLinkAccounts = "Accounts"
	UserLinkProjects = "Projects"
	UserLinkUpdates  = "Updates"
)

// InverseLinks はテーブルごとのリンクフィールドとリンク先テーブル。
// Airtable はリンクの逆側 (Projects.Updates 等) を自動で更新する。
var InverseLinks = map[string]map[string]string{
	TableAccounts: {"Account Owner": TableUsers},
	TableProjects: {"Account": TableAccounts, "Project Owner": TableUsers},
	TableUpdates:  {"Project": TableProjects, "Update Owner": TableUsers},
}

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository はユーザーレコードのインターフェース
type UserRepository interface {
	// FindBySecretKey は secret_key が一致するユーザーを返す。いなければ ErrNotFound。
	FindBySecretKey(ctx context.Context, secretKey string) (*model.User, error)
	// SetLinks はユーザーのリンクフィールド（Accounts/Projects/Updates）を ids で置き換える
	SetLinks(ctx context.Context, userID, field string, ids []string) error
}

// AccountRepository はアカウントレコードのインターフェース
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Account, error)
	Create(ctx context.Context, fields model.AccountFields) (*model.Account, error)
}

// ProjectRepository はプロジェクトレコードのインターフェース
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Project, error)
	Create(ctx context.Context, fields model.ProjectFields) (*model.Project, error)
}

// UpdateRepository は更新レコードのインターフェース
type UpdateRepository interface {
	GetByID(ctx context.Context, id string) (*model.Update, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Update, error)
	// ListAll は Updates テーブル全件を取得順で返す
	ListAll(ctx context.Context) ([]*model.Update, error)
	Create(ctx context.Context, fields model.UpdateFields) (*model.Update, error)
	Delete(ctx context.Context, id string) error
}

// SessionRepository はセッションの永続化インターフェース
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// Save はリンク ID 一覧を上書き保存する
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id string) error
}
