package repository

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/pkg/airtable"
)

type airtableAccountRepository struct {
	client airtable.Client
}

// NewAirtableAccountRepository は Accounts テーブルを使う AccountRepository を返す
func NewAirtableAccountRepository(client airtable.Client) AccountRepository {
	return &airtableAccountRepository{client: client}
}

func (r *airtableAccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return getRecord[model.Account](ctx, r.client, TableAccounts, id)
}

func (r *airtableAccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Account, error) {
	return getRecords[model.Account](ctx, r.client, TableAccounts, ids)
}

func (r *airtableAccountRepository) Create(ctx context.Context, fields model.AccountFields) (*model.Account, error) {
	return createRecord[model.Account](ctx, r.client, TableAccounts, fields)
}
