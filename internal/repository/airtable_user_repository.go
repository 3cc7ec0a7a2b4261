package repository

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/pkg/airtable"
)

type airtableUserRepository struct {
	client airtable.Client
}

// NewAirtableUserRepository は Users テーブルを使う UserRepository を返す
func NewAirtableUserRepository(client airtable.Client) UserRepository {
	return &airtableUserRepository{client: client}
}

func (r *airtableUserRepository) FindBySecretKey(ctx context.Context, secretKey string) (*model.User, error) {
	users, err := listRecords[model.User](ctx, r.client, TableUsers, airtable.ListOptions{
		FilterByFormula: airtable.Formula("secret_key", secretKey),
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

func (r *airtableUserRepository) SetLinks(ctx context.Context, userID, field string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	_, err := r.client.Update(ctx, TableUsers, userID, map[string]any{field: ids})
	if airtable.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
