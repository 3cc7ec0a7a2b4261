package repository

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/pkg/airtable"
)

type airtableUpdateRepository struct {
	client airtable.Client
}

// NewAirtableUpdateRepository は Updates テーブルを使う UpdateRepository を返す
func NewAirtableUpdateRepository(client airtable.Client) UpdateRepository {
	return &airtableUpdateRepository{client: client}
}

func (r *airtableUpdateRepository) GetByID(ctx context.Context, id string) (*model.Update, error) {
	return getRecord[model.Update](ctx, r.client, TableUpdates, id)
}

func (r *airtableUpdateRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Update, error) {
	return getRecords[model.Update](ctx, r.client, TableUpdates, ids)
}

func (r *airtableUpdateRepository) ListAll(ctx context.Context) ([]*model.Update, error) {
	return listRecords[model.Update](ctx, r.client, TableUpdates, airtable.ListOptions{})
}

func (r *airtableUpdateRepository) Create(ctx context.Context, fields model.UpdateFields) (*model.Update, error) {
	// Created By は計算フィールドなので送らない
	fields.CreatedBy = nil
	return createRecord[model.Update](ctx, r.client, TableUpdates, fields)
}

func (r *airtableUpdateRepository) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, TableUpdates, id)
	if airtable.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
