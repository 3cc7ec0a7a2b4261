package repository

import (
	"context"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/pkg/airtable"
)

type airtableProjectRepository struct {
	client airtable.Client
}

// NewAirtableProjectRepository は Projects テーブルを使う ProjectRepository を返す
func NewAirtableProjectRepository(client airtable.Client) ProjectRepository {
	return &airtableProjectRepository{client: client}
}

func (r *airtableProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return getRecord[model.Project](ctx, r.client, TableProjects, id)
}

func (r *airtableProjectRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Project, error) {
	return getRecords[model.Project](ctx, r.client, TableProjects, ids)
}

func (r *airtableProjectRepository) Create(ctx context.Context, fields model.ProjectFields) (*model.Project, error) {
	return createRecord[model.Project](ctx, r.client, TableProjects, fields)
}
