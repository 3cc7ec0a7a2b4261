package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keyaccount/backend/internal/model"
)

type pgSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSessionRepository returns a PostgreSQL-backed SessionRepository.
func NewPgSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &pgSessionRepository{pool: pool}
}

func (r *pgSessionRepository) Create(ctx context.Context, s *model.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_record_id, user_name, account_ids, project_ids, update_ids, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserRecordID, s.UserName, nonNil(s.AccountIDs), nonNil(s.ProjectIDs), nonNil(s.UpdateIDs), s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *pgSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_record_id, user_name, account_ids, project_ids, update_ids, created_at, expires_at
		 FROM sessions WHERE id = $1`,
		id).Scan(&s.ID, &s.UserRecordID, &s.UserName, &s.AccountIDs, &s.ProjectIDs, &s.UpdateIDs, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgSessionRepository) Save(ctx context.Context, s *model.Session) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET account_ids = $2, project_ids = $3, update_ids = $4 WHERE id = $1`,
		s.ID, nonNil(s.AccountIDs), nonNil(s.ProjectIDs), nonNil(s.UpdateIDs))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// nonNil は NOT NULL な text[] 列に nil を渡さないための変換
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
