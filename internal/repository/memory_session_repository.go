package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/keyaccount/backend/internal/model"
)

// MemorySessionRepository は DATABASE_URL 未設定時に使うインメモリ SessionRepository。
// プロセス再起動でセッションは消える。
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// NewMemorySessionRepository は MemorySessionRepository を生成する
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]model.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *MemorySessionRepository) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneSession(&s)
	return &out, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func cloneSession(s *model.Session) model.Session {
	c := *s
	c.AccountIDs = slices.Clone(s.AccountIDs)
	c.ProjectIDs = slices.Clone(s.ProjectIDs)
	c.UpdateIDs = slices.Clone(s.UpdateIDs)
	return c
}
