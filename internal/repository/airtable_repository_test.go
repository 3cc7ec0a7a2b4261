package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/pkg/airtable"
)

// ---------------------------------------------------------------------------
// fakeAirtable は airtable.Client のインメモリ実装
// ---------------------------------------------------------------------------

type fakeAirtable struct {
	mu       sync.Mutex
	records  map[string]map[string]string // table → id → raw record
	listErr  error
	getErr   error
	lastList airtable.ListOptions
	updated  map[string]any
	deleted  []string
}

func newFakeAirtable() *fakeAirtable {
	return &fakeAirtable{records: make(map[string]map[string]string)}
}

func (f *fakeAirtable) put(table, id, raw string) {
	if f.records[table] == nil {
		f.records[table] = make(map[string]string)
	}
	f.records[table][id] = raw
}

func (f *fakeAirtable) List(ctx context.Context, table string, opts airtable.ListOptions) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = opts
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []json.RawMessage{}
	for _, raw := range f.records[table] {
		out = append(out, json.RawMessage(raw))
	}
	return out, nil
}

func (f *fakeAirtable) Get(ctx context.Context, table, id string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	raw, ok := f.records[table][id]
	if !ok {
		return nil, &airtable.APIError{StatusCode: 404, Status: "404 Not Found", Body: `{"error":"NOT_FOUND"}`}
	}
	return json.RawMessage(raw), nil
}

func (f *fakeAirtable) Create(ctx context.Context, table string, fields any) (json.RawMessage, error) {
	b, _ := json.Marshal(fields)
	return json.RawMessage(fmt.Sprintf(`{"id":"recCreated","fields":%s}`, b)), nil
}

func (f *fakeAirtable) Update(ctx context.Context, table, id string, fields any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[table][id]; !ok {
		return nil, &airtable.APIError{StatusCode: 404, Status: "404 Not Found"}
	}
	f.updated = fields.(map[string]any)
	return json.RawMessage(f.records[table][id]), nil
}

func (f *fakeAirtable) Delete(ctx context.Context, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[table][id]; !ok {
		return &airtable.APIError{StatusCode: 404, Status: "404 Not Found"}
	}
	delete(f.records[table], id)
	f.deleted = append(f.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAccountRepository_GetByIDs_PreservesOrder(t *testing.T) {
	fake := newFakeAirtable()
	for i := 1; i <= 7; i++ {
		id := fmt.Sprintf("acc%d", i)
		fake.put(TableAccounts, id, fmt.Sprintf(`{"id":%q,"fields":{"Account Name":"Account %d"}}`, id, i))
	}
	repo := NewAirtableAccountRepository(fake)

	ids := []string{"acc7", "acc2", "acc5", "acc1", "acc3", "acc6", "acc4"}
	got, err := repo.GetByIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("expected %d accounts, got %d", len(ids), len(got))
	}
	for i, id := range ids {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestAccountRepository_GetByIDs_EmptyInput(t *testing.T) {
	repo := NewAirtableAccountRepository(newFakeAirtable())
	got, err := repo.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestProjectRepository_GetByIDs_OneMissingFailsAll(t *testing.T) {
	fake := newFakeAirtable()
	fake.put(TableProjects, "p1", `{"id":"p1","fields":{"Project Name":"One"}}`)
	repo := NewAirtableProjectRepository(fake)

	_, err := repo.GetByIDs(context.Background(), []string{"p1", "p-missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectRepository_GetByID_NotFound(t *testing.T) {
	repo := NewAirtableProjectRepository(newFakeAirtable())
	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectRepository_GetByID_UpstreamErrorPassedThrough(t *testing.T) {
	fake := newFakeAirtable()
	fake.getErr = &airtable.APIError{StatusCode: 500, Status: "500 Internal Server Error"}
	repo := NewAirtableProjectRepository(fake)

	_, err := repo.GetByID(context.Background(), "p1")
	var apiErr *airtable.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Errorf("expected APIError 500, got %v", err)
	}
}

func TestUserRepository_FindBySecretKey(t *testing.T) {
	fake := newFakeAirtable()
	fake.put(TableUsers, "recU", `{"id":"recU","fields":{"User Name":"Asha","secret_key":"123456","Projects":["p1"]}}`)
	repo := NewAirtableUserRepository(fake)

	user, err := repo.FindBySecretKey(context.Background(), "123456")
	if err != nil {
		t.Fatalf("FindBySecretKey: %v", err)
	}
	if user.ID != "recU" || user.Fields.Name != "Asha" {
		t.Errorf("unexpected user: %+v", user)
	}
	if fake.lastList.FilterByFormula != `{secret_key} = "123456"` {
		t.Errorf("unexpected formula: %q", fake.lastList.FilterByFormula)
	}
}

func TestUserRepository_FindBySecretKey_NoMatch(t *testing.T) {
	repo := NewAirtableUserRepository(newFakeAirtable())
	_, err := repo.FindBySecretKey(context.Background(), "000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_SetLinks_SendsEmptyArrayForNil(t *testing.T) {
	fake := newFakeAirtable()
	fake.put(TableUsers, "recU", `{"id":"recU","fields":{}}`)
	repo := NewAirtableUserRepository(fake)

	if err := repo.SetLinks(context.Background(), "recU", UserLinkUpdates, nil); err != nil {
		t.Fatalf("SetLinks: %v", err)
	}
	ids, ok := fake.updated[UserLinkUpdates].([]string)
	if !ok || ids == nil || len(ids) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", fake.updated[UserLinkUpdates])
	}
}

func TestUpdateRepository_Create_DropsCreatedBy(t *testing.T) {
	repo := NewAirtableUpdateRepository(newFakeAirtable())
	u, err := repo.Create(context.Background(), model.UpdateFields{
		Project:   []string{"p1"},
		Date:      "2025-03-01",
		Notes:     "called",
		CreatedBy: &model.Collaborator{Name: "x"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != "recCreated" {
		t.Errorf("unexpected id %q", u.ID)
	}
	if u.Fields.CreatedBy != nil {
		t.Error("expected Created By not to be sent")
	}
	if u.ProjectID() != "p1" {
		t.Errorf("expected project p1, got %q", u.ProjectID())
	}
}

func TestUpdateRepository_Delete_NotFound(t *testing.T) {
	repo := NewAirtableUpdateRepository(newFakeAirtable())
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
