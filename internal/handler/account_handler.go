package handler

import (
	"encoding/json"
	"net/http"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/auth"
)

// AccountHandler はアカウントの HTTP ハンドラ
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler は AccountHandler を生成する
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type accountListResponse struct {
	Accounts     []*model.Account `json:"accounts"`
	AccountTypes []string         `json:"account_types"`
}

// List は GET /api/accounts?search=&type= を処理する
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	accounts, err := h.accountService.List(r.Context(), session, service.AccountFilter{
		Search: q.Get("search"),
		Type:   q.Get("type"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountListResponse{Accounts: accounts, AccountTypes: model.AccountTypes})
}

// Get は GET /api/accounts/{id} を処理する
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	detail, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Create は POST /api/accounts を処理する
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input service.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	account, err := h.accountService.Create(r.Context(), session, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}
