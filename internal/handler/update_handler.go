package handler

import (
	"encoding/json"
	"net/http"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/auth"
)

// UpdateHandler は更新と日別ビューの HTTP ハンドラ
type UpdateHandler struct {
	updateService service.UpdateService
}

// NewUpdateHandler は UpdateHandler を生成する
func NewUpdateHandler(updateService service.UpdateService) *UpdateHandler {
	return &UpdateHandler{updateService: updateService}
}

type updateListResponse struct {
	Updates     []*service.UpdateView `json:"updates"`
	UpdateTypes []string              `json:"update_types"`
}

// List は GET /api/updates を処理する
func (h *UpdateHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	updates, err := h.updateService.List(r.Context(), session)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updateListResponse{Updates: updates, UpdateTypes: model.UpdateTypes})
}

// Get は GET /api/updates/{id} を処理する
func (h *UpdateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	update, err := h.updateService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// Create は POST /api/updates を処理する
func (h *UpdateHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input service.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	update, err := h.updateService.Create(r.Context(), session, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, update)
}

// Delete は DELETE /api/updates/{id} を処理する（作成者のみ）
func (h *UpdateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	if err := h.updateService.Delete(r.Context(), session, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Daily は GET /api/daily-updates?date=YYYY-MM-DD を処理する
func (h *UpdateHandler) Daily(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.updateService.DailyView(r.Context(), session, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateForProject は POST /api/projects/{id}/updates を処理し、更新後の日別ビューを返す
func (h *UpdateHandler) CreateForProject(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectID := r.PathValue("id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	var input service.ProjectUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	view, err := h.updateService.CreateForProject(r.Context(), session, projectID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}
