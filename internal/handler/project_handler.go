package handler

import (
	"encoding/json"
	"net/http"

	"github.com/keyaccount/backend/internal/model"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/auth"
)

// ProjectHandler はプロジェクトの HTTP ハンドラ
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler は ProjectHandler を生成する
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectListResponse struct {
	Projects []*model.Project `json:"projects"`
	Statuses []string         `json:"statuses"`
}

// List は GET /api/projects?search=&status= を処理する
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	projects, err := h.projectService.List(r.Context(), session, service.ProjectFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectListResponse{Projects: projects, Statuses: model.ProjectStatuses})
}

// Get は GET /api/projects/{id} を処理する
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	detail, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Create は POST /api/projects を処理する
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input service.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	project, err := h.projectService.Create(r.Context(), session, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}
