package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/service/projects"
)

type CreateProjectRequest struct {
	ProjectCode string `json:"projectId"`
	ProjectName string `json:"projectName"`
	AdminEmail  string `json:"adminEmail"`
}

type ProjectHandler struct {
	Service *projects.ProjectService
	Log     *logger.Logger
}

func NewProjectHandler(service *projects.ProjectService, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{Service: service, Log: log}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondWithError(w, h.Log, err)
		return
	}
	project, err := h.Service.CreateProject(r.Context(), req.ProjectCode, req.ProjectName, req.AdminEmail)
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListByAdmin(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListAdminProjects(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}
