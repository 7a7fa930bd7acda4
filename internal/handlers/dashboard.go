package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/service/dashboard"
)

type DashboardHandler struct {
	Service *dashboard.DashboardService
	Log     *logger.Logger
}

func NewDashboardHandler(service *dashboard.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{Service: service, Log: log}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.GetDashboard(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *DashboardHandler) Team(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.TeamRoster(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"teamMembers": members})
}
