package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

func OnboardingRoutes(api *mux.Router, h *Handlers) {
	api.HandleFunc("/onboarding", h.Onboarding.Submit).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/onboarding/user/{email}", h.Onboarding.Get).Methods(http.MethodGet, http.MethodOptions)
}

func ProjectRoutes(api *mux.Router, h *Handlers) {
	api.HandleFunc("/projects", h.Projects.Create).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/projects/{email}", h.Projects.ListByAdmin).Methods(http.MethodGet, http.MethodOptions)
}

func DashboardRoutes(api *mux.Router, h *Handlers) {
	api.HandleFunc("/dashboard/{email}", h.Dashboard.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/team/{projectCode}", h.Dashboard.Team).Methods(http.MethodGet, http.MethodOptions)
}

func BoardRoutes(api *mux.Router, h *Handlers) {
	api.HandleFunc("/tasks", h.Board.CreateTask).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/tasks/{projectCode}", h.Board.ListTasks).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tasks/{taskId}", h.Board.UpdateTaskStatus).Methods(http.MethodPatch, http.MethodOptions)

	api.HandleFunc("/queries", h.Board.CreateQuery).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/queries/{projectCode}", h.Board.ListQueries).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/queries/{id}/resolve", h.Board.ToggleQuery).Methods(http.MethodPatch, http.MethodOptions)
}

func ActivityRoutes(api *mux.Router, h *Handlers) {
	api.HandleFunc("/activities/{projectCode}", h.Activity.Feed).Methods(http.MethodGet, http.MethodOptions)
}

func AuthRoutes(api *mux.Router, h *Handlers) {
	api.HandleFunc("/auth/verify", h.Auth.Verify).Methods(http.MethodPost, http.MethodOptions)
}
