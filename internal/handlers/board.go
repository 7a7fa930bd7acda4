package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/service/board"
)

type ToggleQueryRequest struct {
	UserName string `json:"userName"`
}

type BoardHandler struct {
	Service *board.BoardService
	Log     *logger.Logger
}

func NewBoardHandler(service *board.BoardService, log *logger.Logger) *BoardHandler {
	return &BoardHandler{Service: service, Log: log}
}

func (h *BoardHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req board.CreateTaskRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondWithError(w, h.Log, err)
		return
	}
	task, err := h.Service.CreateTask(r.Context(), req)
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusCreated, task)
}

func (h *BoardHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Service.ListTasks(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *BoardHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req board.UpdateTaskStatusRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondWithError(w, h.Log, err)
		return
	}
	task, err := h.Service.UpdateTaskStatus(r.Context(), mux.Vars(r)["taskId"], req)
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

func (h *BoardHandler) CreateQuery(w http.ResponseWriter, r *http.Request) {
	var req board.CreateQueryRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondWithError(w, h.Log, err)
		return
	}
	query, err := h.Service.CreateQuery(r.Context(), req)
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusCreated, query)
}

func (h *BoardHandler) ListQueries(w http.ResponseWriter, r *http.Request) {
	queries, err := h.Service.ListQueries(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, queries)
}

// ToggleQuery flips a query's resolved flag. The body is optional.
func (h *BoardHandler) ToggleQuery(w http.ResponseWriter, r *http.Request) {
	var req ToggleQueryRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, h.Log, err)
		return
	}
	query, err := h.Service.ToggleQuery(r.Context(), mux.Vars(r)["id"], req.UserName)
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, query)
}
