package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/service/activity"
)

type ActivityHandler struct {
	Service *activity.ActivityService
	Log     *logger.Logger
}

func NewActivityHandler(service *activity.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{Service: service, Log: log}
}

func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Service.Feed(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, feed)
}
