package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/logger"
)

// errorResponse is the body of every failed request. Error carries the
// underlying cause for internal failures only.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, log *logger.Logger, err error) {
	code := apperrors.HTTPStatus(err)
	body := errorResponse{Message: "Internal server error"}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		if appErr.Kind == apperrors.KindInternal && appErr.Err != nil {
			body.Error = appErr.Err.Error()
		}
	} else {
		body.Error = err.Error()
	}
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err, "status", code)
	}
	respondWithJSON(w, code, body)
}

// decodeJSON reads the request body into v. An empty body is allowed when
// optional is set.
func decodeJSON(r *http.Request, v interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	return nil
}
