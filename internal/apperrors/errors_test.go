package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("email is required"), http.StatusBadRequest},
		{"conflict", Conflict("Project ID already exists"), http.StatusBadRequest},
		{"not found", NotFound("User not found"), http.StatusNotFound},
		{"internal", Internal("boom", errors.New("disk")), http.StatusInternalServerError},
		{"foreign error", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", NotFound("Task not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to save task", cause)

	assert.Equal(t, "failed to save task: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(nil, KindInternal))
	assert.Equal(t, "not_found", KindNotFound.String())
}
