package handlers

import (
	"net/http"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/middleware"
)

// AuthHandler checks identity tokens issued by the external provider.
// Nothing is gated on the result.
type AuthHandler struct {
	Secret string
	Log    *logger.Logger
}

func NewAuthHandler(secret string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Secret: secret, Log: log}
}

// Verify handles POST /api/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tokenStr, err := middleware.BearerToken(r)
	if err == nil {
		var email string
		email, err = middleware.VerifyToken(tokenStr, h.Secret)
		if err == nil {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{"verified": true, "email": email})
			return
		}
	}
	h.Log.WithContext(r.Context()).Info("Token verification failed", "error", err)
	respondWithJSON(w, http.StatusUnauthorized, map[string]interface{}{"verified": false})
}

// Health handles GET /.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Backend running"))
}
