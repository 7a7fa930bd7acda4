package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/middleware"
	"github.com/nikhil/togglenest/internal/service/membership"
)

type OnboardingHandler struct {
	Service *membership.MembershipService
	Log     *logger.Logger
}

func NewOnboardingHandler(service *membership.MembershipService, log *logger.Logger) *OnboardingHandler {
	return &OnboardingHandler{Service: service, Log: log}
}

// Submit handles POST /api/onboarding.
func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req membership.OnboardingRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondWithError(w, h.Log, err)
		return
	}
	if req.Email == "" {
		if email, ok := middleware.EmailFromContext(r.Context()); ok {
			req.Email = email
		}
	}

	user, err := h.Service.ResolveOnboarding(r.Context(), req)
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Workspace details saved successfully!",
		"user":    user,
	})
}

// Get handles GET /api/onboarding/user/{email}.
func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.GetOnboarding(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		respondWithError(w, h.Log.WithContext(r.Context()), err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"user": status})
}
