package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/middleware"
	"github.com/nikhil/togglenest/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed carries no data beyond what the polling endpoints expose.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler subscribes clients to a project's activity feed.
type WebSocketHandler struct {
	hub *models.Hub
	log *logger.Logger
}

func NewWebSocketHandler(hub *models.Hub, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

// HandleWebSocket handles GET /ws?projectCode=.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("projectCode"))
	if code == "" {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Message: "projectCode is required"})
		return
	}
	email, _ := middleware.EmailFromContext(r.Context())
	log := h.log.WithContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Error upgrading connection", "error", err)
		return
	}

	client := h.hub.NewClient(conn, code, email)
	if err := h.hub.Register(r.Context(), client); err != nil {
		log.Warn("Hub rejected client", "error", err, "project_code", code)
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
