package handler

import (
	"log/slog"
	"net/http"

	"github.com/vaultpass/passgen/internal/service"
)

// SessionHandler issues anonymous session tokens.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// HandleCreate handles POST /api/v1/session requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Create()
	if err != nil {
		slog.Error("create session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
