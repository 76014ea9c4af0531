package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/realtime"
	"github.com/vaultpass/passgen/internal/service"
)

// RealtimeHandler upgrades requests to websockets that receive history updates.
type RealtimeHandler struct {
	hub      *realtime.Hub
	sessions *service.SessionService
	history  *service.HistoryService
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a new RealtimeHandler. Cross-origin upgrades are
// rejected by the upgrader's default origin check.
func NewRealtimeHandler(hub *realtime.Hub, sessions *service.SessionService, history *service.HistoryService) *RealtimeHandler {
	return &RealtimeHandler{
		hub:      hub,
		sessions: sessions,
		history:  history,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleConnect handles GET /api/v1/ws?token= requests. Browsers cannot set
// headers on websocket requests, so the session token travels in the query.
func (h *RealtimeHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse("missing token"))
		return
	}

	sid, err := h.sessions.Validate(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("invalid or expired token"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the error response
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.hub.Serve(conn, sid, func() ([]model.HistoryEntry, error) {
		return h.history.List(r.Context(), sid)
	})
}
