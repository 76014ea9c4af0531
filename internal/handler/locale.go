package handler

import (
	"log/slog"
	"net/http"

	"github.com/vaultpass/passgen/internal/i18n"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/service"
)

// LocaleHandler handles HTTP requests for display language and labels.
type LocaleHandler struct {
	service *service.LocaleService
}

// NewLocaleHandler creates a new LocaleHandler.
func NewLocaleHandler(svc *service.LocaleService) *LocaleHandler {
	return &LocaleHandler{service: svc}
}

// HandleGet handles GET /api/v1/locale requests.
func (h *LocaleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), sessionID(r))
	if err != nil {
		slog.Error("get locale failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, localeResponse(l))
}

// HandleSet handles PUT /api/v1/locale requests. Unsupported locales fall
// back to the default one.
func (h *LocaleHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req model.LocaleRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	l, err := h.service.Set(r.Context(), sessionID(r), req.Locale)
	if err != nil {
		slog.Error("set locale failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, localeResponse(l))
}

// HandleLabels handles GET /api/v1/labels?locale= requests.
func (h *LocaleHandler) HandleLabels(w http.ResponseWriter, r *http.Request) {
	l, _ := i18n.Resolve(r.URL.Query().Get("locale"))
	writeJSON(w, http.StatusOK, localeResponse(l))
}

func localeResponse(l i18n.Locale) model.LocaleResponse {
	return model.LocaleResponse{
		Locale: string(l),
		Labels: l.Labels(),
	}
}
