package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oficina-erp/oficina-erp/internal/platform/httpx"
	"github.com/oficina-erp/oficina-erp/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	overview, err := h.service.Overview(r.Context(), ident.UserID)
	if err != nil {
		h.logger.Error("dashboard overview failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Overview)
}
