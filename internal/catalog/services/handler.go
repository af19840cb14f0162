package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	req := ListServicesRequest{Limit: 100}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	result, total, err := h.service.List(r.Context(), ident.UserID, req)
	if err != nil {
		h.logger.Error("list services failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"services": result,
		"total":    total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid service id")
		return
	}

	svc, err := h.service.Get(r.Context(), ident.UserID, id)
	if err != nil {
		h.logger.Error("get service failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, svc)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	var req CreateServiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	svc, err := h.service.Create(r.Context(), ident.UserID, req)
	if err != nil {
		h.logger.Error("create service failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusCreated, svc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid service id")
		return
	}

	var req UpdateServiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	svc, err := h.service.Update(r.Context(), ident.UserID, id, req)
	if err != nil {
		h.logger.Error("update service failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, svc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid service id")
		return
	}

	if err := h.service.Delete(r.Context(), ident.UserID, id); err != nil {
		h.logger.Error("delete service failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func domainError(err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNotFound):
		return httpx.ErrNotFound
	case errors.As(err, &verrs):
		return fmt.Errorf("%w: %s", httpx.ErrValidation, verrs.Error())
	default:
		return err
	}
}
