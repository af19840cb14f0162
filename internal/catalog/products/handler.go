package products

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

	req := ListProductsRequest{Limit: 100}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	if category := r.URL.Query().Get("category"); category != "" {
		req.Category = &category
	}
	req.LowStock = r.URL.Query().Get("low_stock") == "true"
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
		h.logger.Error("list products failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"products": result,
		"total":    total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}

	product, err := h.service.Get(r.Context(), ident.UserID, id)
	if err != nil {
		h.logger.Error("get product failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	product, err := h.service.Create(r.Context(), ident.UserID, req)
	if err != nil {
		h.logger.Error("create product failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), ident.UserID, id, req)
	if err != nil {
		h.logger.Error("update product failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}

	if err := h.service.Delete(r.Context(), ident.UserID, id); err != nil {
		h.logger.Error("delete product failed", slog.Any("error", err), slog.String("id", id.String()))
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
