package orders

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

	req := ListOrdersRequest{Limit: 100}
	q := r.URL.Query()
	if st := q.Get("status"); st != "" {
		status := Status(st)
		req.Status = &status
	}
	if search := q.Get("search"); search != "" {
		req.Search = &search
	}
	if l := q.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if o := q.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	result, total, err := h.service.List(r.Context(), ident.UserID, req)
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders": result,
		"total":  total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}

	order, err := h.service.Get(r.Context(), ident.UserID, id)
	if err != nil {
		h.logger.Error("get order failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), ident.UserID, req)
	if err != nil {
		h.logger.Error("create order failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}

	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	result, err := h.service.Update(r.Context(), ident.UserID, id, req)
	if err != nil {
		h.logger.Error("update order failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	body := map[string]any{"order": result.Order}
	if result.LedgerErr != nil {
		body["ledger_error"] = "order saved but financial transaction creation failed"
	}
	httpx.JSON(w, http.StatusOK, body)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}

	if err := h.service.Delete(r.Context(), ident.UserID, id); err != nil {
		h.logger.Error("delete order failed", slog.Any("error", err), slog.String("id", id.String()))
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
