package finance

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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

	req := ListTransactionsRequest{Limit: 100}
	q := r.URL.Query()
	if t := q.Get("type"); t != "" {
		tt := TransactionType(t)
		req.Type = &tt
	}
	if st := q.Get("status"); st != "" {
		ts := TransactionStatus(st)
		req.Status = &ts
	}
	if from := q.Get("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			req.From = &parsed
		}
	}
	if to := q.Get("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			req.To = &parsed
		}
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
		h.logger.Error("list transactions failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"transactions": result,
		"total":        total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}

	tx, err := h.service.Get(r.Context(), ident.UserID, id)
	if err != nil {
		h.logger.Error("get transaction failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	var req CreateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	tx, err := h.service.Create(r.Context(), ident.UserID, req)
	if err != nil {
		h.logger.Error("create transaction failed", slog.Any("error", err))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}

	var req UpdateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	tx, err := h.service.Update(r.Context(), ident.UserID, id, req)
	if err != nil {
		h.logger.Error("update transaction failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}

	var req MarkPaidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}

	tx, err := h.service.MarkPaid(r.Context(), ident.UserID, id, req)
	if err != nil {
		h.logger.Error("mark transaction paid failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}

	if err := h.service.Delete(r.Context(), ident.UserID, id); err != nil {
		h.logger.Error("delete transaction failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, domainError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), ident.UserID)
	if err != nil {
		h.logger.Error("financial summary failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	ident, _ := shared.IdentityFromContext(r.Context())

	months := 6
	if m := r.URL.Query().Get("months"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed > 0 && parsed <= 24 {
			months = parsed
		}
	}

	series, err := h.service.Series(r.Context(), ident.UserID, months)
	if err != nil {
		h.logger.Error("financial series failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"series": series})
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
