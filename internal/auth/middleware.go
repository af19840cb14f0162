// Package auth adapts the external identity collaborator. The platform in
// front of this service authenticates users and forwards their identity in
// trusted headers; login and signup flows never reach this process.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/oficina-erp/oficina-erp/internal/platform/httpx"
	"github.com/oficina-erp/oficina-erp/internal/shared"
)

const (
	userIDHeader = "X-User-Id"
	emailHeader  = "X-User-Email"
)

// Middleware extracts the authenticated identity from proxy headers and
// stores it in the request context. Requests without a valid user id are
// rejected before any handler runs.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(userIDHeader)
			if raw == "" {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				logger.Warn("malformed identity header", slog.String("path", r.URL.Path))
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			ident := shared.Identity{
				UserID: userID,
				Email:  r.Header.Get(emailHeader),
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), ident)))
		})
	}
}
