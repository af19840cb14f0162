package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/oficina-erp/oficina-erp/internal/auth"
	"github.com/oficina-erp/oficina-erp/internal/catalog/products"
	"github.com/oficina-erp/oficina-erp/internal/catalog/services"
	"github.com/oficina-erp/oficina-erp/internal/clients"
	"github.com/oficina-erp/oficina-erp/internal/dashboard"
	"github.com/oficina-erp/oficina-erp/internal/finance"
	"github.com/oficina-erp/oficina-erp/internal/orders"
	"github.com/oficina-erp/oficina-erp/internal/settings"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	ClientsHandler   *clients.Handler
	ProductsHandler  *products.Handler
	ServicesHandler  *services.Handler
	OrdersHandler    *orders.Handler
	FinanceHandler   *finance.Handler
	DashboardHandler *dashboard.Handler
	SettingsHandler  *settings.Handler
}

// NewRouter constructs the chi.Router with the service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(params.Logger))

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/clients", params.ClientsHandler.MountRoutes)
			r.Route("/catalog/products", params.ProductsHandler.MountRoutes)
			r.Route("/catalog/services", params.ServicesHandler.MountRoutes)
			r.Route("/orders", params.OrdersHandler.MountRoutes)
			r.Route("/finance/transactions", params.FinanceHandler.MountRoutes)
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
			r.Route("/settings", params.SettingsHandler.MountRoutes)
		})
	})

	return r
}
