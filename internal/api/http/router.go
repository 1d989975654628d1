package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/api/http/handlers"
	"github.com/initiative-bkd/petition-service/internal/auth"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Public         *handlers.PublicHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Store          Pinger
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Get("/licenses", cfg.Public.Licenses)
	api.Get("/signatures/count", cfg.Public.Count)
	api.Post("/signatures", cfg.Public.Submit)
	api.Post("/visits", cfg.Public.Visit)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	admin := app.Group("/admin",
		requireStore(cfg.Store, cfg.Logger),
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin),
	)
	admin.Get("/signatures", cfg.Admin.ListSignatures)
	admin.Get("/signatures/export.csv", cfg.Admin.ExportCSV)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/visits", cfg.Admin.ListVisits)
	admin.Patch("/signatures/:id/status", cfg.Admin.SetStatus)

	superOnly := auth.RequireSuperAdmin()
	admin.Post("/signatures/purge", superOnly, cfg.Admin.Purge)
	admin.Delete("/signatures/:id", superOnly, cfg.Admin.DeleteSignature)
	admin.Get("/admins", superOnly, cfg.Admin.ListAdmins)
	admin.Post("/admins", superOnly, cfg.Admin.AddAdmin)
	admin.Delete("/admins/:id", superOnly, cfg.Admin.RemoveAdmin)
}
