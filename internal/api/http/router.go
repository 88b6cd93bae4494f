package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/livechat-service/internal/api/http/handlers"
	"github.com/spec-kit/livechat-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Dispatch       *handlers.DispatchHandler
	Visitors       *handlers.VisitorsHandler
	Agents         *handlers.AgentsHandler
	OfficeHours    *handlers.OfficeHoursHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/agents/login", cfg.Agents.Login)

	livechat := app.Group("/livechat")

	// Called by the embedding conversation-routing service.
	livechat.Post("/dispatch", cfg.Dispatch.Dispatch)
	livechat.Post("/visitors", cfg.Visitors.Register)
	livechat.Get("/visitors", cfg.Visitors.Lookup)
	livechat.Patch("/visitors/:id/profile", cfg.Visitors.UpdateProfile)
	livechat.Put("/visitors/:token/custom-data", cfg.Visitors.UpdateCustomData)

	// Admin surface for agents and managers.
	admin := livechat.Group("", cfg.AuthMiddleware.Handle)
	admin.Get("/agents", auth.RequireAgent(), cfg.Agents.List)
	admin.Put("/agents/:id/availability", auth.RequireAgent(), cfg.Agents.SetAvailability)
	admin.Put("/agents/:id/presence", auth.RequireManager(), cfg.Agents.SetPresence)
	admin.Put("/agents/:id/operator", auth.RequireManager(), cfg.Agents.SetOperator)
	admin.Post("/office-hours/open", auth.RequireManager(), cfg.OfficeHours.Open)
	admin.Post("/office-hours/close", auth.RequireManager(), cfg.OfficeHours.Close)
}
