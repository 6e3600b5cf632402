package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sr-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Metrics *handlers.MetricsHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)
	api.Get("/metrics", cfg.Metrics.Snapshot)

	sr := api.Group("/sr")
	sr.Post("/", cfg.Tickets.CreateTicket)
	sr.Get("/", cfg.Tickets.ListTickets)
	sr.Get("/code/:code", cfg.Tickets.GetTicketByCode)
	sr.Get("/:id", cfg.Tickets.GetTicket)
	sr.Patch("/:id/status", cfg.Tickets.UpdateStatus)
}
