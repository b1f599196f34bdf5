package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk/web"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Classify *handlers.ClassifyHandler
}

// RegisterRoutes wires HTTP routes. Static routes under /api/tickets are
// registered before the :id routes so "stats" and "classify" are never
// captured as an id.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/api/tickets")
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Post("/classify", cfg.Classify.Classify)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)

	app.Get("/", serveIndex)
}

func serveIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(web.IndexHTML)
}
