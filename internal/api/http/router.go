package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barberdesk/kiosk/internal/api/http/handlers"
	"github.com/barberdesk/kiosk/internal/auth"
	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/observability"
	"github.com/barberdesk/kiosk/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Session   *handlers.SessionHandler
	ShopFloor *handlers.ShopFloorHandler
	Store     *session.Store
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Session.Login)
	authGroup.Post("/staff/logout", cfg.Session.Logout)
	authGroup.Get("/session", cfg.Session.Current)

	shop := app.Group("/shop", auth.RequireSession(cfg.Store))
	shop.Post("/clock-in", cfg.ShopFloor.ClockIn)
	shop.Post("/clock-out", cfg.ShopFloor.ClockOut)
	shop.Get("/appointments", cfg.ShopFloor.Appointments)
	shop.Post("/payments", auth.RequireRole(domain.StaffRoleCashier, domain.StaffRoleBarber), cfg.ShopFloor.RecordPayment)
}
