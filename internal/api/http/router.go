package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pharmstock-gateway/internal/api/http/handlers"
	"github.com/spec-kit/pharmstock-gateway/internal/auth"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Reservations *handlers.ReservationsHandler
	Stock        *handlers.StockHandler
	Directory    *handlers.DirectoryHandler
	Session      *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Session.Handle, cfg.Auth.Logout)

	me := app.Group("/me", cfg.Session.Handle)
	me.Get("/", cfg.Auth.Me)
	me.Patch("/", cfg.Auth.UpdateMe)

	reservations := app.Group("/reservations", cfg.Session.Handle)
	reservations.Get("/", cfg.Reservations.List)
	reservations.Post("/", auth.RequireRole(domain.RoleCliente), cfg.Reservations.Create)
	reservations.Patch("/:id/status", auth.RequireManager(), cfg.Reservations.UpdateStatus)
	reservations.Post("/:id/cancel", auth.RequireRole(domain.RoleCliente), cfg.Reservations.CancelOwn)

	medicines := app.Group("/medicines", cfg.Session.Handle)
	medicines.Get("/", cfg.Stock.List)
	medicines.Post("/alerts", auth.RequireRole(domain.RoleCliente), cfg.Stock.CreateAlert)

	pharmacies := app.Group("/pharmacies", cfg.Session.Handle)
	pharmacies.Get("/", cfg.Directory.ListPharmacies)
	pharmacies.Put("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleGerente), cfg.Directory.UpdatePharmacy)
	pharmacies.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Directory.DeletePharmacy)

	employees := app.Group("/employees", cfg.Session.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleGerente))
	employees.Get("/", cfg.Directory.ListEmployees)
	employees.Post("/", cfg.Directory.CreateEmployee)
	employees.Delete("/:id", cfg.Directory.DeleteEmployee)
}
