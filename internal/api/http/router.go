package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-portal/internal/api/http/handlers"
	"github.com/spec-kit/job-portal/internal/auth"
	"github.com/spec-kit/job-portal/internal/upload"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Users     *handlers.UsersHandler
	Companies *handlers.CompaniesHandler
	Identity  *auth.IdentityGate
	Stager    *upload.Stager
}

// RegisterRoutes wires HTTP routes. The identity gate always runs before the
// upload gate so unauthenticated requests never stage files.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	user := api.Group("/user")
	user.Post("/register", upload.Gate(upload.RegistrationSchema, cfg.Stager), cfg.Users.Register)
	user.Post("/login", cfg.Users.Login)
	user.Post("/logout", cfg.Users.Logout)
	user.Post("/profile/update", cfg.Identity.Handle, upload.Gate(upload.ProfileSchema, cfg.Stager), cfg.Users.UpdateProfile)

	company := api.Group("/company", cfg.Identity.Handle)
	company.Post("/register", upload.Gate(upload.CompanyLogoSchema, cfg.Stager), cfg.Companies.Register)
	company.Get("/get/:id", cfg.Companies.Get)
	company.Put("/update/:id", upload.Gate(upload.CompanyLogoSchema, cfg.Stager), cfg.Companies.Update)
}
