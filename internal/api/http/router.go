package http

import (
	stdhttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/vote-service/internal/api/http/handlers"
	"github.com/spec-kit/vote-service/internal/config"
	"github.com/spec-kit/vote-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Admin   *handlers.AdminHandler
	Votes   *handlers.VotesHandler
	Catalog *handlers.CatalogHandler
	Gates   *Gates
	Metrics stdhttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	gates := cfg.Gates

	app.Get("/", gates.Key(config.AdminAPIKey).Handler(), cfg.Health.Banner)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	admin := app.Group("/admin", gates.Admin().Handler())
	admin.Post("/seed", cfg.Admin.SeedRoles)
	admin.Patch("/users/:id/status", cfg.Admin.UpdateUserStatus)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", gates.Login().Handler(), cfg.Auth.Login)
	authGroup.Post("/register", gates.Register().Handler(), cfg.Auth.Register)
	authGroup.Post("/seed", gates.Authenticated(config.AuthAPIKey, domain.RoleAdmin).Handler(), cfg.Auth.SeedUsers)
	authGroup.Get("/protected",
		gates.Authenticated(config.AuthAPIKey, domain.RoleAdmin, domain.RoleModerator).Handler(),
		cfg.Auth.Protected,
	)

	votes := app.Group("/votes")
	votes.Post("", gates.CastVote().Handler(), cfg.Votes.Cast)
	votes.Get("/sections/:id/status", gates.Voter().Handler(), cfg.Votes.SectionStatus)

	events := app.Group("/events", gates.Admin().Handler())
	events.Post("", cfg.Catalog.CreateEvent)
	events.Get("", cfg.Catalog.ListEvents)
	events.Get("/:id", cfg.Catalog.GetEvent)
	events.Put("/:id", cfg.Catalog.UpdateEvent)
	events.Delete("/:id", cfg.Catalog.DeleteEvent)
	events.Patch("/:id/status", cfg.Catalog.UpdateEventStatus)

	sections := app.Group("/sections", gates.Admin().Handler())
	sections.Post("", cfg.Catalog.CreateSection)
	sections.Get("", cfg.Catalog.ListSections)
	sections.Get("/:id", cfg.Catalog.GetSection)
	sections.Put("/:id", cfg.Catalog.UpdateSection)
	sections.Delete("/:id", cfg.Catalog.DeleteSection)
	sections.Patch("/:id/status", cfg.Catalog.UpdateSectionStatus)

	options := app.Group("/options", gates.Admin().Handler())
	options.Post("", cfg.Catalog.CreateOption)
	options.Get("", cfg.Catalog.ListOptions)
	options.Get("/:id", cfg.Catalog.GetOption)
	options.Put("/:id", cfg.Catalog.UpdateOption)
	options.Delete("/:id", cfg.Catalog.DeleteOption)
	options.Patch("/:id/status", cfg.Catalog.UpdateOptionStatus)
}
