package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/document-service/internal/api/http/handlers"
	"github.com/spec-kit/document-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Documents      *handlers.DocumentsHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The auth middleware runs on every route
// and never rejects; handlers that need identity check it themselves.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)
	app.Get("/users/me", cfg.Users.Me)

	documents := app.Group("/documents")
	documents.Get("/", cfg.Documents.List)
	documents.Get("/:id", cfg.Documents.Get)
	documents.Get("/:id/file", cfg.Documents.Download)
	documents.Post("/", cfg.Documents.Create)
	documents.Put("/:id", cfg.Documents.Update)
	documents.Delete("/:id", cfg.Documents.Delete)

	categories := app.Group("/categories")
	categories.Get("/", cfg.Categories.List)
	categories.Post("/", cfg.Categories.Create)
	categories.Put("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)
}
