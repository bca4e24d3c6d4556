package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/handler"
	"github.com/leadfoundry/leadcore/pkg/httpx/middleware"
)

// registerConfigRoutes registers the admin surface for module configs and
// access control documents.
func (rt *Router) registerConfigRoutes(app fiber.Router) {
	configHandler := handler.NewModuleConfigHandler(rt.Configs)
	accessHandler := handler.NewAccessControlHandler(rt.Access)

	authMiddleware := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	configs := app.Group("/api/v1/module-configs")
	configs.Use(authMiddleware)
	{
		configs.Post("", configHandler.CreateConfig)
		configs.Get("", configHandler.ListConfigs)
		// effective config for a scope; must precede the :configId route
		configs.Get("/resolve", configHandler.ResolveConfig)
		configs.Get("/:configId", configHandler.GetConfig)
		configs.Put("/:configId", configHandler.UpdateConfig)
		configs.Delete("/:configId", configHandler.DeleteConfig)
	}

	access := app.Group("/api/v1/access-controls")
	access.Use(authMiddleware)
	{
		access.Post("", accessHandler.CreateDocument)
		// idempotent onboarding entry point
		access.Post("/ensure", accessHandler.EnsureDocument)
		access.Get("", accessHandler.GetDocument)
		access.Put("/:accessId", accessHandler.UpdateDocument)
		access.Delete("/:accessId", accessHandler.DeleteDocument)
	}
}
