package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/handler"
	"github.com/leadfoundry/leadcore/pkg/httpx/middleware"
)

// registerPermissionRoutes registers rule management and the permission
// check endpoint.
func (rt *Router) registerPermissionRoutes(app fiber.Router) {
	permHandler := handler.NewPermissionHandler(rt.Rules, rt.Auth)

	authMiddleware := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	permissions := app.Group("/api/v1/permissions")
	permissions.Use(authMiddleware)
	{
		permissions.Post("/check", permHandler.CheckPermission)

		rules := permissions.Group("/rules")
		{
			rules.Post("", permHandler.CreateRule)
			rules.Get("", permHandler.ListRules)
			rules.Put("/:ruleId", permHandler.UpdateRule)
			rules.Delete("/:ruleId", permHandler.DeleteRule)
		}
	}
}
