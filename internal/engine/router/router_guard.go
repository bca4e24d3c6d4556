package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/httpx"
)

// ModuleGuard gates a route group on the access control toggle for the
// module. Absent documents and absent toggles deny.
func ModuleGuard(auth *service.AuthService, moduleId string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleId, _ := c.Locals("role_id").(string)
		projectId, _ := c.Locals("project_id").(string)
		channelId := c.Get("X-Channel-Id")

		enabled, err := auth.IsModuleEnabled(c.UserContext(), projectId, channelId, moduleId, roleId)
		if err != nil {
			return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
		}
		if !enabled {
			return httpx.WithRepErrMsg(c, httpx.ModuleDisabled.Code, httpx.ModuleDisabled.Msg, c.Path())
		}
		return c.Next()
	}
}

// ResourceGuard additionally evaluates the role's permission rules for a
// fixed resource and action. NoMatch denies.
func ResourceGuard(auth *service.AuthService, moduleId, resourceId string, action permission.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleId, _ := c.Locals("role_id").(string)
		projectId, _ := c.Locals("project_id").(string)
		channelId := c.Get("X-Channel-Id")

		allowed, _, err := auth.Authorize(c.UserContext(), service.AuthCheck{
			RoleId:     roleId,
			ProjectId:  projectId,
			ChannelId:  channelId,
			ModuleId:   moduleId,
			ResourceId: resourceId,
			Action:     action,
		})
		if err != nil {
			return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
		}
		if !allowed {
			return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
		}
		return c.Next()
	}
}
