package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/handler"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	"github.com/leadfoundry/leadcore/pkg/httpx/middleware"
)

const leadModuleId = "leads"

// registerLeadRoutes registers the lead intake and disposition routes. All
// of them sit behind the auth middleware, the module toggle gate and a
// per-action resource guard.
func (rt *Router) registerLeadRoutes(app fiber.Router) {
	leadHandler := handler.NewLeadHandler(rt.Leads)

	authMiddleware := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	leads := app.Group("/api/v1/leads")
	leads.Use(authMiddleware)
	leads.Use(ModuleGuard(rt.Auth, leadModuleId))
	{
		leads.Post("", ResourceGuard(rt.Auth, leadModuleId, "lead", permission.ActionCreate), leadHandler.CreateLead)
		leads.Get("", ResourceGuard(rt.Auth, leadModuleId, "lead", permission.ActionList), leadHandler.ListLeads)
		leads.Get("/:leadId", ResourceGuard(rt.Auth, leadModuleId, "lead", permission.ActionView), leadHandler.GetLead)
		leads.Put("/:leadId/disposition", ResourceGuard(rt.Auth, leadModuleId, "lead", permission.ActionEdit), leadHandler.UpdateDisposition)
	}
}
