package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires handlers onto the fiber app.
type Router struct {
	Http    *httpx.Http
	Leads   *service.LeadService
	Configs *service.ModuleConfigService
	Access  *service.AccessControlService
	Rules   *service.PermissionRuleService
	Auth    *service.AuthService
}

func NewRouter(httpConf *httpx.Http, leads *service.LeadService, configs *service.ModuleConfigService,
	access *service.AccessControlService, rules *service.PermissionRuleService, auth *service.AuthService) *Router {
	return &Router{
		Http:    httpConf,
		Leads:   leads,
		Configs: configs,
		Access:  access,
		Rules:   rules,
		Auth:    auth,
	}
}

// Router builds the fiber application with all routes registered.
func (rt *Router) Router() *fiber.App {
	app := httpx.NewApp(*rt.Http)

	app.Use(recover.New())
	if rt.Http.AccessLog {
		app.Use(logger.New())
	}

	// health and metrics stay outside the context path
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	var root fiber.Router = app
	if rt.Http.ContextPath != "" {
		root = app.Group(rt.Http.ContextPath)
	}

	rt.registerLeadRoutes(root)
	rt.registerConfigRoutes(root)
	rt.registerPermissionRoutes(root)

	return app
}
