package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/core/resolve"
	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/httpx"
)

// ModuleConfigHandler exposes the admin CRUD surface for module configs and
// the effective-config resolution endpoint.
type ModuleConfigHandler struct {
	configs *service.ModuleConfigService
}

func NewModuleConfigHandler(configs *service.ModuleConfigService) *ModuleConfigHandler {
	return &ModuleConfigHandler{configs: configs}
}

func (h *ModuleConfigHandler) CreateConfig(c *fiber.Ctx) error {
	var req moduleconfig.CreateModuleConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	cfg, err := h.configs.Create(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, cfg)
}

func (h *ModuleConfigHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.configs.Get(c.UserContext(), c.Params("configId"))
	if err != nil {
		if errors.Is(err, resolve.ErrConfigNotFound) {
			return httpx.WithRepErrMsg(c, httpx.ConfigNotExist.Code, httpx.ConfigNotExist.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, cfg)
}

func (h *ModuleConfigHandler) ListConfigs(c *fiber.Ctx) error {
	moduleId := c.Query("moduleId")
	if moduleId == "" {
		return httpx.WithRepErrMsg(c, httpx.ModuleIdIsEmpty.Code, httpx.ModuleIdIsEmpty.Msg, c.Path())
	}

	configs, err := h.configs.ListByModule(c.UserContext(), moduleId)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, configs)
}

func (h *ModuleConfigHandler) UpdateConfig(c *fiber.Ctx) error {
	var req moduleconfig.UpdateModuleConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := h.configs.Update(c.UserContext(), c.Params("configId"), &req); err != nil {
		if errors.Is(err, resolve.ErrConfigNotFound) {
			return httpx.WithRepErrMsg(c, httpx.ConfigNotExist.Code, httpx.ConfigNotExist.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}

func (h *ModuleConfigHandler) DeleteConfig(c *fiber.Ctx) error {
	if err := h.configs.Delete(c.UserContext(), c.Params("configId")); err != nil {
		if errors.Is(err, resolve.ErrConfigNotFound) {
			return httpx.WithRepErrMsg(c, httpx.ConfigNotExist.Code, httpx.ConfigNotExist.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}

// ResolveConfig returns the effective config for a (project, module) scope:
// the tenant override when present, otherwise the global default.
func (h *ModuleConfigHandler) ResolveConfig(c *fiber.Ctx) error {
	moduleId := c.Query("moduleId")
	if moduleId == "" {
		return httpx.WithRepErrMsg(c, httpx.ModuleIdIsEmpty.Code, httpx.ModuleIdIsEmpty.Msg, c.Path())
	}

	cfg, err := h.configs.Resolve(c.UserContext(), c.Query("projectId"), moduleId)
	if err != nil {
		if errors.Is(err, resolve.ErrConfigNotFound) {
			return httpx.WithRepErrMsg(c, httpx.ConfigNotExist.Code, httpx.ConfigNotExist.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, cfg)
}
