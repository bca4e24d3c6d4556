package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	permrepo "github.com/leadfoundry/leadcore/internal/engine/repo/permission"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/httpx"
)

// PermissionHandler exposes rule management and the permission check
// endpoint.
type PermissionHandler struct {
	rules *service.PermissionRuleService
	auth  *service.AuthService
}

func NewPermissionHandler(rules *service.PermissionRuleService, auth *service.AuthService) *PermissionHandler {
	return &PermissionHandler{
		rules: rules,
		auth:  auth,
	}
}

func (h *PermissionHandler) CreateRule(c *fiber.Ctx) error {
	var req permission.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	rule, err := h.rules.Create(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, rule)
}

func (h *PermissionHandler) UpdateRule(c *fiber.Ctx) error {
	var req permission.UpdateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := h.rules.Update(c.UserContext(), c.Params("ruleId"), &req); err != nil {
		if errors.Is(err, permrepo.ErrRuleNotFound) {
			return httpx.WithRepErrMsg(c, httpx.NotFound.Code, httpx.NotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}

func (h *PermissionHandler) DeleteRule(c *fiber.Ctx) error {
	if err := h.rules.Delete(c.UserContext(), c.Params("ruleId")); err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}

func (h *PermissionHandler) ListRules(c *fiber.Ctx) error {
	roleId := c.Query("roleId")
	if roleId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "roleId is required", c.Path())
	}

	rules, err := h.rules.ListByRole(c.UserContext(), roleId)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, rules)
}

// CheckPermission runs the full authorization check for the calling role.
type checkPermissionRequest struct {
	ChannelId  string            `json:"channelId"`
	ModuleId   string            `json:"moduleId"`
	ResourceId string            `json:"resourceId"`
	Action     permission.Action `json:"action"`
	Context    map[string]string `json:"context"`
}

func (h *PermissionHandler) CheckPermission(c *fiber.Ctx) error {
	var req checkPermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	roleId, _ := c.Locals("role_id").(string)
	projectId, _ := c.Locals("project_id").(string)

	allowed, decision, err := h.auth.Authorize(c.UserContext(), service.AuthCheck{
		RoleId:     roleId,
		ProjectId:  projectId,
		ChannelId:  req.ChannelId,
		ModuleId:   req.ModuleId,
		ResourceId: req.ResourceId,
		Action:     req.Action,
		Context:    req.Context,
	})
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}

	return httpx.WithRepJSON(c, fiber.Map{
		"allowed":  allowed,
		"decision": decision.String(),
	})
}
