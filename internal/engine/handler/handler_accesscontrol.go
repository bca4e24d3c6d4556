package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/model/accesscontrol"
	acrepo "github.com/leadfoundry/leadcore/internal/engine/repo/accesscontrol"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/httpx"
)

// AccessControlHandler exposes the admin surface for access control
// documents.
type AccessControlHandler struct {
	access *service.AccessControlService
}

func NewAccessControlHandler(access *service.AccessControlService) *AccessControlHandler {
	return &AccessControlHandler{access: access}
}

func (h *AccessControlHandler) CreateDocument(c *fiber.Ctx) error {
	var req accesscontrol.CreateAccessControlRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	doc, err := h.access.Create(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, doc)
}

// EnsureDocument returns the document for the pair, creating it from the
// request's module configs on first access. Channel onboarding calls this
// instead of Create so replays after the first one are reads.
func (h *AccessControlHandler) EnsureDocument(c *fiber.Ctx) error {
	var req accesscontrol.CreateAccessControlRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.ProjectId == "" {
		return httpx.WithRepErrMsg(c, httpx.ProjectIdIsEmpty.Code, httpx.ProjectIdIsEmpty.Msg, c.Path())
	}
	if req.ChannelId == "" {
		return httpx.WithRepErrMsg(c, httpx.ChannelIdIsEmpty.Code, httpx.ChannelIdIsEmpty.Msg, c.Path())
	}

	doc, err := h.access.GetOrCreate(c.UserContext(), req.ProjectId, req.ChannelId, req.ModuleConfigs, req.CreatedBy)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, doc)
}

func (h *AccessControlHandler) GetDocument(c *fiber.Ctx) error {
	projectId := c.Query("projectId")
	channelId := c.Query("channelId")
	if projectId == "" {
		return httpx.WithRepErrMsg(c, httpx.ProjectIdIsEmpty.Code, httpx.ProjectIdIsEmpty.Msg, c.Path())
	}
	if channelId == "" {
		return httpx.WithRepErrMsg(c, httpx.ChannelIdIsEmpty.Code, httpx.ChannelIdIsEmpty.Msg, c.Path())
	}

	doc, err := h.access.Get(c.UserContext(), projectId, channelId)
	if err != nil {
		if errors.Is(err, acrepo.ErrAccessDocNotFound) {
			return httpx.WithRepErrMsg(c, httpx.NotFound.Code, httpx.NotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, doc)
}

func (h *AccessControlHandler) UpdateDocument(c *fiber.Ctx) error {
	var req accesscontrol.UpdateAccessControlRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := h.access.Update(c.UserContext(), c.Params("accessId"), &req); err != nil {
		if errors.Is(err, acrepo.ErrAccessDocNotFound) {
			return httpx.WithRepErrMsg(c, httpx.NotFound.Code, httpx.NotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}

func (h *AccessControlHandler) DeleteDocument(c *fiber.Ctx) error {
	if err := h.access.Delete(c.UserContext(), c.Params("accessId")); err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}
