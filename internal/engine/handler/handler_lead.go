package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/leadfoundry/leadcore/internal/engine/model/lead"
	leadrepo "github.com/leadfoundry/leadcore/internal/engine/repo/lead"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/httpx"
)

// LeadHandler exposes lead intake and disposition updates.
type LeadHandler struct {
	leads *service.LeadService
}

func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func (h *LeadHandler) CreateLead(c *fiber.Ctx) error {
	var req lead.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.CreatedBy == "" {
		if userId, ok := c.Locals("user_id").(string); ok {
			req.CreatedBy = userId
		}
	}

	l, err := h.leads.Create(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, l)
}

func (h *LeadHandler) GetLead(c *fiber.Ctx) error {
	leadId := c.Params("leadId")

	l, err := h.leads.Get(c.UserContext(), leadId)
	if err != nil {
		if errors.Is(err, leadrepo.ErrLeadNotFound) {
			return httpx.WithRepErrMsg(c, httpx.NotFound.Code, httpx.NotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, l)
}

func (h *LeadHandler) ListLeads(c *fiber.Ctx) error {
	projectId := c.Query("projectId")
	if projectId == "" {
		return httpx.WithRepErrMsg(c, httpx.ProjectIdIsEmpty.Code, httpx.ProjectIdIsEmpty.Msg, c.Path())
	}

	leads, err := h.leads.ListByProject(c.UserContext(), projectId, c.Query("bucket"))
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, leads)
}

// UpdateDisposition applies a progress/disposition change and recomputes the
// lead's bucket.
func (h *LeadHandler) UpdateDisposition(c *fiber.Ctx) error {
	leadId := c.Params("leadId")

	var req lead.UpdateDispositionRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	l, err := h.leads.UpdateDisposition(c.UserContext(), leadId, &req)
	if err != nil {
		if errors.Is(err, leadrepo.ErrLeadNotFound) {
			return httpx.WithRepErrMsg(c, httpx.NotFound.Code, httpx.NotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, l)
}
