package handler

import (
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// LeadHandler handles lead API endpoints
type LeadHandler struct {
	BaseHandler
	leadService *salesapp.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *salesapp.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// leadListRequest carries the lead listing filters
type leadListRequest struct {
	dto.ListRequest
	LeadType string `form:"lead_type"`
}

// Create handles POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req salesapp.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.leadService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	resp, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /leads
func (h *LeadHandler) List(c *gin.Context) {
	var req leadListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := sales.LeadFilter{
		Status:   sales.LeadStatus(req.Status),
		LeadType: sales.LeadType(req.LeadType),
		Query:    req.Search,
		Offset:   req.Offset(),
		Limit:    req.PageSize,
	}

	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, leads, total, req.Page, req.PageSize)
}

// Update handles PUT /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	var req salesapp.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.leadService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
