package handler

import (
	"context"
	"time"

	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EstimationHandler handles quotation API endpoints
type EstimationHandler struct {
	BaseHandler
	estimationService *salesapp.EstimationService
}

// NewEstimationHandler creates a new EstimationHandler
func NewEstimationHandler(estimationService *salesapp.EstimationService) *EstimationHandler {
	return &EstimationHandler{estimationService: estimationService}
}

// estimationListRequest carries the quotation listing filters. FollowUpOn
// filters quotations whose follow-up falls on that day (YYYY-MM-DD).
type estimationListRequest struct {
	dto.ListRequest
	LeadID     string `form:"lead_id"`
	FollowUpOn string `form:"follow_up_on"`
}

// Create handles POST /estimations
func (h *EstimationHandler) Create(c *gin.Context) {
	var req salesapp.CreateEstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.estimationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /estimations/:id
func (h *EstimationHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	resp, err := h.estimationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /estimations
func (h *EstimationHandler) List(c *gin.Context) {
	var req estimationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := sales.EstimationFilter{
		Status: sales.EstimationStatus(req.Status),
		Query:  req.Search,
		Offset: req.Offset(),
		Limit:  req.PageSize,
	}
	if req.LeadID != "" {
		leadID, err := uuid.Parse(req.LeadID)
		if err != nil {
			h.BadRequest(c, "Invalid lead ID")
			return
		}
		filter.LeadID = &leadID
	}
	if req.FollowUpOn != "" {
		day, err := time.Parse("2006-01-02", req.FollowUpOn)
		if err != nil {
			h.BadRequest(c, "Invalid follow-up date, expected YYYY-MM-DD")
			return
		}
		filter.FollowUpOn = &day
	}

	ests, total, err := h.estimationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, ests, total, req.Page, req.PageSize)
}

// Update handles PUT /estimations/:id
func (h *EstimationHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	var req salesapp.UpdateEstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.estimationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve handles POST /estimations/:id/approve
func (h *EstimationHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	var req salesapp.ApproveEstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.estimationService.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.Created {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}

// Reject handles POST /estimations/:id/reject
func (h *EstimationHandler) Reject(c *gin.Context) {
	h.decide(c, h.estimationService.Reject)
}

// MarkLost handles POST /estimations/:id/lost
func (h *EstimationHandler) MarkLost(c *gin.Context) {
	h.decide(c, h.estimationService.MarkLost)
}

func (h *EstimationHandler) decide(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, req salesapp.ReasonRequest) (*salesapp.EstimationResponse, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	var req salesapp.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := fn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkUnderReview handles POST /estimations/:id/under-review
func (h *EstimationHandler) MarkUnderReview(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	var req salesapp.UnderReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.estimationService.MarkUnderReview(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ScheduleFollowUp handles POST /estimations/:id/follow-up
func (h *EstimationHandler) ScheduleFollowUp(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	var req salesapp.FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.estimationService.ScheduleFollowUp(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
