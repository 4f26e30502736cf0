package handler

import (
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChallanHandler handles delivery challan API endpoints
type ChallanHandler struct {
	BaseHandler
	challanService *salesapp.ChallanService
}

// NewChallanHandler creates a new ChallanHandler
func NewChallanHandler(challanService *salesapp.ChallanService) *ChallanHandler {
	return &ChallanHandler{challanService: challanService}
}

// Create handles POST /challans
func (h *ChallanHandler) Create(c *gin.Context) {
	var req salesapp.CreateChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.challanService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /challans/:id
func (h *ChallanHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid challan ID")
		return
	}

	resp, err := h.challanService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByEstimation handles GET /estimations/:id/challans
func (h *ChallanHandler) ListByEstimation(c *gin.Context) {
	estimationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	resp, err := h.challanService.ListByEstimation(c.Request.Context(), estimationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemainingQuantities handles GET /estimations/:id/remaining-quantities
func (h *ChallanHandler) RemainingQuantities(c *gin.Context) {
	estimationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid estimation ID")
		return
	}

	resp, err := h.challanService.RemainingQuantities(c.Request.Context(), estimationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
