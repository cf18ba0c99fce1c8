package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// W9Handler handles W-9 collection tracking endpoints.
type W9Handler struct {
	trackingService service.W9TrackingService
}

// NewW9Handler creates a new W9Handler.
func NewW9Handler(trackingService service.W9TrackingService) *W9Handler {
	return &W9Handler{trackingService: trackingService}
}

type reminderRequest struct {
	Stage   domain.W9ReminderStage `json:"stage" binding:"required"`
	Email   string                 `json:"email"`
	Name    string                 `json:"name"`
	TaxYear int                    `json:"tax_year"`
}

// Get handles GET /api/v1/tax/w9/:type/:id
func (h *W9Handler) Get(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}

	tracking, err := h.trackingService.Get(c.Request.Context(), tenantID, payeeType, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tracking)
}

// SendReminder handles POST /api/v1/tax/w9/:type/:id/reminders
func (h *W9Handler) SendReminder(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tracking, err := h.trackingService.RecordReminder(c.Request.Context(), &service.RecordReminderInput{
		TenantID:  tenantID,
		PayeeType: payeeType,
		PayeeID:   c.Param("id"),
		Stage:     req.Stage,
		Email:     req.Email,
		Name:      req.Name,
		TaxYear:   req.TaxYear,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tracking)
}

// Flag handles POST /api/v1/tax/w9/:type/:id/flag
func (h *W9Handler) Flag(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tracking, err := h.trackingService.Flag(c.Request.Context(), tenantID, payeeType, c.Param("id"), req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tracking)
}
