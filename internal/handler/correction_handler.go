package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// CorrectionHandler handles corrections of filed forms.
type CorrectionHandler struct {
	correctionService service.CorrectionService
}

// NewCorrectionHandler creates a new CorrectionHandler.
func NewCorrectionHandler(correctionService service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{correctionService: correctionService}
}

type type1Request struct {
	BoxAmounts domain.BoxAmounts `json:"box_amounts" binding:"required"`
	Reason     string            `json:"reason" binding:"required"`
}

type type2Request struct {
	RecipientName        *string         `json:"recipient_name"`
	RecipientAddress     *domain.Address `json:"recipient_address"`
	RecipientTINLastFour *string         `json:"recipient_tin_last_four"`
	Reason               string          `json:"reason" binding:"required"`
}

// CreateType1 handles POST /api/v1/tax/forms/:id/corrections/amount
// @Summary Correct reported amounts
// @Description Issues a new form carrying corrected box amounts. The original stays filed.
// @Tags corrections
// @Router /tax/forms/{id}/corrections/amount [post]
func (h *CorrectionHandler) CreateType1(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req type1Request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.correctionService.CreateType1(c.Request.Context(), &service.Type1CorrectionInput{
		TenantID:       tenantID,
		OriginalFormID: formID,
		BoxAmounts:     req.BoxAmounts,
		Reason:         req.Reason,
		Actor:          actor,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, form)
}

// CreateType2 handles POST /api/v1/tax/forms/:id/corrections/recipient
// @Summary Correct recipient identity
// @Description Marks the original corrected and issues a replacement with the new name, address or TIN.
// @Tags corrections
// @Router /tax/forms/{id}/corrections/recipient [post]
func (h *CorrectionHandler) CreateType2(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req type2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.correctionService.CreateType2(c.Request.Context(), &service.Type2CorrectionInput{
		TenantID:             tenantID,
		OriginalFormID:       formID,
		RecipientName:        req.RecipientName,
		RecipientAddress:     req.RecipientAddress,
		RecipientTINLastFour: req.RecipientTINLastFour,
		Reason:               req.Reason,
		Actor:                actor,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, form)
}
