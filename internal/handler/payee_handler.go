package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// PayeeHandler handles W-9 intake and TIN access endpoints.
type PayeeHandler struct {
	payeeService service.PayeeService
}

// NewPayeeHandler creates a new PayeeHandler.
func NewPayeeHandler(payeeService service.PayeeService) *PayeeHandler {
	return &PayeeHandler{payeeService: payeeService}
}

type submitW9Request struct {
	LegalName         string                   `json:"legal_name" binding:"required"`
	BusinessName      string                   `json:"business_name"`
	TaxClassification domain.TaxClassification `json:"tax_classification" binding:"required"`
	Address           domain.Address           `json:"address"`
	Email             string                   `json:"email"`
	TINType           domain.TINType           `json:"tin_type" binding:"required"`
	TIN               string                   `json:"tin" binding:"required"`
	CertifiedName     string                   `json:"certified_name" binding:"required"`
	EDeliveryConsent  bool                     `json:"e_delivery_consent"`
}

type revealTINRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SubmitW9 handles POST /api/v1/tax/payees/:type/:id/w9
// @Summary Submit a W-9
// @Description Records a certified W-9 for the payee, superseding any previous submission
// @Tags payees
// @Accept json
// @Produce json
// @Param type path string true "Payee type"
// @Param id path string true "Payee ID"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /tax/payees/{type}/{id}/w9 [post]
func (h *PayeeHandler) SubmitW9(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}

	var req submitW9Request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	payee, err := h.payeeService.SubmitW9(c.Request.Context(), &service.SubmitW9Input{
		TenantID:          tenantID,
		PayeeID:           c.Param("id"),
		PayeeType:         payeeType,
		LegalName:         req.LegalName,
		BusinessName:      req.BusinessName,
		TaxClassification: req.TaxClassification,
		Address:           req.Address,
		Email:             req.Email,
		TINType:           req.TINType,
		TIN:               req.TIN,
		CertifiedName:     req.CertifiedName,
		CertifiedIP:       c.ClientIP(),
		EDeliveryConsent:  req.EDeliveryConsent,
		Actor:             actor,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, payee)
}

// Get handles GET /api/v1/tax/payees/:type/:id
func (h *PayeeHandler) Get(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}

	payee, err := h.payeeService.GetPayee(c.Request.Context(), tenantID, payeeType, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payee)
}

// RevealTIN handles POST /api/v1/tax/payees/:type/:id/tin/reveal
// @Summary Reveal a payee TIN
// @Description Decrypts the full TIN. Every call is written to the audit log.
// @Tags payees
// @Router /tax/payees/{type}/{id}/tin/reveal [post]
func (h *PayeeHandler) RevealTIN(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}

	var req revealTINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tin, err := h.payeeService.RevealTIN(c.Request.Context(), tenantID, payeeType, c.Param("id"), actor, req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	RespondOK(c, gin.H{"tin": tin})
}

// ListAudit handles GET /api/v1/tax/payees/:type/:id/audit
func (h *PayeeHandler) ListAudit(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}
	offset, limit := pageQuery(c)

	entries, total, err := h.payeeService.ListAudit(c.Request.Context(), tenantID, payeeType, c.Param("id"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}
