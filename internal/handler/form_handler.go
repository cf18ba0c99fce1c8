package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// FormHandler handles 1099 form lifecycle endpoints.
type FormHandler struct {
	formService service.FormService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

type createFormRequest struct {
	PayeeType domain.PayeeType `json:"payee_type" binding:"required"`
	PayeeID   string           `json:"payee_id" binding:"required"`
	TaxYear   int              `json:"tax_year" binding:"required"`
}

type confirmationRequest struct {
	Confirmation string `json:"confirmation" binding:"required"`
}

type deliverRequest struct {
	Method domain.DeliveryMethod `json:"method" binding:"required"`
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Create handles POST /api/v1/tax/forms
// @Summary Create a draft 1099
// @Description Snapshots the payee's annual total and W-9 into a new draft form
// @Tags forms
// @Accept json
// @Produce json
// @Success 201 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /tax/forms [post]
func (h *FormHandler) Create(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}

	var req createFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.formService.CreateDraft(c.Request.Context(), &service.CreateDraftInput{
		TenantID:  tenantID,
		PayeeType: req.PayeeType,
		PayeeID:   req.PayeeID,
		TaxYear:   req.TaxYear,
		Actor:     actor,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, form)
}

// List handles GET /api/v1/tax/forms?year=&status=&payee_type=
func (h *FormHandler) List(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}
	payeeType, ok := optionalPayeeType(c)
	if !ok {
		return
	}
	offset, limit := pageQuery(c)

	filter := domain.FormFilter{TaxYear: year, PayeeType: payeeType, Offset: offset, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status := domain.FormStatus(raw)
		if !status.Valid() {
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "unknown form status")
			return
		}
		filter.Status = &status
	}

	forms, total, err := h.formService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, forms, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/tax/forms/:id
func (h *FormHandler) Get(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	form, err := h.formService.Get(c.Request.Context(), tenantID, formID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// Submit handles POST /api/v1/tax/forms/:id/submit
func (h *FormHandler) Submit(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	form, err := h.formService.SubmitForReview(c.Request.Context(), tenantID, formID, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// Approve handles POST /api/v1/tax/forms/:id/approve
func (h *FormHandler) Approve(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	form, err := h.formService.Approve(c.Request.Context(), tenantID, formID, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// MarkFiled handles POST /api/v1/tax/forms/:id/file
func (h *FormHandler) MarkFiled(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req confirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.formService.MarkFiled(c.Request.Context(), tenantID, formID, req.Confirmation, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// MarkStateFiled handles POST /api/v1/tax/forms/:id/state-file
func (h *FormHandler) MarkStateFiled(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req confirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.formService.MarkStateFiled(c.Request.Context(), tenantID, formID, req.Confirmation, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// MarkDelivered handles POST /api/v1/tax/forms/:id/deliver
func (h *FormHandler) MarkDelivered(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req deliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.formService.MarkDelivered(c.Request.Context(), tenantID, formID, req.Method, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// Void handles POST /api/v1/tax/forms/:id/void
func (h *FormHandler) Void(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	form, err := h.formService.Void(c.Request.Context(), tenantID, formID, req.Reason, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, form)
}

// ListAudit handles GET /api/v1/tax/forms/:id/audit
func (h *FormHandler) ListAudit(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}
	offset, limit := pageQuery(c)

	entries, total, err := h.formService.ListAudit(c.Request.Context(), tenantID, formID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}
