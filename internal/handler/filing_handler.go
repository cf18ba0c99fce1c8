package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FilingHandler handles year-end filing endpoints.
type FilingHandler struct {
	filingService service.FilingService
}

// NewFilingHandler creates a new FilingHandler.
func NewFilingHandler(filingService service.FilingService) *FilingHandler {
	return &FilingHandler{filingService: filingService}
}

type exportRequest struct {
	TaxYear   int               `json:"tax_year" binding:"required"`
	PayeeType *domain.PayeeType `json:"payee_type"`
}

type bulkFileRequest struct {
	FormIDs      []string `json:"form_ids" binding:"required,min=1"`
	Confirmation string   `json:"confirmation" binding:"required"`
}

// Validate handles GET /api/v1/tax/filing/validate?year=&payee_type=
func (h *FilingHandler) Validate(c *gin.Context) {
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

	result, err := h.filingService.ValidateForFiling(c.Request.Context(), tenantID, year, payeeType)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Export handles POST /api/v1/tax/filing/export
// @Summary Generate the IRIS bulk-upload file
// @Description Returns a CSV of every approved form for the year. Forms that cannot be exported are listed in X-Export-Skipped.
// @Tags filing
// @Produce text/csv
// @Router /tax/filing/export [post]
func (h *FilingHandler) Export(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	export, err := h.filingService.GenerateFilingExport(c.Request.Context(), tenantID, req.TaxYear, req.PayeeType, actor)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="1099-iris-%d.csv"`, req.TaxYear))
	c.Header("X-Export-Form-Count", strconv.Itoa(len(export.FormIDs)))
	c.Header("X-Export-Skipped", strconv.Itoa(len(export.Warnings)))
	if export.ArchiveKey != "" {
		c.Header("X-Archive-Key", export.ArchiveKey)
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", export.CSV)
}

// MarkFiledBulk handles POST /api/v1/tax/filing/mark-filed
func (h *FilingHandler) MarkFiledBulk(c *gin.Context) {
	tenantID, actor, ok := authContext(c)
	if !ok {
		return
	}

	var req bulkFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.filingService.MarkFiledBulk(c.Request.Context(), tenantID, req.FormIDs, req.Confirmation, actor)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Workbook handles GET /api/v1/tax/filing/workbook?year=&payee_type=
func (h *FilingHandler) Workbook(c *gin.Context) {
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

	data, err := h.filingService.GenerateReviewWorkbook(c.Request.Context(), tenantID, year, payeeType)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="1099-review-%d.xlsx"`, year))
	c.Data(http.StatusOK, workbookContentType, data)
}

// ArchiveURL handles GET /api/v1/tax/filing/archive-url?key=
func (h *FilingHandler) ArchiveURL(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	key := c.Query("key")
	if key == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "key query parameter is required")
		return
	}

	url, err := h.filingService.ArchiveDownloadURL(c.Request.Context(), tenantID, key)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
