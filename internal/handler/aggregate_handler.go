package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// AggregateHandler exposes payment aggregation and threshold reports.
type AggregateHandler struct {
	aggregationService service.AggregationService
}

// NewAggregateHandler creates a new AggregateHandler.
func NewAggregateHandler(aggregationService service.AggregationService) *AggregateHandler {
	return &AggregateHandler{aggregationService: aggregationService}
}

type annualTotalResponse struct {
	PayeeType        domain.PayeeType `json:"payee_type"`
	PayeeID          string           `json:"payee_id"`
	TaxYear          int              `json:"tax_year"`
	TotalCents       int64            `json:"total_cents"`
	MeetsThreshold   bool             `json:"meets_threshold"`
	PercentThreshold int              `json:"percent_of_threshold"`
}

// AnnualTotal handles GET /api/v1/tax/aggregates/:type/payees/:id/annual?year=
func (h *AggregateHandler) AnnualTotal(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}
	payeeID := c.Param("id")

	total, err := h.aggregationService.AnnualTotal(c.Request.Context(), tenantID, payeeType, payeeID, year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, annualTotalResponse{
		PayeeType:        payeeType,
		PayeeID:          payeeID,
		TaxYear:          year,
		TotalCents:       total,
		MeetsThreshold:   domain.MeetsThreshold(total),
		PercentThreshold: domain.PercentOfThreshold(total),
	})
}

// MonthlyBreakdown handles GET /api/v1/tax/aggregates/:type/payees/:id/monthly?year=
func (h *AggregateHandler) MonthlyBreakdown(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}

	months, err := h.aggregationService.MonthlyBreakdown(c.Request.Context(), tenantID, payeeType, c.Param("id"), year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, months)
}

// Requiring1099 handles GET /api/v1/tax/aggregates/:type/requiring-1099?year=
func (h *AggregateHandler) Requiring1099(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}

	payees, err := h.aggregationService.PayeesRequiring1099(c.Request.Context(), tenantID, payeeType, year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payees)
}

// Approaching handles GET /api/v1/tax/aggregates/:type/approaching?year=&min_percent=
func (h *AggregateHandler) Approaching(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}
	minPercent, err := strconv.Atoi(c.DefaultQuery("min_percent", strconv.Itoa(domain.DefaultApproachingPercent)))
	if err != nil || minPercent < 0 || minPercent > 100 {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "min_percent must be between 0 and 100")
		return
	}

	payees, err := h.aggregationService.PayeesApproachingThreshold(c.Request.Context(), tenantID, payeeType, year, minPercent)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payees)
}

// MissingW9 handles GET /api/v1/tax/aggregates/:type/missing-w9?year=
func (h *AggregateHandler) MissingW9(c *gin.Context) {
	tenantID, _, ok := authContext(c)
	if !ok {
		return
	}
	payeeType, ok := payeeTypeParam(c)
	if !ok {
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}

	payees, err := h.aggregationService.PayeesMissingW9(c.Request.Context(), tenantID, payeeType, year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payees)
}

// Statistics handles GET /api/v1/tax/statistics?year=&payee_type=
func (h *AggregateHandler) Statistics(c *gin.Context) {
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

	stats, err := h.aggregationService.YearStatistics(c.Request.Context(), tenantID, year, payeeType)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
