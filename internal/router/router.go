package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxfiling/internal/auth"
	"taxfiling/internal/domain"
	"taxfiling/internal/handler"
	"taxfiling/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Payee      *handler.PayeeHandler
	Form       *handler.FormHandler
	Correction *handler.CorrectionHandler
	Filing     *handler.FilingHandler
	Aggregate  *handler.AggregateHandler
	W9         *handler.W9Handler
	Health     *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(validator auth.TokenValidator, h Handlers, corsOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// Protected routes - require valid JWT
	tax := r.Group("/api/v1/tax")
	tax.Use(middleware.AuthMiddleware(validator))
	admin := middleware.RequireRole(domain.RoleAdmin)

	payees := tax.Group("/payees/:type/:id")
	payees.GET("", h.Payee.Get)
	payees.POST("/w9", h.Payee.SubmitW9)
	payees.POST("/tin/reveal", admin, h.Payee.RevealTIN)
	payees.GET("/audit", h.Payee.ListAudit)

	aggregates := tax.Group("/aggregates/:type")
	aggregates.GET("/payees/:id/annual", h.Aggregate.AnnualTotal)
	aggregates.GET("/payees/:id/monthly", h.Aggregate.MonthlyBreakdown)
	aggregates.GET("/requiring-1099", h.Aggregate.Requiring1099)
	aggregates.GET("/approaching", h.Aggregate.Approaching)
	aggregates.GET("/missing-w9", h.Aggregate.MissingW9)
	tax.GET("/statistics", h.Aggregate.Statistics)

	forms := tax.Group("/forms")
	forms.POST("", h.Form.Create)
	forms.GET("", h.Form.List)
	forms.GET("/:id", h.Form.Get)
	forms.GET("/:id/audit", h.Form.ListAudit)
	forms.POST("/:id/submit", h.Form.Submit)
	forms.POST("/:id/approve", admin, h.Form.Approve)
	forms.POST("/:id/file", admin, h.Form.MarkFiled)
	forms.POST("/:id/state-file", admin, h.Form.MarkStateFiled)
	forms.POST("/:id/deliver", h.Form.MarkDelivered)
	forms.POST("/:id/void", admin, h.Form.Void)
	forms.POST("/:id/corrections/amount", admin, h.Correction.CreateType1)
	forms.POST("/:id/corrections/recipient", admin, h.Correction.CreateType2)

	filing := tax.Group("/filing")
	filing.GET("/validate", h.Filing.Validate)
	filing.GET("/workbook", h.Filing.Workbook)
	filing.POST("/export", admin, h.Filing.Export)
	filing.POST("/mark-filed", admin, h.Filing.MarkFiledBulk)
	filing.GET("/archive-url", admin, h.Filing.ArchiveURL)

	w9 := tax.Group("/w9/:type/:id")
	w9.GET("", h.W9.Get)
	w9.POST("/reminders", admin, h.W9.SendReminder)
	w9.POST("/flag", admin, h.W9.Flag)

	return r
}
