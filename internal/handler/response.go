package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/domain"
	"taxfiling/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidPayeeType):
		return http.StatusBadRequest, "INVALID_PAYEE_TYPE", "payee type must be creator, contractor, merchant or vendor"
	case errors.Is(err, domain.ErrInvalidTaxYear):
		return http.StatusBadRequest, "INVALID_TAX_YEAR", "tax year is out of range"
	case errors.Is(err, domain.ErrPayeeNotFound):
		return http.StatusNotFound, "PAYEE_NOT_FOUND", "no W-9 on file for this payee"
	case errors.Is(err, domain.ErrFormNotFound):
		return http.StatusNotFound, "FORM_NOT_FOUND", "form not found"
	case errors.Is(err, domain.ErrFormAlreadyExists):
		return http.StatusConflict, "FORM_ALREADY_EXISTS", "a live form already exists for this payee and year"
	case errors.Is(err, domain.ErrInvalidFormTransition):
		return http.StatusConflict, "INVALID_TRANSITION", err.Error()
	case errors.Is(err, domain.ErrFormStatusConflict):
		return http.StatusConflict, "STATUS_CONFLICT", "form status changed concurrently; reload and retry"
	case errors.Is(err, domain.ErrFormNotCorrectable):
		return http.StatusConflict, "FORM_NOT_CORRECTABLE", "only filed forms can be corrected"
	case errors.Is(err, domain.ErrNoCorrectionChanges):
		return http.StatusBadRequest, "NO_CORRECTION_CHANGES", "correction does not change any recipient field"
	case errors.Is(err, domain.ErrInvalidBoxAmounts):
		return http.StatusBadRequest, "INVALID_BOX_AMOUNTS", "box amounts must be non-empty and non-negative"
	case errors.Is(err, domain.ErrInvalidTIN):
		return http.StatusBadRequest, "INVALID_TIN", "TIN must contain exactly nine digits"
	case errors.Is(err, domain.ErrInvalidW9):
		return http.StatusBadRequest, "INVALID_W9", err.Error()
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusBadRequest, "CONFIRMATION_REQUIRED", "confirmation number is required"
	case errors.Is(err, domain.ErrActorRequired):
		return http.StatusUnauthorized, "ACTOR_REQUIRED", "actor identity is required"
	case errors.Is(err, domain.ErrReasonRequired):
		return http.StatusBadRequest, "REASON_REQUIRED", "reason is required"
	case errors.Is(err, domain.ErrInvalidDeliveryMethod):
		return http.StatusBadRequest, "INVALID_DELIVERY_METHOD", "delivery method must be email or mail"
	case errors.Is(err, domain.ErrInvalidReminderStage):
		return http.StatusBadRequest, "INVALID_REMINDER_STAGE", "stage must be initial, reminder_1, reminder_2 or final_notice"
	case errors.Is(err, domain.ErrInvalidPercent):
		return http.StatusBadRequest, "VALIDATION_ERROR", "min_percent must be between 0 and 100"
	case errors.Is(err, domain.ErrPayeeContactMissing):
		return http.StatusUnprocessableEntity, "PAYEE_CONTACT_MISSING", "payee has no contact email"
	case errors.Is(err, domain.ErrTINUnavailable):
		return http.StatusNotFound, "TIN_UNAVAILABLE", "no TIN on file"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		zap.L().Named("http").Error("internal error",
			zap.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
			zap.String("route", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}

// authContext extracts tenant ID and actor from the request context.
// Returns false if auth context is missing (error response already written).
func authContext(c *gin.Context) (tenantID uuid.UUID, actor string, ok bool) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, "", false
	}
	return tenantID, middleware.GetActor(c), true
}

// payeeTypeParam reads the :type path parameter.
func payeeTypeParam(c *gin.Context) (domain.PayeeType, bool) {
	pt := domain.PayeeType(c.Param("type"))
	if !pt.Valid() {
		HandleError(c, domain.ErrInvalidPayeeType)
		return "", false
	}
	return pt, true
}

// optionalPayeeType reads the payee_type query parameter; absent means all types.
func optionalPayeeType(c *gin.Context) (*domain.PayeeType, bool) {
	raw := c.Query("payee_type")
	if raw == "" {
		return nil, true
	}
	pt := domain.PayeeType(raw)
	if !pt.Valid() {
		HandleError(c, domain.ErrInvalidPayeeType)
		return nil, false
	}
	return &pt, true
}

// yearQuery reads the required year query parameter.
func yearQuery(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_TAX_YEAR", "year query parameter is required")
		return 0, false
	}
	return year, true
}

// formIDParam reads the :id path parameter.
func formIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid form ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageQuery(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
