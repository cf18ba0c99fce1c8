package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taxfiling/internal/domain"
	"taxfiling/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrFormNotFound, http.StatusNotFound, "FORM_NOT_FOUND"},
		{domain.ErrPayeeNotFound, http.StatusNotFound, "PAYEE_NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", domain.ErrFormAlreadyExists), http.StatusConflict, "FORM_ALREADY_EXISTS"},
		{domain.ErrFormStatusConflict, http.StatusConflict, "STATUS_CONFLICT"},
		{domain.ErrFormNotCorrectable, http.StatusConflict, "FORM_NOT_CORRECTABLE"},
		{domain.ErrInvalidTaxYear, http.StatusBadRequest, "INVALID_TAX_YEAR"},
		{domain.ErrConfirmationRequired, http.StatusBadRequest, "CONFIRMATION_REQUIRED"},
		{domain.ErrPayeeContactMissing, http.StatusUnprocessableEntity, "PAYEE_CONTACT_MISSING"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrInvalidPercent, http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := handler.MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestMapDomainError_TransitionKeepsDetail(t *testing.T) {
	err := fmt.Errorf("%w: draft -> filed", domain.ErrInvalidFormTransition)
	status, _, msg := handler.MapDomainError(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, msg, "draft -> filed")
}

func TestHandleError_InternalHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	handler.HandleError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
