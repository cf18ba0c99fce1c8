package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/handler"
	"taxfiling/internal/service"
	"taxfiling/mocks"
)

func newW9Handler() (*handler.W9Handler, *mocks.MockW9TrackingService) {
	mockSvc := new(mocks.MockW9TrackingService)
	return handler.NewW9Handler(mockSvc), mockSvc
}

func TestW9Handler_SendReminder(t *testing.T) {
	h, mockSvc := newW9Handler()
	c, w, tenantID := newAuthedContext(http.MethodPost, "/", map[string]interface{}{
		"stage":    "reminder_1",
		"tax_year": 2024,
	}, param("type", "creator"), param("id", "c-1"))

	sent := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	mockSvc.On("RecordReminder", mock.Anything, &service.RecordReminderInput{
		TenantID:  tenantID,
		PayeeType: domain.PayeeTypeCreator,
		PayeeID:   "c-1",
		Stage:     domain.W9StageReminder1,
		TaxYear:   2024,
	}).Return(&domain.W9ComplianceTracking{PayeeID: "c-1", Reminder1SentAt: &sent}, nil)

	h.SendReminder(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestW9Handler_SendReminder_NoContact(t *testing.T) {
	h, mockSvc := newW9Handler()
	c, w, _ := newAuthedContext(http.MethodPost, "/", map[string]interface{}{"stage": "initial"},
		param("type", "creator"), param("id", "c-2"))

	mockSvc.On("RecordReminder", mock.Anything, mock.Anything).Return(nil, domain.ErrPayeeContactMissing)

	h.SendReminder(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestW9Handler_Flag(t *testing.T) {
	h, mockSvc := newW9Handler()
	c, w, tenantID := newAuthedContext(http.MethodPost, "/", map[string]string{"reason": "no response after final notice"},
		param("type", "contractor"), param("id", "k-1"))

	mockSvc.On("Flag", mock.Anything, tenantID, domain.PayeeTypeContractor, "k-1", "no response after final notice").
		Return(&domain.W9ComplianceTracking{PayeeID: "k-1", FlagReason: "no response after final notice"}, nil)

	h.Flag(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestW9Handler_Get_InvalidType(t *testing.T) {
	h, _ := newW9Handler()
	c, w, _ := newAuthedContext(http.MethodGet, "/", nil, param("type", "staff"), param("id", "s-1"))

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
