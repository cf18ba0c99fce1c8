package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
	"taxfiling/internal/service"
	"taxfiling/mocks"
)

func newW9TrackingService() (service.W9TrackingService, *mocks.MockW9TrackingRepo, *mocks.MockTaxPayeeRepo, *mocks.MockEmailSender) {
	trackingRepo := new(mocks.MockW9TrackingRepo)
	payeeRepo := new(mocks.MockTaxPayeeRepo)
	sender := new(mocks.MockEmailSender)
	return service.NewW9TrackingService(trackingRepo, payeeRepo, sender, nil), trackingRepo, payeeRepo, sender
}

func TestW9TrackingService_RecordReminder_ExplicitContact(t *testing.T) {
	svc, trackingRepo, payeeRepo, sender := newW9TrackingService()
	tenantID := uuid.New()
	sent := time.Now()

	sender.On("SendW9Reminder", mock.Anything, port.W9Reminder{
		ToEmail: "pat@example.com", ToName: "Pat", PayeeType: domain.PayeeTypeContractor,
		Stage: domain.W9StageReminder1, TaxYear: 2024,
	}).Return(nil)
	trackingRepo.On("RecordStage", mock.Anything, tenantID, domain.PayeeTypeContractor, "c-1", domain.W9StageReminder1, mock.AnythingOfType("time.Time")).Return(nil)
	trackingRepo.On("Get", mock.Anything, tenantID, domain.PayeeTypeContractor, "c-1").
		Return(&domain.W9ComplianceTracking{PayeeID: "c-1", Reminder1SentAt: &sent}, nil)

	state, err := svc.RecordReminder(context.Background(), &service.RecordReminderInput{
		TenantID: tenantID, PayeeType: domain.PayeeTypeContractor, PayeeID: "c-1",
		Stage: domain.W9StageReminder1, Email: "pat@example.com", Name: "Pat", TaxYear: 2024,
	})

	require.NoError(t, err)
	assert.NotNil(t, state.Reminder1SentAt)
	payeeRepo.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sender.AssertExpectations(t)
}

func TestW9TrackingService_RecordReminder_FallsBackToPayeeEmail(t *testing.T) {
	svc, trackingRepo, payeeRepo, sender := newW9TrackingService()
	tenantID := uuid.New()

	payeeRepo.On("GetActive", mock.Anything, tenantID, domain.PayeeTypeVendor, "v-1").
		Return(&domain.TaxPayee{PayeeID: "v-1", LegalName: "Vic", Email: "vic@example.com"}, nil)
	sender.On("SendW9Reminder", mock.Anything, mock.MatchedBy(func(r port.W9Reminder) bool {
		return r.ToEmail == "vic@example.com" && r.ToName == "Vic"
	})).Return(nil)
	trackingRepo.On("RecordStage", mock.Anything, tenantID, domain.PayeeTypeVendor, "v-1", domain.W9StageInitial, mock.Anything).Return(nil)
	trackingRepo.On("Get", mock.Anything, tenantID, domain.PayeeTypeVendor, "v-1").Return(&domain.W9ComplianceTracking{PayeeID: "v-1"}, nil)

	_, err := svc.RecordReminder(context.Background(), &service.RecordReminderInput{
		TenantID: tenantID, PayeeType: domain.PayeeTypeVendor, PayeeID: "v-1", Stage: domain.W9StageInitial, TaxYear: 2024,
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestW9TrackingService_RecordReminder_NoContact(t *testing.T) {
	svc, trackingRepo, payeeRepo, sender := newW9TrackingService()
	tenantID := uuid.New()

	payeeRepo.On("GetActive", mock.Anything, tenantID, domain.PayeeTypeVendor, "v-1").Return(nil, domain.ErrPayeeNotFound)

	_, err := svc.RecordReminder(context.Background(), &service.RecordReminderInput{
		TenantID: tenantID, PayeeType: domain.PayeeTypeVendor, PayeeID: "v-1", Stage: domain.W9StageInitial,
	})

	assert.ErrorIs(t, err, domain.ErrPayeeContactMissing)
	sender.AssertNotCalled(t, "SendW9Reminder", mock.Anything, mock.Anything)
	trackingRepo.AssertNotCalled(t, "RecordStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestW9TrackingService_RecordReminder_SendFailureNotRecorded(t *testing.T) {
	svc, trackingRepo, _, sender := newW9TrackingService()

	sender.On("SendW9Reminder", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := svc.RecordReminder(context.Background(), &service.RecordReminderInput{
		TenantID: uuid.New(), PayeeType: domain.PayeeTypeCreator, PayeeID: "c", Stage: domain.W9StageFinalNotice, Email: "c@example.com",
	})

	assert.Error(t, err)
	trackingRepo.AssertNotCalled(t, "RecordStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestW9TrackingService_RecordReminder_UnknownStage(t *testing.T) {
	svc, _, _, _ := newW9TrackingService()

	_, err := svc.RecordReminder(context.Background(), &service.RecordReminderInput{
		TenantID: uuid.New(), PayeeType: domain.PayeeTypeCreator, PayeeID: "c", Stage: "reminder_9", Email: "c@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidReminderStage)
}

func TestW9TrackingService_Flag(t *testing.T) {
	svc, trackingRepo, _, _ := newW9TrackingService()
	tenantID := uuid.New()

	_, err := svc.Flag(context.Background(), tenantID, domain.PayeeTypeCreator, "c", "")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	trackingRepo.On("Flag", mock.Anything, tenantID, domain.PayeeTypeCreator, "c", "no response after final notice", mock.Anything).Return(nil)
	trackingRepo.On("Get", mock.Anything, tenantID, domain.PayeeTypeCreator, "c").
		Return(&domain.W9ComplianceTracking{PayeeID: "c", FlagReason: "no response after final notice"}, nil)

	state, err := svc.Flag(context.Background(), tenantID, domain.PayeeTypeCreator, "c", "no response after final notice")

	require.NoError(t, err)
	assert.Equal(t, "no response after final notice", state.FlagReason)
}
