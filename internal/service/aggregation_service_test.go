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

	"taxfiling/internal/cache"
	"taxfiling/internal/domain"
	"taxfiling/internal/service"
	"taxfiling/mocks"
)

type aggregationDeps struct {
	ledgerRepo *mocks.MockLedgerRepo
	payeeRepo  *mocks.MockTaxPayeeRepo
	formRepo   *mocks.MockTaxFormRepo
}

func newAggregation(c cache.Cache) (service.AggregationService, aggregationDeps) {
	d := aggregationDeps{
		ledgerRepo: new(mocks.MockLedgerRepo),
		payeeRepo:  new(mocks.MockTaxPayeeRepo),
		formRepo:   new(mocks.MockTaxFormRepo),
	}
	return service.NewAggregationService(d.ledgerRepo, d.payeeRepo, d.formRepo, c, time.Minute, nil), d
}

func certifiedPayee(id string, pt domain.PayeeType) domain.TaxPayee {
	now := time.Now()
	return domain.TaxPayee{ID: uuid.New(), PayeeID: id, PayeeType: pt, W9CertifiedAt: &now, TINEncrypted: "v1:x"}
}

func TestAggregationService_AnnualTotal_CreatorScenario(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	d.ledgerRepo.On("AnnualTotal", mock.Anything, tenantID, domain.PayeeTypeCreator, "creator-1", 2024).
		Return(int64(45000), nil)

	total, err := svc.AnnualTotal(context.Background(), tenantID, domain.PayeeTypeCreator, "creator-1", 2024)

	require.NoError(t, err)
	assert.Equal(t, int64(45000), total)
}

func TestAggregationService_AnnualTotal_RejectsUnknownTypeAndYear(t *testing.T) {
	svc, d := newAggregation(nil)

	_, err := svc.AnnualTotal(context.Background(), uuid.New(), "employee", "x", 2024)
	assert.ErrorIs(t, err, domain.ErrInvalidPayeeType)

	_, err = svc.AnnualTotal(context.Background(), uuid.New(), domain.PayeeTypeVendor, "x", 1850)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxYear)

	d.ledgerRepo.AssertNotCalled(t, "AnnualTotal")
}

func TestAggregationService_MonthlyBreakdown(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	d.ledgerRepo.On("MonthlyBreakdown", mock.Anything, tenantID, domain.PayeeTypeContractor, "c-1", 2024).
		Return(map[int]int64{1: 10000, 3: 25000}, nil)

	months, err := svc.MonthlyBreakdown(context.Background(), tenantID, domain.PayeeTypeContractor, "c-1", 2024)

	require.NoError(t, err)
	assert.Len(t, months, 2)
	assert.Equal(t, int64(10000), months[1])
	assert.Equal(t, int64(25000), months[3])
}

func TestAggregationService_MonthlyBreakdown_NoActivity(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	d.ledgerRepo.On("MonthlyBreakdown", mock.Anything, tenantID, domain.PayeeTypeVendor, "v-1", 2024).
		Return(nil, nil)

	months, err := svc.MonthlyBreakdown(context.Background(), tenantID, domain.PayeeTypeVendor, "v-1", 2024)

	require.NoError(t, err)
	assert.NotNil(t, months)
	assert.Empty(t, months)
}

func TestAggregationService_RequiringAndApproachingBands(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	totals := []domain.PayeeTotal{
		{PayeeID: "a", TotalCents: 30000},
		{PayeeID: "b", TotalCents: 60000},
		{PayeeID: "c", TotalCents: 29999},
		{PayeeID: "d", TotalCents: 90000},
		{PayeeID: "e", TotalCents: 59999},
	}
	d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, domain.PayeeTypeContractor, 2024).Return(totals, nil)
	d.payeeRepo.On("ListActiveByType", mock.Anything, tenantID, domain.PayeeTypeContractor).
		Return([]domain.TaxPayee{certifiedPayee("b", domain.PayeeTypeContractor)}, nil)

	requiring, err := svc.PayeesRequiring1099(context.Background(), tenantID, domain.PayeeTypeContractor, 2024)
	require.NoError(t, err)
	require.Len(t, requiring, 2)
	assert.Equal(t, "d", requiring[0].PayeeID)
	assert.Equal(t, "b", requiring[1].PayeeID)
	assert.True(t, requiring[1].HasW9)
	assert.True(t, requiring[1].W9Certified)
	assert.Equal(t, 100, requiring[1].PercentOfThreshold)
	assert.False(t, requiring[0].HasW9)

	approaching, err := svc.PayeesApproachingThreshold(context.Background(), tenantID, domain.PayeeTypeContractor, 2024, domain.DefaultApproachingPercent)
	require.NoError(t, err)
	require.Len(t, approaching, 2)
	assert.Equal(t, "e", approaching[0].PayeeID)
	assert.Equal(t, "a", approaching[1].PayeeID)
	assert.Equal(t, 50, approaching[1].PercentOfThreshold)
}

func TestAggregationService_ApproachingZeroPercentCoversWholeBand(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, domain.PayeeTypeCreator, 2024).Return([]domain.PayeeTotal{
		{PayeeID: "small", TotalCents: 10000},
		{PayeeID: "mid", TotalCents: 45000},
		{PayeeID: "over", TotalCents: 60000},
	}, nil)
	d.payeeRepo.On("ListActiveByType", mock.Anything, tenantID, domain.PayeeTypeCreator).Return([]domain.TaxPayee{}, nil)

	approaching, err := svc.PayeesApproachingThreshold(context.Background(), tenantID, domain.PayeeTypeCreator, 2024, 0)

	require.NoError(t, err)
	require.Len(t, approaching, 2)
	assert.Equal(t, "mid", approaching[0].PayeeID)
	assert.Equal(t, "small", approaching[1].PayeeID)
}

func TestAggregationService_ApproachingRejectsOutOfRangePercent(t *testing.T) {
	svc, d := newAggregation(nil)

	_, err := svc.PayeesApproachingThreshold(context.Background(), uuid.New(), domain.PayeeTypeCreator, 2024, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidPercent)

	_, err = svc.PayeesApproachingThreshold(context.Background(), uuid.New(), domain.PayeeTypeCreator, 2024, 101)
	assert.ErrorIs(t, err, domain.ErrInvalidPercent)
	d.ledgerRepo.AssertNotCalled(t, "PayeeTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregationService_RequiringTiesOrderedByPayeeID(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, domain.PayeeTypeVendor, 2024).Return([]domain.PayeeTotal{
		{PayeeID: "z", TotalCents: 70000},
		{PayeeID: "m", TotalCents: 70000},
	}, nil)
	d.payeeRepo.On("ListActiveByType", mock.Anything, tenantID, domain.PayeeTypeVendor).Return([]domain.TaxPayee{}, nil)

	out, err := svc.PayeesRequiring1099(context.Background(), tenantID, domain.PayeeTypeVendor, 2024)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "m", out[0].PayeeID)
	assert.Equal(t, "z", out[1].PayeeID)
}

func TestAggregationService_PayeesMissingW9(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, domain.PayeeTypeMerchant, 2024).Return([]domain.PayeeTotal{
		{PayeeID: "m1", TotalCents: 100},
		{PayeeID: "m2", TotalCents: 200000},
	}, nil)
	d.payeeRepo.On("ListActiveByType", mock.Anything, tenantID, domain.PayeeTypeMerchant).
		Return([]domain.TaxPayee{{PayeeID: "m1", PayeeType: domain.PayeeTypeMerchant}}, nil)

	out, err := svc.PayeesMissingW9(context.Background(), tenantID, domain.PayeeTypeMerchant, 2024)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m2", out[0].PayeeID)
}

func expectTypeSummaries(d aggregationDeps, tenantID uuid.UUID, totals map[domain.PayeeType][]domain.PayeeTotal, payees map[domain.PayeeType][]domain.TaxPayee) {
	for _, pt := range domain.PayeeTypes {
		t := totals[pt]
		if t == nil {
			t = []domain.PayeeTotal{}
		}
		p := payees[pt]
		if p == nil {
			p = []domain.TaxPayee{}
		}
		d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, pt, 2024).Return(t, nil)
		d.payeeRepo.On("ListActiveByType", mock.Anything, tenantID, pt).Return(p, nil)
	}
}

func TestAggregationService_YearStatistics_AllTypes(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()

	expectTypeSummaries(d, tenantID,
		map[domain.PayeeType][]domain.PayeeTotal{
			domain.PayeeTypeCreator:    {{PayeeID: "p-1", TotalCents: 70000}, {PayeeID: "p-2", TotalCents: 35000}},
			domain.PayeeTypeContractor: {{PayeeID: "p-1", TotalCents: 80000}},
			domain.PayeeTypeVendor:     {{PayeeID: "v-1", TotalCents: 100}},
		},
		map[domain.PayeeType][]domain.TaxPayee{
			domain.PayeeTypeCreator:    {certifiedPayee("p-1", domain.PayeeTypeCreator), {PayeeID: "p-2"}},
			domain.PayeeTypeContractor: {certifiedPayee("p-1", domain.PayeeTypeContractor)},
		})
	d.formRepo.On("CountByStatus", mock.Anything, tenantID, 2024, (*domain.PayeeType)(nil)).Return([]domain.FormStatusCount{
		{Status: domain.FormStatusDraft, Count: 2},
		{Status: domain.FormStatusFiled, Count: 1},
	}, nil)

	stats, err := svc.YearStatistics(context.Background(), tenantID, 2024, nil)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalPayees)
	assert.Equal(t, 3, stats.UniquePayeeIDs)
	assert.Equal(t, []string{"p-1"}, stats.SharedPayeeIDs)
	assert.Equal(t, 2, stats.W9Certified)
	assert.Equal(t, 1, stats.W9Pending)
	assert.Equal(t, 1, stats.W9Missing)
	assert.Equal(t, 2, stats.Requiring1099)
	assert.Equal(t, 1, stats.Approaching1099)
	assert.Equal(t, int64(150000), stats.TotalReportableCents)
	assert.Equal(t, 2, stats.Forms[domain.FormStatusDraft])
	assert.Equal(t, 1, stats.Forms[domain.FormStatusFiled])
}

func TestAggregationService_YearStatistics_CachedUntilInvalidated(t *testing.T) {
	svc, d := newAggregation(cache.NewMemory())
	tenantID := uuid.New()
	vendor := domain.PayeeTypeVendor

	d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, vendor, 2024).
		Return([]domain.PayeeTotal{{PayeeID: "v-1", TotalCents: 65000}}, nil)
	d.payeeRepo.On("ListActiveByType", mock.Anything, tenantID, vendor).Return([]domain.TaxPayee{}, nil)
	d.formRepo.On("CountByStatus", mock.Anything, tenantID, 2024, &vendor).Return([]domain.FormStatusCount{}, nil)

	first, err := svc.YearStatistics(context.Background(), tenantID, 2024, &vendor)
	require.NoError(t, err)
	second, err := svc.YearStatistics(context.Background(), tenantID, 2024, &vendor)
	require.NoError(t, err)

	assert.Equal(t, first.Requiring1099, second.Requiring1099)
	d.ledgerRepo.AssertNumberOfCalls(t, "PayeeTotals", 1)

	svc.InvalidateYear(context.Background(), tenantID, 2024)
	_, err = svc.YearStatistics(context.Background(), tenantID, 2024, &vendor)
	require.NoError(t, err)
	d.ledgerRepo.AssertNumberOfCalls(t, "PayeeTotals", 2)
}

func TestAggregationService_YearStatistics_PropagatesRepoError(t *testing.T) {
	svc, d := newAggregation(nil)
	tenantID := uuid.New()
	creator := domain.PayeeTypeCreator
	boom := errors.New("connection reset")

	d.ledgerRepo.On("PayeeTotals", mock.Anything, tenantID, creator, 2024).Return(nil, boom)

	stats, err := svc.YearStatistics(context.Background(), tenantID, 2024, &creator)

	assert.Nil(t, stats)
	assert.ErrorIs(t, err, boom)
}
