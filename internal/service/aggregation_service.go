package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/cache"
	"taxfiling/internal/domain"
	"taxfiling/internal/ledger"
	"taxfiling/internal/port"
)

const defaultStatsTTL = 5 * time.Minute

// AggregationService turns ledger rows into payee, year and dashboard summaries.
type AggregationService interface {
	AnnualTotal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (int64, error)
	MonthlyBreakdown(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (map[int]int64, error)
	PayeesRequiring1099(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error)
	PayeesApproachingThreshold(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year, minPercent int) ([]domain.PayeeSummary, error)
	PayeesMissingW9(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error)
	YearStatistics(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) (*domain.YearStatistics, error)
	InvalidateYear(ctx context.Context, tenantID uuid.UUID, year int)
}

type aggregationService struct {
	ledgerRepo port.LedgerRepository
	payeeRepo  port.TaxPayeeRepository
	formRepo   port.TaxFormRepository
	cache      cache.Cache
	statsTTL   time.Duration
	log        *zap.Logger
}

// NewAggregationService creates a new AggregationService. A nil cache disables stats caching.
func NewAggregationService(
	ledgerRepo port.LedgerRepository,
	payeeRepo port.TaxPayeeRepository,
	formRepo port.TaxFormRepository,
	statsCache cache.Cache,
	statsTTL time.Duration,
	log *zap.Logger,
) AggregationService {
	if statsTTL <= 0 {
		statsTTL = defaultStatsTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &aggregationService{
		ledgerRepo: ledgerRepo,
		payeeRepo:  payeeRepo,
		formRepo:   formRepo,
		cache:      statsCache,
		statsTTL:   statsTTL,
		log:        log.Named("aggregation"),
	}
}

func validateScope(payeeType domain.PayeeType, year int) error {
	if !payeeType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, payeeType)
	}
	_, err := ledger.YearPeriod(year)
	return err
}

func (s *aggregationService) AnnualTotal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (int64, error) {
	if err := validateScope(payeeType, year); err != nil {
		return 0, err
	}
	return s.ledgerRepo.AnnualTotal(ctx, tenantID, payeeType, payeeID, year)
}

func (s *aggregationService) MonthlyBreakdown(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (map[int]int64, error) {
	if err := validateScope(payeeType, year); err != nil {
		return nil, err
	}
	months, err := s.ledgerRepo.MonthlyBreakdown(ctx, tenantID, payeeType, payeeID, year)
	if err != nil {
		return nil, err
	}
	if months == nil {
		months = map[int]int64{}
	}
	return months, nil
}

func (s *aggregationService) PayeesRequiring1099(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error) {
	return s.summaries(ctx, tenantID, payeeType, year, func(total int64, _ bool) bool {
		return domain.MeetsThreshold(total)
	})
}

func (s *aggregationService) PayeesApproachingThreshold(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year, minPercent int) ([]domain.PayeeSummary, error) {
	if minPercent < 0 || minPercent > 100 {
		return nil, domain.ErrInvalidPercent
	}
	return s.summaries(ctx, tenantID, payeeType, year, func(total int64, _ bool) bool {
		return domain.IsApproachingThreshold(total, minPercent)
	})
}

func (s *aggregationService) PayeesMissingW9(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error) {
	return s.summaries(ctx, tenantID, payeeType, year, func(_ int64, hasW9 bool) bool {
		return !hasW9
	})
}

// summaries loads every payee with taxable activity, joins W-9 state, keeps
// those matching keep and orders by total descending then payee ID.
func (s *aggregationService) summaries(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int, keep func(total int64, hasW9 bool) bool) ([]domain.PayeeSummary, error) {
	if err := validateScope(payeeType, year); err != nil {
		return nil, err
	}
	all, err := s.loadSummaries(ctx, tenantID, payeeType, year)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PayeeSummary, 0, len(all))
	for _, sum := range all {
		if keep(sum.TotalCents, sum.HasW9) {
			out = append(out, sum)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCents != out[j].TotalCents {
			return out[i].TotalCents > out[j].TotalCents
		}
		return out[i].PayeeID < out[j].PayeeID
	})
	return out, nil
}

func (s *aggregationService) loadSummaries(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error) {
	totals, err := s.ledgerRepo.PayeeTotals(ctx, tenantID, payeeType, year)
	if err != nil {
		return nil, err
	}
	payees, err := s.payeeRepo.ListActiveByType(ctx, tenantID, payeeType)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.TaxPayee, len(payees))
	for i := range payees {
		byID[payees[i].PayeeID] = &payees[i]
	}

	out := make([]domain.PayeeSummary, 0, len(totals))
	for _, t := range totals {
		sum := domain.PayeeSummary{
			PayeeID:            t.PayeeID,
			PayeeType:          payeeType,
			TotalCents:         t.TotalCents,
			PercentOfThreshold: domain.PercentOfThreshold(t.TotalCents),
		}
		if p, ok := byID[t.PayeeID]; ok {
			sum.HasW9 = true
			sum.W9Certified = p.W9Certified()
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *aggregationService) YearStatistics(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) (*domain.YearStatistics, error) {
	types := domain.PayeeTypes
	if payeeType != nil {
		if err := validateScope(*payeeType, year); err != nil {
			return nil, err
		}
		types = []domain.PayeeType{*payeeType}
	} else if _, err := ledger.YearPeriod(year); err != nil {
		return nil, err
	}

	key := statsKey(tenantID, year, payeeType)
	return cache.GetOrLoad(ctx, s.cache, key, s.statsTTL, func(ctx context.Context) (*domain.YearStatistics, error) {
		return s.computeStatistics(ctx, tenantID, year, payeeType, types)
	})
}

func (s *aggregationService) computeStatistics(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType, types []domain.PayeeType) (*domain.YearStatistics, error) {
	stats := &domain.YearStatistics{
		TaxYear:        year,
		PayeeType:      payeeType,
		Forms:          make(map[domain.FormStatus]int),
		SharedPayeeIDs: []string{},
	}

	seen := make(map[string]int)
	for _, pt := range types {
		sums, err := s.loadSummaries(ctx, tenantID, pt, year)
		if err != nil {
			return nil, err
		}
		for _, sum := range sums {
			seen[sum.PayeeID]++
			stats.TotalPayees++
			switch {
			case sum.W9Certified:
				stats.W9Certified++
			case sum.HasW9:
				stats.W9Pending++
			default:
				stats.W9Missing++
			}
			if domain.MeetsThreshold(sum.TotalCents) {
				stats.Requiring1099++
				stats.TotalReportableCents += sum.TotalCents
			} else if domain.IsApproachingThreshold(sum.TotalCents, domain.DefaultApproachingPercent) {
				stats.Approaching1099++
			}
		}
	}

	stats.UniquePayeeIDs = len(seen)
	for id, n := range seen {
		if n > 1 {
			stats.SharedPayeeIDs = append(stats.SharedPayeeIDs, id)
		}
	}
	sort.Strings(stats.SharedPayeeIDs)
	if len(stats.SharedPayeeIDs) > 0 {
		s.log.Warn("payee ids shared across payee types",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("tax_year", year),
			zap.Strings("payee_ids", stats.SharedPayeeIDs))
	}

	counts, err := s.formRepo.CountByStatus(ctx, tenantID, year, payeeType)
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.Forms[c.Status] = c.Count
	}
	return stats, nil
}

func (s *aggregationService) InvalidateYear(ctx context.Context, tenantID uuid.UUID, year int) {
	if s.cache == nil {
		return
	}
	keys := []string{statsKey(tenantID, year, nil)}
	for i := range domain.PayeeTypes {
		keys = append(keys, statsKey(tenantID, year, &domain.PayeeTypes[i]))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("stats cache invalidation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("tax_year", year),
			zap.Error(err))
	}
}

func statsKey(tenantID uuid.UUID, year int, payeeType *domain.PayeeType) string {
	scope := "all"
	if payeeType != nil {
		scope = string(*payeeType)
	}
	return fmt.Sprintf("stats:%s:%d:%s", tenantID, year, scope)
}
