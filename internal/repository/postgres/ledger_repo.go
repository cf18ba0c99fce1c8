package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxfiling/internal/domain"
	"taxfiling/internal/ledger"
	"taxfiling/internal/port"
)

type ledgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a LedgerRepository over the payee-type ledger tables.
func NewLedgerRepo(db *sqlx.DB) port.LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) AnnualTotal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (int64, error) {
	src, period, err := resolve(payeeType, year)
	if err != nil {
		return 0, err
	}
	var total int64
	err = r.db.GetContext(ctx, &total, src.Queries().AnnualTotal,
		tenantID, src.TaxableTypes, period.Start, period.End, payeeID)
	if err != nil {
		return 0, fmt.Errorf("ledgerRepo.AnnualTotal: %w", err)
	}
	return total, nil
}

func (r *ledgerRepo) MonthlyBreakdown(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (map[int]int64, error) {
	src, period, err := resolve(payeeType, year)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Month      int   `db:"month"`
		TotalCents int64 `db:"total_cents"`
	}
	err = r.db.SelectContext(ctx, &rows, src.Queries().MonthlyBreakdown,
		tenantID, src.TaxableTypes, period.Start, period.End, payeeID)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.MonthlyBreakdown: %w", err)
	}
	out := make(map[int]int64, len(rows))
	for _, row := range rows {
		out[row.Month] = row.TotalCents
	}
	return out, nil
}

func (r *ledgerRepo) PayeeTotals(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeTotal, error) {
	src, period, err := resolve(payeeType, year)
	if err != nil {
		return nil, err
	}
	var totals []domain.PayeeTotal
	err = r.db.SelectContext(ctx, &totals, src.Queries().PayeeTotals,
		tenantID, src.TaxableTypes, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.PayeeTotals: %w", err)
	}
	return totals, nil
}

func resolve(payeeType domain.PayeeType, year int) (ledger.Source, ledger.Period, error) {
	src, err := ledger.SourceFor(payeeType)
	if err != nil {
		return ledger.Source{}, ledger.Period{}, err
	}
	period, err := ledger.YearPeriod(year)
	if err != nil {
		return ledger.Source{}, ledger.Period{}, err
	}
	return src, period, nil
}
