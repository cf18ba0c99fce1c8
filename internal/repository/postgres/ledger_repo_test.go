package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxfiling/internal/domain"
	"taxfiling/internal/repository/postgres"
)

func insertCreatorTxn(t *testing.T, db *sqlx.DB, tenantID uuid.UUID, creatorID string, cents int64, typ string, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO creator_balance_transactions (id, tenant_id, creator_id, amount_cents, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), tenantID, creatorID, cents, typ, at)
	require.NoError(t, err)
}

func utc(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

func TestLedgerRepo_AnnualTotal_RefundExcludedByType(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewLedgerRepo(db)
	tenantID := uuid.New()

	insertCreatorTxn(t, db, tenantID, "creator_1", 15000, "commission_available", utc(2024, time.February, 3, 10, 0, 0))
	insertCreatorTxn(t, db, tenantID, "creator_1", 20000, "commission_available", utc(2024, time.June, 14, 9, 30, 0))
	insertCreatorTxn(t, db, tenantID, "creator_1", 10000, "commission_available", utc(2024, time.October, 1, 18, 0, 0))
	insertCreatorTxn(t, db, tenantID, "creator_1", -5000, "refund", utc(2024, time.October, 2, 8, 0, 0))

	total, err := repo.AnnualTotal(context.Background(), tenantID, domain.PayeeTypeCreator, "creator_1", 2024)

	require.NoError(t, err)
	assert.Equal(t, int64(45000), total)
}

func TestLedgerRepo_AnnualTotal_YearWindowBounds(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewLedgerRepo(db)
	tenantID := uuid.New()

	insertCreatorTxn(t, db, tenantID, "c-edge", 100, "bonus", utc(2023, time.December, 31, 23, 59, 59))
	insertCreatorTxn(t, db, tenantID, "c-edge", 200, "bonus", utc(2024, time.January, 1, 0, 0, 0))
	insertCreatorTxn(t, db, tenantID, "c-edge", 400, "bonus", utc(2024, time.December, 31, 23, 59, 59))
	insertCreatorTxn(t, db, tenantID, "c-edge", 800, "bonus", utc(2025, time.January, 1, 0, 0, 0))

	ctx := context.Background()
	total2024, err := repo.AnnualTotal(ctx, tenantID, domain.PayeeTypeCreator, "c-edge", 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(600), total2024)

	total2025, err := repo.AnnualTotal(ctx, tenantID, domain.PayeeTypeCreator, "c-edge", 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(800), total2025)
}

func TestLedgerRepo_AnnualTotal_NoActivityIsZero(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewLedgerRepo(db)

	total, err := repo.AnnualTotal(context.Background(), uuid.New(), domain.PayeeTypeCreator, "nobody", 2024)

	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestLedgerRepo_MonthlyBreakdown_SparseMonths(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewLedgerRepo(db)
	tenantID := uuid.New()

	insertCreatorTxn(t, db, tenantID, "c-2", 12000, "project_payment", utc(2024, time.March, 5, 12, 0, 0))
	insertCreatorTxn(t, db, tenantID, "c-2", 3000, "bonus", utc(2024, time.March, 28, 12, 0, 0))
	insertCreatorTxn(t, db, tenantID, "c-2", 7000, "project_payment", utc(2024, time.November, 11, 12, 0, 0))
	insertCreatorTxn(t, db, tenantID, "c-2", -2000, "refund", utc(2024, time.July, 1, 12, 0, 0))

	months, err := repo.MonthlyBreakdown(context.Background(), tenantID, domain.PayeeTypeCreator, "c-2", 2024)

	require.NoError(t, err)
	assert.Equal(t, map[int]int64{3: 15000, 11: 7000}, months)
}

func TestLedgerRepo_PayeeTotals_TenantScoped(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewLedgerRepo(db)
	tenantID := uuid.New()
	otherTenant := uuid.New()

	insertCreatorTxn(t, db, tenantID, "a", 60000, "commission_available", utc(2024, time.April, 1, 0, 0, 0))
	insertCreatorTxn(t, db, tenantID, "b", 30000, "adjustment", utc(2024, time.May, 1, 0, 0, 0))
	insertCreatorTxn(t, db, tenantID, "b", -1000, "refund", utc(2024, time.May, 2, 0, 0, 0))
	insertCreatorTxn(t, db, otherTenant, "a", 99999, "commission_available", utc(2024, time.April, 1, 0, 0, 0))

	totals, err := repo.PayeeTotals(context.Background(), tenantID, domain.PayeeTypeCreator, 2024)

	require.NoError(t, err)
	byID := map[string]int64{}
	for _, pt := range totals {
		byID[pt.PayeeID] = pt.TotalCents
	}
	assert.Equal(t, map[string]int64{"a": 60000, "b": 30000}, byID)
}
