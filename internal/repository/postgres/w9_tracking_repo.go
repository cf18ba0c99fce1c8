package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

type w9TrackingRepo struct {
	db *sqlx.DB
}

// NewW9TrackingRepo creates a new PostgreSQL-backed W9TrackingRepository.
func NewW9TrackingRepo(db *sqlx.DB) port.W9TrackingRepository {
	return &w9TrackingRepo{db: db}
}

var stageColumns = map[domain.W9ReminderStage]string{
	domain.W9StageInitial:     "initial_sent_at",
	domain.W9StageReminder1:   "reminder_1_sent_at",
	domain.W9StageReminder2:   "reminder_2_sent_at",
	domain.W9StageFinalNotice: "final_notice_sent_at",
}

func (r *w9TrackingRepo) Get(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.W9ComplianceTracking, error) {
	var t domain.W9ComplianceTracking
	err := r.db.GetContext(ctx, &t,
		`SELECT * FROM w9_compliance_tracking
		 WHERE tenant_id = $1 AND payee_type = $2 AND payee_id = $3`,
		tenantID, payeeType, payeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("w9TrackingRepo.Get: %w", err)
	}
	return &t, nil
}

func (r *w9TrackingRepo) RecordStage(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, stage domain.W9ReminderStage, at time.Time) error {
	col, ok := stageColumns[stage]
	if !ok {
		return domain.ErrInvalidReminderStage
	}
	// col comes from the fixed stage map above.
	query := fmt.Sprintf(`INSERT INTO w9_compliance_tracking (tenant_id, payee_type, payee_id, %[1]s, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $4)
		ON CONFLICT (tenant_id, payee_type, payee_id)
		DO UPDATE SET %[1]s = EXCLUDED.%[1]s, updated_at = EXCLUDED.updated_at`, col)
	if _, err := r.db.ExecContext(ctx, query, tenantID, payeeType, payeeID, at); err != nil {
		return fmt.Errorf("w9TrackingRepo.RecordStage: %w", err)
	}
	return nil
}

func (r *w9TrackingRepo) MarkCompleted(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO w9_compliance_tracking (tenant_id, payee_type, payee_id, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4, $4)
		 ON CONFLICT (tenant_id, payee_type, payee_id)
		 DO UPDATE SET completed_at = EXCLUDED.completed_at, updated_at = EXCLUDED.updated_at`,
		tenantID, payeeType, payeeID, at)
	if err != nil {
		return fmt.Errorf("w9TrackingRepo.MarkCompleted: %w", err)
	}
	return nil
}

func (r *w9TrackingRepo) Flag(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, reason string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO w9_compliance_tracking (tenant_id, payee_type, payee_id, flagged_at, flag_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $4, $4)
		 ON CONFLICT (tenant_id, payee_type, payee_id)
		 DO UPDATE SET flagged_at = EXCLUDED.flagged_at, flag_reason = EXCLUDED.flag_reason, updated_at = EXCLUDED.updated_at`,
		tenantID, payeeType, payeeID, at, reason)
	if err != nil {
		return fmt.Errorf("w9TrackingRepo.Flag: %w", err)
	}
	return nil
}
