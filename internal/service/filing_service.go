package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/csvexport"
	"taxfiling/internal/domain"
	"taxfiling/internal/ledger"
	"taxfiling/internal/port"
	"taxfiling/internal/tin"
)

// archiveURLExpiry bounds presigned archive links; archives carry full TINs.
const archiveURLExpiry int64 = 15 * 60

// FilingExportReason is the audit reason recorded for every TIN decrypted by an export.
const FilingExportReason = "IRS 1099 filing export"

// Per-form filing validation messages.
const (
	MsgNoTaxPayee     = "No tax payee record"
	MsgW9NotCertified = "W-9 not certified"
	MsgBelowThreshold = "Total below $600 threshold"
	MsgIncompleteAddr = "Incomplete address"
	MsgNoTIN          = "No TIN on file"
	MsgFormNotFound   = "Form not found"
)

// FilingValidation is the complete punch list for a filing run.
type FilingValidation struct {
	FormsChecked int      `json:"forms_checked"`
	Valid        bool     `json:"valid"`
	Errors       []string `json:"errors"`
}

// FilingExport is an IRIS CSV plus the IDs of the forms it contains.
type FilingExport struct {
	CSV        []byte   `json:"-"`
	FormIDs    []string `json:"form_ids"`
	Warnings   []string `json:"warnings"`
	ArchiveKey string   `json:"archive_key,omitempty"`
}

// BulkFileResult reports per-form outcomes of a bulk filing.
type BulkFileResult struct {
	Filed  int      `json:"filed"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

// ArchiveConfig selects where exports are archived. An empty Bucket disables archiving.
type ArchiveConfig struct {
	Bucket string
	Prefix string
}

// FilingService validates, exports and records IRS filings.
type FilingService interface {
	ValidateForFiling(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) (*FilingValidation, error)
	GenerateFilingExport(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType, actor string) (*FilingExport, error)
	MarkFiledBulk(ctx context.Context, tenantID uuid.UUID, formIDs []string, confirmation, actor string) (*BulkFileResult, error)
	GenerateReviewWorkbook(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]byte, error)
	ArchiveDownloadURL(ctx context.Context, tenantID uuid.UUID, key string) (string, error)
}

type filingService struct {
	formRepo  port.TaxFormRepository
	payeeRepo port.TaxPayeeRepository
	auditRepo port.TaxAuditRepository
	vault     port.TINVault
	forms     FormService
	storage   port.ArchiveStorage
	archive   ArchiveConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewFilingService creates a new FilingService implementation. storage may be nil.
func NewFilingService(
	formRepo port.TaxFormRepository,
	payeeRepo port.TaxPayeeRepository,
	auditRepo port.TaxAuditRepository,
	vault port.TINVault,
	forms FormService,
	storage port.ArchiveStorage,
	archive ArchiveConfig,
	log *zap.Logger,
) FilingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &filingService{
		formRepo:  formRepo,
		payeeRepo: payeeRepo,
		auditRepo: auditRepo,
		vault:     vault,
		forms:     forms,
		storage:   storage,
		archive:   archive,
		log:       log.Named("filing"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *filingService) approvedForms(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]domain.TaxForm, error) {
	if _, err := ledger.YearPeriod(year); err != nil {
		return nil, err
	}
	if payeeType != nil && !payeeType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, *payeeType)
	}
	return s.formRepo.ListByStatus(ctx, tenantID, year, domain.FormStatusApproved, payeeType)
}

// lookupPayee returns nil without error when the form has no active payee record.
func (s *filingService) lookupPayee(ctx context.Context, form *domain.TaxForm) (*domain.TaxPayee, error) {
	p, err := s.payeeRepo.GetActive(ctx, form.TenantID, form.PayeeType, form.PayeeID)
	if errors.Is(err, domain.ErrPayeeNotFound) {
		return nil, nil
	}
	return p, err
}

func (s *filingService) ValidateForFiling(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) (*FilingValidation, error) {
	forms, err := s.approvedForms(ctx, tenantID, year, payeeType)
	if err != nil {
		return nil, err
	}

	result := &FilingValidation{FormsChecked: len(forms), Errors: []string{}}
	for i := range forms {
		form := &forms[i]
		payee, err := s.lookupPayee(ctx, form)
		if err != nil {
			return nil, err
		}
		prefix := form.ID.String() + ": "

		if payee == nil {
			result.Errors = append(result.Errors, prefix+MsgNoTaxPayee)
		} else if !payee.W9Certified() {
			result.Errors = append(result.Errors, prefix+MsgW9NotCertified)
		}
		if !domain.MeetsThreshold(form.TotalAmountCents) {
			result.Errors = append(result.Errors, prefix+MsgBelowThreshold)
		}
		if !form.RecipientAddress.Complete() {
			result.Errors = append(result.Errors, prefix+MsgIncompleteAddr)
		}
		if payee != nil && !payee.HasTIN() {
			result.Errors = append(result.Errors, prefix+MsgNoTIN)
		}
	}
	result.Valid = len(result.Errors) == 0
	return result, nil
}

func (s *filingService) GenerateFilingExport(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType, actor string) (*FilingExport, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	forms, err := s.approvedForms(ctx, tenantID, year, payeeType)
	if err != nil {
		return nil, err
	}

	export := &FilingExport{FormIDs: []string{}, Warnings: []string{}}
	rows := make([]csvexport.Row, 0, len(forms))
	for i := range forms {
		form := &forms[i]
		payee, err := s.lookupPayee(ctx, form)
		if err != nil {
			return nil, err
		}
		if payee == nil {
			export.Warnings = append(export.Warnings, form.ID.String()+": skipped, "+MsgNoTaxPayee)
			continue
		}
		if !payee.HasTIN() {
			export.Warnings = append(export.Warnings, form.ID.String()+": skipped, "+MsgNoTIN)
			continue
		}

		formID := form.ID
		plain, err := s.vault.Decrypt(ctx, payee.TINEncrypted, actor, FilingExportReason, port.DecryptContext{
			TenantID:  tenantID,
			PayeeID:   payee.PayeeID,
			PayeeType: payee.PayeeType,
			FormID:    &formID,
		})
		if err != nil {
			return nil, fmt.Errorf("decrypting TIN for form %s: %w", form.ID, err)
		}

		rows = append(rows, csvexport.Row{
			TaxYear:          form.TaxYear,
			FormCode:         form.FormType.Code(),
			PayerTIN:         form.PayerTIN,
			PayerName:        form.PayerName,
			PayerAddress:     form.PayerAddress.StreetLine(),
			PayerCity:        form.PayerAddress.City,
			PayerState:       form.PayerAddress.State,
			PayerZIP:         form.PayerAddress.PostalCode,
			RecipientTIN:     tin.Format(plain, payee.TINType),
			RecipientName:    form.RecipientName,
			RecipientAddress: form.RecipientAddress.StreetLine(),
			RecipientCity:    form.RecipientAddress.City,
			RecipientState:   form.RecipientAddress.State,
			RecipientZIP:     form.RecipientAddress.PostalCode,
			AmountCents:      form.TotalAmountCents,
		})
		export.FormIDs = append(export.FormIDs, form.ID.String())
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing export header: %w", err)
	}
	if err := w.WriteRows(rows); err != nil {
		return nil, fmt.Errorf("writing export rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing export: %w", err)
	}
	export.CSV = buf.Bytes()

	if len(export.Warnings) > 0 {
		s.log.Warn("filing export skipped forms",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("tax_year", year),
			zap.Strings("warnings", export.Warnings))
	}

	export.ArchiveKey = s.archiveExport(ctx, tenantID, year, len(export.FormIDs), export.CSV)
	s.auditExport(ctx, tenantID, year, payeeType, actor, export)
	return export, nil
}

// archiveExport uploads the CSV when archiving is configured. Failures are
// logged and leave the key empty; the export itself still succeeds.
func (s *filingService) archiveExport(ctx context.Context, tenantID uuid.UUID, year, formCount int, data []byte) string {
	if s.storage == nil || s.archive.Bucket == "" {
		return ""
	}
	key := fmt.Sprintf("%s%d/%s.csv", s.archivePrefix(tenantID), year, s.now().Format("20060102T150405Z"))
	_, err := s.storage.Upload(ctx, port.ArchiveObject{
		Bucket:      s.archive.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "text/csv",
		Size:        int64(len(data)),
		Metadata: map[string]string{
			"tenant-id":  tenantID.String(),
			"tax-year":   strconv.Itoa(year),
			"form-count": strconv.Itoa(formCount),
		},
	})
	if err != nil {
		s.log.Error("archiving filing export failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

func (s *filingService) archivePrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", s.archive.Prefix, tenantID)
}

// ArchiveDownloadURL presigns a short-lived link to an archived export owned by the tenant.
func (s *filingService) ArchiveDownloadURL(ctx context.Context, tenantID uuid.UUID, key string) (string, error) {
	if s.storage == nil || s.archive.Bucket == "" {
		return "", domain.ErrNotFound
	}
	if !strings.HasPrefix(key, s.archivePrefix(tenantID)) || strings.Contains(key, "..") {
		return "", domain.ErrForbidden
	}
	return s.storage.GetPresignedURL(ctx, s.archive.Bucket, key, archiveURLExpiry)
}

func (s *filingService) auditExport(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType, actor string, export *FilingExport) {
	changes := map[string]interface{}{
		"tax_year":    year,
		"form_ids":    export.FormIDs,
		"skipped":     len(export.Warnings),
		"archive_key": export.ArchiveKey,
	}
	entry := &domain.TaxFormAuditEntry{
		ID:       uuid.New(),
		TenantID: tenantID,
		Action:   domain.AuditFilingExported,
		Actor:    actor,
	}
	if payeeType != nil {
		entry.PayeeType = *payeeType
	}
	entry.Changes, _ = json.Marshal(changes)
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.log.Error("writing export audit entry failed", zap.Error(err))
	}
}

func (s *filingService) MarkFiledBulk(ctx context.Context, tenantID uuid.UUID, formIDs []string, confirmation, actor string) (*BulkFileResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	confirmation = strings.TrimSpace(confirmation)
	if confirmation == "" {
		return nil, domain.ErrConfirmationRequired
	}

	result := &BulkFileResult{Errors: []string{}}
	for _, raw := range formIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, raw+": "+MsgFormNotFound)
			continue
		}
		if _, err := s.forms.MarkFiled(ctx, tenantID, id, confirmation, actor); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, raw+": "+bulkMessage(err))
			continue
		}
		result.Filed++
	}

	s.log.Info("bulk filing recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("filed", result.Filed),
		zap.Int("failed", result.Failed))
	return result, nil
}

func bulkMessage(err error) string {
	if errors.Is(err, domain.ErrFormNotFound) {
		return MsgFormNotFound
	}
	return err.Error()
}

func (s *filingService) GenerateReviewWorkbook(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]byte, error) {
	if _, err := ledger.YearPeriod(year); err != nil {
		return nil, err
	}
	var rows []csvexport.ReviewRow
	for offset := 0; ; offset += maxPageSize {
		forms, total, err := s.formRepo.List(ctx, tenantID, domain.FormFilter{
			TaxYear:   year,
			PayeeType: payeeType,
			Offset:    offset,
			Limit:     maxPageSize,
		})
		if err != nil {
			return nil, err
		}
		for i := range forms {
			rows = append(rows, reviewRow(&forms[i]))
		}
		if len(forms) == 0 || offset+len(forms) >= total {
			break
		}
	}
	return csvexport.WriteWorkbook(rows)
}

func reviewRow(f *domain.TaxForm) csvexport.ReviewRow {
	row := csvexport.ReviewRow{
		FormID:        f.ID.String(),
		TaxYear:       f.TaxYear,
		FormType:      string(f.FormType),
		PayeeType:     string(f.PayeeType),
		PayeeID:       f.PayeeID,
		RecipientName: f.RecipientName,
		RecipientTIN:  tin.Mask(f.RecipientTINLastFour, domain.TINTypeSSN),
		Status:        string(f.Status),
		TotalCents:    f.TotalAmountCents,
	}
	if f.CorrectionType != nil {
		row.CorrectionType = string(*f.CorrectionType)
	}
	return row
}
