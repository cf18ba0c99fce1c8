package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaxPayee is the W-9 record for one (payee, payee type) pair within a tenant.
// Resubmissions supersede the active row instead of overwriting it.
type TaxPayee struct {
	ID                 uuid.UUID         `db:"id" json:"id"`
	TenantID           uuid.UUID         `db:"tenant_id" json:"tenant_id"`
	PayeeID            string            `db:"payee_id" json:"payee_id"`
	PayeeType          PayeeType         `db:"payee_type" json:"payee_type"`
	LegalName          string            `db:"legal_name" json:"legal_name"`
	BusinessName       string            `db:"business_name" json:"business_name"`
	TaxClassification  TaxClassification `db:"tax_classification" json:"tax_classification"`
	Address            Address           `db:"address" json:"address"`
	Email              string            `db:"email" json:"email"`
	TINType            TINType           `db:"tin_type" json:"tin_type"`
	TINEncrypted       string            `db:"tin_encrypted" json:"-"`
	TINLastFour        string            `db:"tin_last_four" json:"tin_last_four"`
	W9CertifiedAt      *time.Time        `db:"w9_certified_at" json:"w9_certified_at"`
	W9CertifiedName    string            `db:"w9_certified_name" json:"w9_certified_name"`
	W9CertifiedIP      string            `db:"w9_certified_ip" json:"-"`
	EDeliveryConsent   bool              `db:"e_delivery_consent" json:"e_delivery_consent"`
	EDeliveryConsentAt *time.Time        `db:"e_delivery_consent_at" json:"e_delivery_consent_at"`
	SupersededAt       *time.Time        `db:"superseded_at" json:"superseded_at"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the business name when present, otherwise the legal name.
func (p *TaxPayee) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	return p.LegalName
}

// HasTIN reports whether an encrypted TIN is on file.
func (p *TaxPayee) HasTIN() bool {
	return p.TINEncrypted != ""
}

// W9Certified reports whether the payee has a certified W-9.
func (p *TaxPayee) W9Certified() bool {
	return p.W9CertifiedAt != nil
}

// PayerProfile holds the filer identity snapshotted onto every form of a tenant.
type PayerProfile struct {
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	TIN       string    `db:"tin" json:"tin"`
	Address   Address   `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TaxForm is one generated 1099 instance. Payer and recipient fields are
// snapshots taken at creation and never follow later payee edits.
type TaxForm struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	TenantID             uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	TaxYear              int             `db:"tax_year" json:"tax_year"`
	FormType             FormType        `db:"form_type" json:"form_type"`
	PayeeID              string          `db:"payee_id" json:"payee_id"`
	PayeeType            PayeeType       `db:"payee_type" json:"payee_type"`
	PayerName            string          `db:"payer_name" json:"payer_name"`
	PayerTIN             string          `db:"payer_tin" json:"payer_tin"`
	PayerAddress         Address         `db:"payer_address" json:"payer_address"`
	RecipientName        string          `db:"recipient_name" json:"recipient_name"`
	RecipientTINLastFour string          `db:"recipient_tin_last_four" json:"recipient_tin_last_four"`
	RecipientAddress     Address         `db:"recipient_address" json:"recipient_address"`
	BoxAmounts           BoxAmounts      `db:"box_amounts" json:"box_amounts"`
	TotalAmountCents     int64           `db:"total_amount_cents" json:"total_amount_cents"`
	Status               FormStatus      `db:"status" json:"status"`
	OriginalFormID       *uuid.UUID      `db:"original_form_id" json:"original_form_id"`
	CorrectionType       *CorrectionType `db:"correction_type" json:"correction_type"`
	CorrectionReason     string          `db:"correction_reason" json:"correction_reason"`
	ApprovedAt           *time.Time      `db:"approved_at" json:"approved_at"`
	ApprovedBy           string          `db:"approved_by" json:"approved_by"`
	FiledAt              *time.Time      `db:"filed_at" json:"filed_at"`
	IRSConfirmation      string          `db:"irs_confirmation" json:"irs_confirmation"`
	StateFiledAt         *time.Time      `db:"state_filed_at" json:"state_filed_at"`
	StateConfirmation    string          `db:"state_confirmation" json:"state_confirmation"`
	DeliveryMethod       DeliveryMethod  `db:"delivery_method" json:"delivery_method"`
	DeliveredAt          *time.Time      `db:"delivered_at" json:"delivered_at"`
	VoidedAt             *time.Time      `db:"voided_at" json:"voided_at"`
	VoidReason           string          `db:"void_reason" json:"void_reason"`
	CreatedBy            string          `db:"created_by" json:"created_by"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

// SetBoxAmounts replaces the box map and recomputes the total from it.
func (f *TaxForm) SetBoxAmounts(boxes BoxAmounts) {
	f.BoxAmounts = boxes.Clone()
	f.TotalAmountCents = f.BoxAmounts.Total()
}

// IsCorrection reports whether the form amends an earlier filed form.
func (f *TaxForm) IsCorrection() bool {
	return f.OriginalFormID != nil
}

// TaxFormAuditEntry is one append-only compliance log row.
type TaxFormAuditEntry struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	TenantID  uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	FormID    *uuid.UUID      `db:"form_id" json:"form_id"`
	PayeeID   string          `db:"payee_id" json:"payee_id"`
	PayeeType PayeeType       `db:"payee_type" json:"payee_type"`
	Action    AuditAction     `db:"action" json:"action"`
	Actor     string          `db:"actor" json:"actor"`
	Changes   json.RawMessage `db:"changes" json:"changes"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// W9ComplianceTracking holds the reminder cadence state for one payee.
type W9ComplianceTracking struct {
	TenantID          uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	PayeeID           string     `db:"payee_id" json:"payee_id"`
	PayeeType         PayeeType  `db:"payee_type" json:"payee_type"`
	InitialSentAt     *time.Time `db:"initial_sent_at" json:"initial_sent_at"`
	Reminder1SentAt   *time.Time `db:"reminder_1_sent_at" json:"reminder_1_sent_at"`
	Reminder2SentAt   *time.Time `db:"reminder_2_sent_at" json:"reminder_2_sent_at"`
	FinalNoticeSentAt *time.Time `db:"final_notice_sent_at" json:"final_notice_sent_at"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at"`
	FlaggedAt         *time.Time `db:"flagged_at" json:"flagged_at"`
	FlagReason        string     `db:"flag_reason" json:"flag_reason"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// PayeeTotal is one aggregated ledger row: a payee and its signed taxable total.
type PayeeTotal struct {
	PayeeID    string `db:"payee_id" json:"payee_id"`
	TotalCents int64  `db:"total_cents" json:"total_cents"`
}

// PayeeSummary is a payee-level aggregate enriched with W-9 state.
type PayeeSummary struct {
	PayeeID            string    `json:"payee_id"`
	PayeeType          PayeeType `json:"payee_type"`
	TotalCents         int64     `json:"total_cents"`
	PercentOfThreshold int       `json:"percent_of_threshold"`
	HasW9              bool      `json:"has_w9"`
	W9Certified        bool      `json:"w9_certified"`
}

// FormStatusCount is the number of forms in one lifecycle stage.
type FormStatusCount struct {
	Status FormStatus `db:"status" json:"status"`
	Count  int        `db:"count" json:"count"`
}

// YearStatistics is the dashboard snapshot for one tax year.
type YearStatistics struct {
	TaxYear              int                `json:"tax_year"`
	PayeeType            *PayeeType         `json:"payee_type,omitempty"`
	TotalPayees          int                `json:"total_payees"`
	W9Certified          int                `json:"w9_certified"`
	W9Pending            int                `json:"w9_pending"`
	W9Missing            int                `json:"w9_missing"`
	Requiring1099        int                `json:"requiring_1099"`
	Approaching1099      int                `json:"approaching_1099"`
	TotalReportableCents int64              `json:"total_reportable_cents"`
	Forms                map[FormStatus]int `json:"forms"`
	UniquePayeeIDs       int                `json:"unique_payee_ids"`
	SharedPayeeIDs       []string           `json:"shared_payee_ids"`
}

// FormFilter narrows form listings.
type FormFilter struct {
	TaxYear   int
	Status    *FormStatus
	PayeeType *PayeeType
	Offset    int
	Limit     int
}
