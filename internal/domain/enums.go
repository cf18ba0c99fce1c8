package domain

// PayeeType identifies the category of a payee receiving reportable payments.
type PayeeType string

const (
	PayeeTypeCreator    PayeeType = "creator"
	PayeeTypeContractor PayeeType = "contractor"
	PayeeTypeMerchant   PayeeType = "merchant"
	PayeeTypeVendor     PayeeType = "vendor"
)

// PayeeTypes lists every registered payee type in a stable order.
var PayeeTypes = []PayeeType{
	PayeeTypeCreator,
	PayeeTypeContractor,
	PayeeTypeMerchant,
	PayeeTypeVendor,
}

// Valid reports whether t is a registered payee type.
func (t PayeeType) Valid() bool {
	switch t {
	case PayeeTypeCreator, PayeeTypeContractor, PayeeTypeMerchant, PayeeTypeVendor:
		return true
	}
	return false
}

// FormType is the 1099 variant generated for a payee.
type FormType string

const (
	FormType1099NEC  FormType = "1099-NEC"
	FormType1099MISC FormType = "1099-MISC"
	FormType1099K    FormType = "1099-K"
)

// Code returns the abbreviated form code used in IRIS uploads.
func (f FormType) Code() string {
	switch f {
	case FormType1099NEC:
		return "NEC"
	case FormType1099MISC:
		return "MISC"
	case FormType1099K:
		return "K"
	}
	return string(f)
}

// FormStatus represents the lifecycle of a tax form.
type FormStatus string

const (
	FormStatusDraft         FormStatus = "draft"
	FormStatusPendingReview FormStatus = "pending_review"
	FormStatusApproved      FormStatus = "approved"
	FormStatusFiled         FormStatus = "filed"
	FormStatusCorrected     FormStatus = "corrected"
	FormStatusVoided        FormStatus = "voided"
)

// FormStatuses lists every form status in lifecycle order.
var FormStatuses = []FormStatus{
	FormStatusDraft,
	FormStatusPendingReview,
	FormStatusApproved,
	FormStatusFiled,
	FormStatusCorrected,
	FormStatusVoided,
}

// Valid reports whether s is a known form status.
func (s FormStatus) Valid() bool {
	for _, v := range FormStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CorrectionType distinguishes IRS Type 1 (amount) and Type 2 (recipient) corrections.
type CorrectionType string

const (
	CorrectionType1 CorrectionType = "type1"
	CorrectionType2 CorrectionType = "type2"
)

// TaxClassification is the federal tax classification certified on the W-9.
type TaxClassification string

const (
	TaxClassIndividual      TaxClassification = "individual"
	TaxClassSoleProprietor  TaxClassification = "sole_proprietor"
	TaxClassSingleMemberLLC TaxClassification = "single_member_llc"
	TaxClassCCorp           TaxClassification = "c_corporation"
	TaxClassSCorp           TaxClassification = "s_corporation"
	TaxClassPartnership     TaxClassification = "partnership"
	TaxClassTrustEstate     TaxClassification = "trust_estate"
	TaxClassLLC             TaxClassification = "llc"
	TaxClassOther           TaxClassification = "other"
)

// Valid reports whether c is a known tax classification.
func (c TaxClassification) Valid() bool {
	switch c {
	case TaxClassIndividual, TaxClassSoleProprietor, TaxClassSingleMemberLLC, TaxClassCCorp,
		TaxClassSCorp, TaxClassPartnership, TaxClassTrustEstate, TaxClassLLC, TaxClassOther:
		return true
	}
	return false
}

// TINType identifies the kind of taxpayer identification number on file.
type TINType string

const (
	TINTypeSSN TINType = "ssn"
	TINTypeEIN TINType = "ein"
)

// DeliveryMethod is how a recipient copy was delivered.
type DeliveryMethod string

const (
	DeliveryEmail DeliveryMethod = "email"
	DeliveryMail  DeliveryMethod = "mail"
)

// W9ReminderStage identifies one step of the W-9 collection cadence.
type W9ReminderStage string

const (
	W9StageInitial     W9ReminderStage = "initial"
	W9StageReminder1   W9ReminderStage = "reminder_1"
	W9StageReminder2   W9ReminderStage = "reminder_2"
	W9StageFinalNotice W9ReminderStage = "final_notice"
)

// Valid reports whether s is a known reminder stage.
func (s W9ReminderStage) Valid() bool {
	switch s {
	case W9StageInitial, W9StageReminder1, W9StageReminder2, W9StageFinalNotice:
		return true
	}
	return false
}

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// AuditAction identifies a compliance-relevant action recorded in the audit log.
type AuditAction string

const (
	AuditTINDecrypted   AuditAction = "tin_decrypted"
	AuditW9Submitted    AuditAction = "w9_submitted"
	AuditW9Updated      AuditAction = "w9_updated"
	AuditFormCreated    AuditAction = "form_created"
	AuditFormSubmitted  AuditAction = "form_submitted_for_review"
	AuditFormApproved   AuditAction = "form_approved"
	AuditFormFiled      AuditAction = "form_filed"
	AuditFormStateFiled AuditAction = "form_state_filed"
	AuditFormDelivered  AuditAction = "form_delivered"
	AuditFormCorrected  AuditAction = "form_corrected"
	AuditFormVoided     AuditAction = "form_voided"
	AuditFilingExported AuditAction = "filing_exported"
)
