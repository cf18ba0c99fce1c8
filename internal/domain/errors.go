package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidPayeeType      = errors.New("invalid payee type")
	ErrInvalidTaxYear        = errors.New("invalid tax year")
	ErrPayeeNotFound         = errors.New("tax payee not found")
	ErrFormNotFound          = errors.New("form not found")
	ErrFormAlreadyExists     = errors.New("a live form already exists for this payee and year")
	ErrInvalidFormTransition = errors.New("invalid form status transition")
	ErrFormStatusConflict    = errors.New("form status changed concurrently")
	ErrFormNotCorrectable    = errors.New("only filed forms can be corrected")
	ErrNoCorrectionChanges   = errors.New("correction does not change any recipient field")
	ErrInvalidBoxAmounts     = errors.New("box amounts must be non-empty and non-negative")
	ErrInvalidTIN            = errors.New("TIN must contain exactly nine digits")
	ErrInvalidW9             = errors.New("W-9 submission is incomplete")
	ErrConfirmationRequired  = errors.New("confirmation number is required")
	ErrActorRequired         = errors.New("actor identity is required")
	ErrReasonRequired        = errors.New("reason is required")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidReminderStage  = errors.New("invalid W-9 reminder stage")
	ErrInvalidPercent        = errors.New("percent must be between 0 and 100")
	ErrPayeeContactMissing   = errors.New("payee has no contact email")
	ErrTINUnavailable        = errors.New("no TIN on file")
)
