// Package ledger describes where each payee type's taxable payments live.
//
// The registry is closed: every payee type maps to one Source whose queries are
// compiled once from fixed identifiers when the package loads. Callers select a
// Source by payee type and never supply table or column names.
package ledger

import (
	"fmt"
	"strings"

	"taxfiling/internal/domain"
)

// Source describes the ledger table that carries one payee type's payments.
type Source struct {
	PayeeType    domain.PayeeType
	Table        string
	PayeeColumn  string
	AmountColumn string
	DateColumn   string
	TypeColumn   string
	TaxableTypes []string
	FormType     domain.FormType
	PrimaryBox   string

	queries Queries
}

// Queries holds the compiled statements for one Source.
//
// Placeholders: $1 tenant id, $2 taxable types (text[]), $3 period start,
// $4 period end (exclusive), $5 payee id where applicable.
type Queries struct {
	AnnualTotal      string
	MonthlyBreakdown string
	PayeeTotals      string
}

// Queries returns the compiled statements for the source.
func (s Source) Queries() Queries {
	return s.queries
}

// IsTaxable reports whether a ledger type tag counts toward taxable income.
func (s Source) IsTaxable(tag string) bool {
	for _, t := range s.TaxableTypes {
		if t == tag {
			return true
		}
	}
	return false
}

var (
	creatorSource = Source{
		PayeeType:    domain.PayeeTypeCreator,
		Table:        "creator_balance_transactions",
		PayeeColumn:  "creator_id",
		AmountColumn: "amount_cents",
		DateColumn:   "created_at",
		TypeColumn:   "type",
		TaxableTypes: []string{"commission_available", "project_payment", "bonus", "adjustment"},
		FormType:     domain.FormType1099NEC,
		PrimaryBox:   "1",
	}
	contractorSource = Source{
		PayeeType:    domain.PayeeTypeContractor,
		Table:        "contractor_payments",
		PayeeColumn:  "contractor_id",
		AmountColumn: "amount_cents",
		DateColumn:   "paid_at",
		TypeColumn:   "type",
		TaxableTypes: []string{"payment"},
		FormType:     domain.FormType1099NEC,
		PrimaryBox:   "1",
	}
	merchantSource = Source{
		PayeeType:    domain.PayeeTypeMerchant,
		Table:        "merchant_transactions",
		PayeeColumn:  "merchant_id",
		AmountColumn: "amount_cents",
		DateColumn:   "created_at",
		TypeColumn:   "type",
		TaxableTypes: []string{"sale"},
		FormType:     domain.FormType1099K,
		PrimaryBox:   "1a",
	}
	vendorSource = Source{
		PayeeType:    domain.PayeeTypeVendor,
		Table:        "vendor_payments",
		PayeeColumn:  "vendor_id",
		AmountColumn: "amount_cents",
		DateColumn:   "paid_at",
		TypeColumn:   "type",
		TaxableTypes: []string{"payment"},
		FormType:     domain.FormType1099MISC,
		PrimaryBox:   "3",
	}
)

func init() {
	creatorSource.queries = compile(creatorSource)
	contractorSource.queries = compile(contractorSource)
	merchantSource.queries = compile(merchantSource)
	vendorSource.queries = compile(vendorSource)
}

// SourceFor returns the registered source for a payee type.
func SourceFor(t domain.PayeeType) (Source, error) {
	switch t {
	case domain.PayeeTypeCreator:
		return creatorSource, nil
	case domain.PayeeTypeContractor:
		return contractorSource, nil
	case domain.PayeeTypeMerchant:
		return merchantSource, nil
	case domain.PayeeTypeVendor:
		return vendorSource, nil
	}
	return Source{}, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, t)
}

// Sources returns every registered source in payee-type order.
func Sources() []Source {
	return []Source{creatorSource, contractorSource, merchantSource, vendorSource}
}

// FormTypeFor returns the 1099 variant filed for a payee type.
func FormTypeFor(t domain.PayeeType) (domain.FormType, error) {
	src, err := SourceFor(t)
	if err != nil {
		return "", err
	}
	return src.FormType, nil
}

func compile(s Source) Queries {
	where := strings.Join([]string{
		"tenant_id = $1",
		s.TypeColumn + " = ANY($2)",
		s.DateColumn + " >= $3",
		s.DateColumn + " < $4",
	}, " AND ")

	return Queries{
		AnnualTotal: "SELECT COALESCE(SUM(" + s.AmountColumn + "), 0)::bigint FROM " + s.Table +
			" WHERE " + where + " AND " + s.PayeeColumn + " = $5",
		MonthlyBreakdown: "SELECT EXTRACT(MONTH FROM " + s.DateColumn + " AT TIME ZONE 'UTC')::int AS month, SUM(" + s.AmountColumn + ")::bigint AS total_cents" +
			" FROM " + s.Table +
			" WHERE " + where + " AND " + s.PayeeColumn + " = $5" +
			" GROUP BY 1 ORDER BY 1",
		PayeeTotals: "SELECT " + s.PayeeColumn + " AS payee_id, SUM(" + s.AmountColumn + ")::bigint AS total_cents" +
			" FROM " + s.Table +
			" WHERE " + where +
			" GROUP BY " + s.PayeeColumn,
	}
}
