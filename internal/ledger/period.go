package ledger

import (
	"fmt"
	"time"

	"taxfiling/internal/domain"
)

const (
	minTaxYear = 2000
	maxTaxYear = 2100
)

// Period is a half-open calendar window [Start, End) in UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// YearPeriod returns the calendar-year window for a tax year.
func YearPeriod(year int) (Period, error) {
	if year < minTaxYear || year > maxTaxYear {
		return Period{}, fmt.Errorf("%w: %d", domain.ErrInvalidTaxYear, year)
	}
	return Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}
