package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ReportingThresholdCents is the annual payment level at which a 1099 becomes mandatory.
const ReportingThresholdCents int64 = 60000

// DefaultApproachingPercent is the lower bound of the approaching-threshold band.
const DefaultApproachingPercent = 50

// MeetsThreshold reports whether an annual total triggers a filing obligation.
func MeetsThreshold(totalCents int64) bool {
	return totalCents >= ReportingThresholdCents
}

// IsApproachingThreshold reports whether totalCents lies in
// [minPercent% of the threshold, threshold). Integer arithmetic keeps the band exact.
func IsApproachingThreshold(totalCents int64, minPercent int) bool {
	if totalCents >= ReportingThresholdCents {
		return false
	}
	return totalCents*100 >= ReportingThresholdCents*int64(minPercent)
}

// PercentOfThreshold returns round(total / threshold * 100) for display.
func PercentOfThreshold(totalCents int64) int {
	return int(math.Round(float64(totalCents) / float64(ReportingThresholdCents) * 100))
}

// Address is a mailing address stored as JSONB.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// Complete reports whether the four fields required for filing are present.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Line1) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.PostalCode) != ""
}

// StreetLine joins line1 and line2 for single-field outputs.
func (a Address) StreetLine() string {
	if strings.TrimSpace(a.Line2) == "" {
		return a.Line1
	}
	return a.Line1 + " " + a.Line2
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// BoxAmounts maps a form box label to an amount in cents.
type BoxAmounts map[string]int64

// Total sums every box.
func (b BoxAmounts) Total() int64 {
	var total int64
	for _, v := range b {
		total += v
	}
	return total
}

// Clone returns an independent copy.
func (b BoxAmounts) Clone() BoxAmounts {
	out := make(BoxAmounts, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Validate rejects empty maps, blank labels and negative amounts.
func (b BoxAmounts) Validate() error {
	if len(b) == 0 {
		return ErrInvalidBoxAmounts
	}
	for k, v := range b {
		if strings.TrimSpace(k) == "" || v < 0 {
			return ErrInvalidBoxAmounts
		}
	}
	return nil
}

// Labels returns the box labels in sorted order.
func (b BoxAmounts) Labels() []string {
	labels := make([]string, 0, len(b))
	for k := range b {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Value implements driver.Valuer.
func (b BoxAmounts) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	out, err := json.Marshal(map[string]int64(b))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Scan implements sql.Scanner.
func (b *BoxAmounts) Scan(src interface{}) error {
	m := map[string]int64{}
	if err := scanJSON(src, &m); err != nil {
		return err
	}
	*b = m
	return nil
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON source type %T", src)
	}
}
