// Package csvexport renders 1099 filing artifacts.
package csvexport

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// columns defines the IRIS upload header row (15 columns).
var columns = []string{
	"Tax Year",
	"Form Type",
	"Payer TIN",
	"Payer Name",
	"Payer Address",
	"Payer City",
	"Payer State",
	"Payer ZIP",
	"Recipient TIN",
	"Recipient Name",
	"Recipient Address",
	"Recipient City",
	"Recipient State",
	"Recipient ZIP",
	"Amount",
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Row is one form in an IRIS filing upload.
type Row struct {
	TaxYear          int
	FormCode         string
	PayerTIN         string
	PayerName        string
	PayerAddress     string
	PayerCity        string
	PayerState       string
	PayerZIP         string
	RecipientTIN     string
	RecipientName    string
	RecipientAddress string
	RecipientCity    string
	RecipientState   string
	RecipientZIP     string
	AmountCents      int64
}

// Writer emits IRIS CSV. Identity and address text is always quoted; year,
// form code, state codes and amount never are.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the 15-column header row.
func (w *Writer) WriteHeader() error {
	return w.writeLine(strings.Join(columns, ","))
}

// WriteRows writes one line per row.
func (w *Writer) WriteRows(rows []Row) error {
	for i := range rows {
		if err := w.writeLine(formatRow(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (w *Writer) Flush() {
	if w.err == nil {
		w.err = w.w.Flush()
	}
}

// Error returns the first write or flush error.
func (w *Writer) Error() error {
	return w.err
}

func (w *Writer) writeLine(line string) error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.w.WriteString(line + "\n"); err != nil {
		w.err = err
	}
	return w.err
}

func formatRow(r *Row) string {
	fields := []string{
		strconv.Itoa(r.TaxYear),
		r.FormCode,
		quote(r.PayerTIN),
		quote(r.PayerName),
		quote(r.PayerAddress),
		quote(r.PayerCity),
		clean(r.PayerState),
		quote(r.PayerZIP),
		quote(r.RecipientTIN),
		quote(r.RecipientName),
		quote(r.RecipientAddress),
		quote(r.RecipientCity),
		clean(r.RecipientState),
		quote(r.RecipientZIP),
		FormatAmount(r.AmountCents),
	}
	return strings.Join(fields, ",")
}

// FormatAmount renders cents as dollars with exactly two decimal places.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(clean(s), `"`, `""`) + `"`
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// clean replaces line breaks so one form stays on one line. Other whitespace
// is left as entered.
func clean(s string) string {
	return lineBreaks.Replace(s)
}
