package csvexport

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const reviewSheet = "Forms"

var reviewColumns = []string{
	"Form ID",
	"Tax Year",
	"Form Type",
	"Payee Type",
	"Payee ID",
	"Recipient Name",
	"Recipient TIN",
	"Status",
	"Correction",
	"Total",
}

// ReviewRow is one form in the reviewer workbook. RecipientTIN is masked.
type ReviewRow struct {
	FormID         string
	TaxYear        int
	FormType       string
	PayeeType      string
	PayeeID        string
	RecipientName  string
	RecipientTIN   string
	Status         string
	CorrectionType string
	TotalCents     int64
}

// WriteWorkbook renders review rows as an xlsx document.
func WriteWorkbook(rows []ReviewRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reviewSheet); err != nil {
		return nil, fmt.Errorf("csvexport.WriteWorkbook: %w", err)
	}

	header := make([]interface{}, len(reviewColumns))
	for i, c := range reviewColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(reviewSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("csvexport.WriteWorkbook header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("csvexport.WriteWorkbook style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reviewColumns))
	if err := f.SetCellStyle(reviewSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("csvexport.WriteWorkbook style: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("csvexport.WriteWorkbook style: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			r.FormID,
			r.TaxYear,
			r.FormType,
			r.PayeeType,
			r.PayeeID,
			r.RecipientName,
			r.RecipientTIN,
			r.Status,
			r.CorrectionType,
			decimal.New(r.TotalCents, -2).InexactFloat64(),
		}
		if err := f.SetSheetRow(reviewSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("csvexport.WriteWorkbook row %d: %w", i, err)
		}
	}
	if len(rows) > 0 {
		top, _ := excelize.CoordinatesToCellName(len(reviewColumns), 2)
		bottom, _ := excelize.CoordinatesToCellName(len(reviewColumns), len(rows)+1)
		if err := f.SetCellStyle(reviewSheet, top, bottom, money); err != nil {
			return nil, fmt.Errorf("csvexport.WriteWorkbook style: %w", err)
		}
	}
	_ = f.SetColWidth(reviewSheet, "A", "A", 38)
	_ = f.SetColWidth(reviewSheet, "F", "F", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("csvexport.WriteWorkbook: %w", err)
	}
	return buf.Bytes(), nil
}
