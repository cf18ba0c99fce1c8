package csvexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() Row {
	return Row{
		TaxYear:          2024,
		FormCode:         "NEC",
		PayerTIN:         "12-3456789",
		PayerName:        "Acme Studios",
		PayerAddress:     "1 Market St",
		PayerCity:        "San Francisco",
		PayerState:       "CA",
		PayerZIP:         "94105",
		RecipientTIN:     "123-45-6789",
		RecipientName:    `Jane "JJ" Doe`,
		RecipientAddress: "22 Elm Ave Apt 4",
		RecipientCity:    "Austin",
		RecipientState:   "TX",
		RecipientZIP:     "01234",
		AmountCents:      123456,
	}
}

func TestWriter_HeaderHasFifteenColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Len(t, strings.Split(line, ","), 15)
	assert.True(t, strings.HasPrefix(line, "Tax Year,Form Type,Payer TIN"))
	assert.True(t, strings.HasSuffix(line, "Recipient ZIP,Amount"))
}

func TestWriter_RowQuoting(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRows([]Row{sampleRow()}))
	w.Flush()

	want := `2024,NEC,"12-3456789","Acme Studios","1 Market St","San Francisco",CA,"94105",` +
		`"123-45-6789","Jane ""JJ"" Doe","22 Elm Ave Apt 4","Austin",TX,"01234",1234.56` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_ReplacesLineBreaks(t *testing.T) {
	r := sampleRow()
	r.RecipientAddress = "22 Elm Ave\r\nApt 4"

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRows([]Row{r}))
	w.Flush()

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"22 Elm Ave Apt 4"`)
}

func TestWriter_KeepsInnerSpacing(t *testing.T) {
	r := sampleRow()
	r.RecipientName = "Mary  Ann   Lee"

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRows([]Row{r}))
	w.Flush()

	assert.Contains(t, buf.String(), `"Mary  Ann   Lee"`)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "600.00", FormatAmount(60000))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "1234.50", FormatAmount(123450))
	assert.Equal(t, "-50.00", FormatAmount(-5000))
}

func TestColumns_ReturnsCopy(t *testing.T) {
	c := Columns()
	c[0] = "changed"
	assert.Equal(t, "Tax Year", Columns()[0])
}
