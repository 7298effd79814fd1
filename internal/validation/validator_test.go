package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/gstr1-reconciler/internal/columns"
	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

func table(name string, headers []string, rows ...[]any) *types.Table {
	t := types.NewTable(name, headers)
	for _, cells := range rows {
		row := make(types.Row, len(headers))
		for i, h := range headers {
			row[h] = cells[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var salesHeaders = []string{"Document Type", "Invoice type", "Tax rate", "Taxable value", "IGST Amt", "CGST Amt", "SGST/UTGST Amt", "GSTIN of Taxpayer", "Document Number"}

func validSources() job.Sources {
	return job.Sources{
		SalesDebit:  table("SD", salesHeaders, []any{"I", "B2B", "18", "100", "0", "9", "9", "29AAA", "1"}),
		SalesReturn: table("SR", salesHeaders, []any{"C", "B2B", "18", "50", "0", "4.5", "4.5", "29AAA", "2"}),
		GeneralLedger: table("GL",
			[]string{"G/L Account", "G/L Account: Long Text", "Document Number", "Company Code Currency Value"},
			[]any{"3000100", "Domestic Sales", "1", "-100"}),
		TrialBalance: table("TB",
			[]string{"G/L Acct Long Text", "Period 09 D", "Period 09 C"},
			[]any{"Central GST Payable", "0", "9"}),
	}
}

func TestValidate_Clean(t *testing.T) {
	result := Validate(validSources(), nil)

	assert.True(t, result.IsValid)
	assert.Zero(t, result.ErrorCount)
	assert.Zero(t, result.WarningCount)
	assert.Equal(t, "Period 09 C", result.Columns.TB.PeriodCredit)
	assert.Equal(t, "No problems found.\n", FormatErrors(result))
}

func TestValidate_CollectsEverything(t *testing.T) {
	src := validSources()
	src.SalesReturn = nil
	src.TrialBalance = table("TB", []string{"Account", "Debit"}, []any{"x", "1"})
	src.GeneralLedger = nil

	result := Validate(src, columns.DefaultSpecs())
	require.False(t, result.IsValid)

	// two missing inputs + three unresolved TB fields
	assert.Equal(t, 5, result.ErrorCount)

	var missing *job.MissingInputError
	require.True(t, errors.As(result.Errors[0], &missing))
	assert.Equal(t, job.InputSalesReturn, missing.Input)

	var notFound *columns.ColumnNotFoundError
	require.True(t, errors.As(result.Errors[2], &notFound))
	assert.Equal(t, job.InputTrialBalance, result.Errors[2].Input)
	assert.Equal(t, notFound.Field, result.Errors[2].Field)

	text := FormatErrors(result)
	assert.Contains(t, text, "5 error(s)")
	assert.Contains(t, text, "[ERROR] General-Ledger: input not supplied")
}

func TestValidate_Warnings(t *testing.T) {
	src := validSources()
	src.SalesDebit.Rows[0]["Tax rate"] = "eighteen"
	src.SalesDebit.Rows[0]["Document Number"] = ""
	src.TrialBalance.Rows[0]["Period 09 C"] = "n/a"

	result := Validate(src, nil)
	assert.True(t, result.IsValid)
	assert.Equal(t, 3, result.WarningCount)

	text := FormatErrors(result)
	assert.Contains(t, text, `field 'Tax rate': 1 value(s) are not numeric and will be treated as 0 (e.g. "eighteen")`)
	assert.Contains(t, text, "no document number")
	assert.Contains(t, text, "Trial-Balance, field 'Period 09 C'")
}
