package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/normalize"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReconcile_Example(t *testing.T) {
	gl := []ledger.GLEntry{
		{AccountLongText: CentralGSTPayable, CurrencyValue: d("1000")},
		{AccountLongText: CentralGSTPayable, CurrencyValue: d("500")},
	}
	tb := []ledger.TBEntry{
		{AccountLongText: CentralGSTPayable, PeriodCredit: d("200"), PeriodDebit: d("50")},
	}

	records := Reconcile(gl, tb, DefaultOptions())
	require.Len(t, records, 1)
	assert.Equal(t, CentralGSTPayable, records[0].AccountType)
	assert.True(t, d("1500").Equal(records[0].GLPayable))
	assert.True(t, d("150").Equal(records[0].TBDifference))
	assert.True(t, d("1650").Equal(records[0].NetDifference))
}

func TestReconcile_GLOnlyTypeDefaultsToZero(t *testing.T) {
	gl := []ledger.GLEntry{
		{AccountLongText: StateGSTPayable, CurrencyValue: d("-320.50")},
		{AccountLongText: CentralGSTPayable, CurrencyValue: d("10")},
	}
	tb := []ledger.TBEntry{
		{AccountLongText: CentralGSTPayable, PeriodCredit: d("0"), PeriodDebit: d("10")},
		{AccountLongText: IntegratedGSTPayable, PeriodCredit: d("99")},
	}

	records := Reconcile(gl, tb, DefaultOptions())
	require.Len(t, records, 2)

	assert.Equal(t, CentralGSTPayable, records[0].AccountType)
	assert.True(t, records[0].NetDifference.IsZero())

	assert.Equal(t, StateGSTPayable, records[1].AccountType)
	assert.True(t, records[1].TBDifference.IsZero())
	assert.True(t, records[1].GLPayable.Equal(records[1].NetDifference))
}

func TestReconcile_MatchModes(t *testing.T) {
	gl := []ledger.GLEntry{
		{AccountLongText: CentralGSTPayable, CurrencyValue: d("1")},
		{AccountLongText: "Output GST - Interstate", CurrencyValue: d("2")},
		{AccountLongText: "Sales Revenue", CurrencyValue: d("3")},
	}

	exact := Reconcile(gl, nil, DefaultOptions())
	require.Len(t, exact, 1)
	for _, r := range exact {
		assert.Contains(t, CanonicalAccounts(), r.AccountType)
	}

	opts := DefaultOptions()
	opts.Mode = MatchContains
	contains := Reconcile(gl, nil, opts)
	require.Len(t, contains, 2)
	assert.Equal(t, "Output GST - Interstate", contains[1].AccountType)
}

func TestOptions_IsGSTAccount(t *testing.T) {
	exact := DefaultOptions()
	assert.True(t, exact.IsGSTAccount(" Central GST Payable "))
	assert.False(t, exact.IsGSTAccount("central gst payable"))

	contains := Options{Mode: MatchContains}
	assert.True(t, contains.IsGSTAccount("input igst credit"))
	assert.False(t, contains.IsGSTAccount("Trade Payables"))
}

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode("CONTAINS")
	require.NoError(t, err)
	assert.Equal(t, MatchContains, m)

	m, err = ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	_, err = ParseMatchMode("fuzzy")
	assert.Error(t, err)
}

func TestAggregate_Subsets(t *testing.T) {
	glRaw := &types.Table{
		Name:    "GL",
		Headers: []string{"G/L Account", "G/L Account: Long Text", "Company Code Currency Value", "Document Number"},
		Rows: []types.Row{
			{"G/L Account": "3000100", "G/L Account: Long Text": "Domestic Sales", "Company Code Currency Value": "-1000", "Document Number": "9001"},
			{"G/L Account": "2200010", "G/L Account: Long Text": CentralGSTPayable, "Company Code Currency Value": "-90", "Document Number": "9001"},
			{"G/L Account": "2200020", "G/L Account: Long Text": StateGSTPayable, "Company Code Currency Value": "-90", "Document Number": "9002"},
			{"G/L Account": "1100000", "G/L Account: Long Text": "Trade Receivables", "Company Code Currency Value": "1180", "Document Number": "9001"},
		},
	}
	tbRaw := &types.Table{
		Name:    "TB",
		Headers: []string{"G/L Acct Long Text", "Period 09 D", "Period 09 C"},
		Rows: []types.Row{
			{"G/L Acct Long Text": CentralGSTPayable, "Period 09 D": "10", "Period 09 C": "100"},
			{"G/L Acct Long Text": IntegratedGSTPayable, "Period 09 D": "0", "Period 09 C": "5"},
			{"G/L Acct Long Text": "Trade Receivables", "Period 09 D": "1180", "Period 09 C": "0"},
		},
	}
	glCols := ledger.GLColumns{
		AccountLongText: "G/L Account: Long Text", AccountCode: "G/L Account",
		CurrencyValue: "Company Code Currency Value", DocumentNumber: "Document Number",
	}
	tbCols := ledger.TBColumns{AccountLongText: "G/L Acct Long Text", PeriodDebit: "Period 09 D", PeriodCredit: "Period 09 C"}

	gl := normalize.Table(glRaw, glCols.CurrencyValue)
	tb := normalize.Table(tbRaw, tbCols.PeriodDebit, tbCols.PeriodCredit)

	out, err := Aggregate(gl, glCols, tb, tbCols, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, out.Revenue.Len())
	assert.Equal(t, "3000100", out.Revenue.Rows[0]["G/L Account"])
	assert.Equal(t, 2, out.GSTPayable.Len())
	assert.Equal(t, 2, out.TBGST.Len())
	assert.True(t, d("90").Equal(types.CellDecimal(out.TBGST.Rows[0][TBDifferenceColumn])))
	assert.Equal(t, []string{IntegratedGSTPayable}, out.TBOnly)

	require.Len(t, out.Records, 2)
	assert.Equal(t, CentralGSTPayable, out.Records[0].AccountType)
	assert.True(t, out.Records[0].NetDifference.IsZero())
	assert.True(t, d("-90").Equal(out.Records[1].NetDifference))

	// sources untouched
	assert.Equal(t, 4, gl.Len())
	assert.False(t, tb.HasHeader(TBDifferenceColumn))
}
