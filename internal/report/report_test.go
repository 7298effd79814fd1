package report

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reconcile"
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

func runJob(t *testing.T) job.Result {
	t.Helper()
	sales := []string{"Document Type", "Invoice type", "Tax rate", "Taxable value", "IGST Amt", "CGST Amt", "SGST/UTGST Amt", "GSTIN of Taxpayer", "Document Number"}
	src := job.Sources{
		SalesDebit: table("SD", sales,
			[]any{"I", "B2B", "18", "1000", "0", "90", "90", "29AAA", "9001"},
			[]any{"I", "EXPWP", "18", "10", "0", "0", "0", "07BBB", "9003"},
		),
		SalesReturn: table("SR", sales,
			[]any{"C", "B2B", "18", "500", "0", "45", "45", "29AAA", "9002"},
		),
		GeneralLedger: table("GL",
			[]string{"G/L Account", "G/L Account: Long Text", "Document Number", "Company Code Currency Value"},
			[]any{"3000100", "Domestic Sales", "9001", "-1000"},
			[]any{"2200010", reconcile.CentralGSTPayable, "9001", "-90"},
		),
		TrialBalance: table("TB",
			[]string{"G/L Acct Long Text", "Period 09 D", "Period 09 C"},
			[]any{reconcile.CentralGSTPayable, "10", "100"},
			[]any{reconcile.IntegratedGSTPayable, "0", "5"},
		),
	}
	res, err := job.New(job.DefaultSettings(), nil).Run(src)
	require.NoError(t, err)
	return res
}

func TestWriteWorkbook(t *testing.T) {
	res := runJob(t)
	path := filepath.Join(t.TempDir(), "1000_GSTR-1_Workbook.xlsx")

	require.NoError(t, WriteWorkbook(path, res, DefaultWorkbookOptions()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSales, SheetGSTSummary, SheetSalesSummary, SheetRevenue, SheetGSTPayable, SheetTBGST}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}

	// sales register
	rows, err := f.GetRows(SheetSales)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Found in GST Payable GL", rows[0][len(rows[0])-1])
	tables, err := f.GetTables(SheetSales)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:L4", tables[0].Range)

	credit, err := f.GetCellValue(SheetSales, "D4", raw)
	require.NoError(t, err)
	assert.Equal(t, "-500", credit)

	// GST summary: value plus formula
	account, err := f.GetCellValue(SheetGSTSummary, "A2")
	require.NoError(t, err)
	assert.Equal(t, reconcile.CentralGSTPayable, account)

	gl, err := f.GetCellValue(SheetGSTSummary, "B2", raw)
	require.NoError(t, err)
	assert.Equal(t, "-90", gl)
	tb, err := f.GetCellValue(SheetGSTSummary, "C2", raw)
	require.NoError(t, err)
	assert.Equal(t, "90", tb)

	formula, err := f.GetCellFormula(SheetGSTSummary, "D2")
	require.NoError(t, err)
	assert.Equal(t, "B2+C2", formula)

	tbOnly, err := f.GetCellValue(SheetGSTSummary, "A5")
	require.NoError(t, err)
	assert.Equal(t, reconcile.IntegratedGSTPayable, tbOnly)

	// sales summary: aggregate plus pivot
	labels, err := f.GetCols(SheetSalesSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales summary", "B2B Credit Notes", "B2B Supplies", UnclassifiedLabel}, labels[0][:4])

	pivots, err := f.GetPivotTables(SheetSalesSummary)
	require.NoError(t, err)
	require.Len(t, pivots, 1)
	assert.Equal(t, pivotName, pivots[0].Name)

	revenue, err := f.GetRows(SheetRevenue)
	require.NoError(t, err)
	assert.Len(t, revenue, 2)
}

func TestWriteWorkbook_NoPivot(t *testing.T) {
	res := runJob(t)

	f, err := BuildWorkbook(res, WorkbookOptions{Pivot: false})
	require.NoError(t, err)
	defer f.Close()

	pivots, err := f.GetPivotTables(SheetSalesSummary)
	require.NoError(t, err)
	assert.Empty(t, pivots)
}

func TestWriteXML(t *testing.T) {
	res := runJob(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, res, "1000"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xml.Header)))

	var doc xmlDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, res.ID, doc.JobID)
	assert.Equal(t, "1000", doc.Company)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, xmlAccount{
		Type:          reconcile.CentralGSTPayable,
		GLPayable:     "-90.00",
		TBDifference:  "90.00",
		NetDifference: "0.00",
	}, doc.Accounts[0])
	assert.Equal(t, []string{reconcile.IntegratedGSTPayable}, doc.TBOnly)
	require.Len(t, doc.Categories, 3)
	assert.Equal(t, "", doc.Categories[2].Label)
	assert.Equal(t, []string{"07BBB", "29AAA"}, doc.GSTINs)
}
