// =============================================================================
// GSTR-1 Reconciler - Report Writer
// =============================================================================
//
// Renders a job Result as the GSTR-1 workbook.
//
// WORKBOOK LAYOUT:
//   Sales register   every sales line with the derived columns, as a table
//                    object
//   GST Summary      Account Type | GL Payable | Difference as per TB |
//                    Net Difference (=B+C, format 0.00)
//   Sales summary    the classification aggregate, plus a native pivot table
//                    over the sales register filtered by GSTIN
//   Revenue GL       GL rows on revenue accounts
//   GST Payable GL   GL rows on GST payable accounts
//   GST TB           trial-balance rows on GST payable accounts
//
// Net Difference is written as a formula with the computed value cached in
// the cell, so the sheet shows the right figure before it is recalculated.
//
// =============================================================================

package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// Sheet names.
const (
	SheetSales        = "Sales register"
	SheetGSTSummary   = "GST Summary"
	SheetSalesSummary = "Sales summary"
	SheetRevenue      = "Revenue GL"
	SheetGSTPayable   = "GST Payable GL"
	SheetTBGST        = "GST TB"
)

// GST Summary headers.
const (
	HeaderAccountType   = "Account Type"
	HeaderGLPayable     = "GL Payable"
	HeaderTBDifference  = "Difference as per TB"
	HeaderNetDifference = "Net Difference"
)

// UnclassifiedLabel is shown for sales lines no rule classified.
const UnclassifiedLabel = "(blank)"

const (
	salesTableName = "SalesRegister"
	pivotName      = "SalesSummaryPivot"
	pivotRange     = "H3:M40"

	// numFmtTwoDecimals is the built-in "0.00" number format.
	numFmtTwoDecimals = 2
)

// WorkbookOptions tunes the rendered workbook.
type WorkbookOptions struct {
	// Pivot adds the native pivot table to the Sales summary sheet.
	Pivot bool
}

// DefaultWorkbookOptions returns the built-in rendering options. The config
// defaults for report.* are taken from it.
func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{Pivot: true}
}

// WriteWorkbook renders res and saves it to path.
//
// PARAMETERS:
//   - path: The .xlsx file to create.
//   - res: A completed job result.
//   - opts: Rendering options.
//
// RETURNS:
//   - An error if any sheet cannot be built or the file cannot be saved.
func WriteWorkbook(path string, res job.Result, opts WorkbookOptions) error {
	f, err := BuildWorkbook(res, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// BuildWorkbook renders res into an in-memory workbook. The caller closes it.
func BuildWorkbook(res job.Result, opts WorkbookOptions) (*excelize.File, error) {
	f := excelize.NewFile()
	w := &workbook{file: f}

	steps := []func() error{
		func() error { return w.init() },
		func() error { return w.salesRegister(res.Sales) },
		func() error { return w.gstSummary(res) },
		func() error { return w.salesSummary(res, opts) },
		func() error { return w.plainSheet(SheetRevenue, res.Revenue) },
		func() error { return w.plainSheet(SheetGSTPayable, res.GSTPayable) },
		func() error { return w.plainSheet(SheetTBGST, res.TBGST) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Close()
			return nil, err
		}
	}

	if idx, err := f.GetSheetIndex(SheetSales); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// =============================================================================
// SHEET BUILDERS
// =============================================================================

type workbook struct {
	file        *excelize.File
	headerStyle int
	numberStyle int
}

func (w *workbook) init() error {
	var err error
	w.headerStyle, err = w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w.numberStyle, err = w.file.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	// The default sheet becomes the sales register.
	if err := w.file.SetSheetName(w.file.GetSheetName(0), SheetSales); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetGSTSummary, SheetSalesSummary, SheetRevenue, SheetGSTPayable, SheetTBGST} {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}
	return nil
}

// writeTable writes headers and rows at A1 and returns the bottom-right cell.
func (w *workbook) writeTable(sheet string, t *types.Table) (string, error) {
	if t == nil || len(t.Headers) == 0 {
		return "", nil
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("sheet %q: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return "", err
	}
	if err := w.file.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		return "", fmt.Errorf("sheet %q: %w", sheet, err)
	}

	for r, row := range t.Rows {
		cells := make([]any, len(t.Headers))
		for c, h := range t.Headers {
			cells[c] = cellValue(row[h])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return "", err
		}
		if err := w.file.SetSheetRow(sheet, cell, &cells); err != nil {
			return "", fmt.Errorf("sheet %q row %d: %w", sheet, r+2, err)
		}
	}

	return excelize.CoordinatesToCellName(len(t.Headers), len(t.Rows)+1)
}

func (w *workbook) plainSheet(sheet string, t *types.Table) error {
	_, err := w.writeTable(sheet, t)
	return err
}

func (w *workbook) salesRegister(t *types.Table) error {
	last, err := w.writeTable(SheetSales, t)
	if err != nil {
		return err
	}
	if t == nil || t.Len() == 0 {
		return nil
	}
	if err := w.file.AddTable(SheetSales, &excelize.Table{
		Range:     "A1:" + last,
		Name:      salesTableName,
		StyleName: "TableStyleMedium2",
	}); err != nil {
		return fmt.Errorf("failed to add sales register table: %w", err)
	}
	return nil
}

func (w *workbook) gstSummary(res job.Result) error {
	sheet := SheetGSTSummary
	header := []any{HeaderAccountType, HeaderGLPayable, HeaderTBDifference, HeaderNetDifference}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if err := w.file.SetCellStyle(sheet, "A1", "D1", w.headerStyle); err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}

	for i, rec := range res.Summary {
		r := i + 2
		row := []any{
			rec.AccountType,
			rec.GLPayable.InexactFloat64(),
			rec.TBDifference.InexactFloat64(),
			rec.NetDifference.InexactFloat64(),
		}
		if err := w.file.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &row); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", sheet, r, err)
		}
		if err := w.file.SetCellFormula(sheet, fmt.Sprintf("D%d", r), fmt.Sprintf("B%d+C%d", r, r)); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", sheet, r, err)
		}
	}

	if n := len(res.Summary); n > 0 {
		if err := w.file.SetCellStyle(sheet, "B2", fmt.Sprintf("D%d", n+1), w.numberStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}

	if len(res.TBOnly) > 0 {
		r := len(res.Summary) + 3
		if err := w.file.SetCellValue(sheet, fmt.Sprintf("A%d", r), "In trial balance only"); err != nil {
			return err
		}
		for i, account := range res.TBOnly {
			if err := w.file.SetCellValue(sheet, fmt.Sprintf("A%d", r+1+i), account); err != nil {
				return err
			}
		}
	}
	return w.file.SetColWidth(sheet, "A", "D", 24)
}

func (w *workbook) salesSummary(res job.Result, opts WorkbookOptions) error {
	sheet := SheetSalesSummary
	sc := res.Columns.Sales
	header := []any{ledger.ClassificationColumn, "Rows", sc.TaxableValue, sc.IGSTAmt, sc.CGSTAmt, sc.SGSTAmt}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if err := w.file.SetCellStyle(sheet, "A1", "F1", w.headerStyle); err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}

	for i, total := range res.SalesSummary {
		label := total.Label
		if label == ledger.LabelUnclassified {
			label = UnclassifiedLabel
		}
		row := []any{
			label,
			total.Rows,
			total.TaxableValue.InexactFloat64(),
			total.IGSTAmt.InexactFloat64(),
			total.CGSTAmt.InexactFloat64(),
			total.SGSTAmt.InexactFloat64(),
		}
		if err := w.file.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
	}
	if n := len(res.SalesSummary); n > 0 {
		if err := w.file.SetCellStyle(sheet, "C2", fmt.Sprintf("F%d", n+1), w.numberStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}

	if !opts.Pivot || res.Sales == nil || res.Sales.Len() == 0 {
		return nil
	}
	return w.pivot(res)
}

// pivot adds the GSTIN-filterable pivot over the sales register. Sheet names
// are passed unquoted; excelize splits ranges on "!".
func (w *workbook) pivot(res job.Result) error {
	sc := res.Columns.Sales
	last, err := excelize.CoordinatesToCellName(len(res.Sales.Headers), res.Sales.Len()+1)
	if err != nil {
		return err
	}

	sum := func(field string) excelize.PivotTableField {
		return excelize.PivotTableField{Data: field, Name: "Sum of " + field, Subtotal: "Sum"}
	}

	err = w.file.AddPivotTable(&excelize.PivotTableOptions{
		Name:            pivotName,
		DataRange:       fmt.Sprintf("%s!A1:%s", SheetSales, last),
		PivotTableRange: fmt.Sprintf("%s!%s", SheetSalesSummary, pivotRange),
		Filter:          []excelize.PivotTableField{{Data: sc.GSTIN}},
		Rows:            []excelize.PivotTableField{{Data: ledger.ClassificationColumn, DefaultSubtotal: true}},
		Data: []excelize.PivotTableField{
			sum(sc.TaxableValue), sum(sc.IGSTAmt), sum(sc.CGSTAmt), sum(sc.SGSTAmt),
		},
		RowGrandTotals:      true,
		ColGrandTotals:      true,
		ShowDrill:           true,
		ShowRowHeaders:      true,
		ShowColHeaders:      true,
		ShowLastColumn:      true,
		PivotTableStyleName: "PivotStyleLight16",
	})
	if err != nil {
		return fmt.Errorf("failed to add sales summary pivot: %w", err)
	}
	return nil
}

// cellValue converts a table cell into something excelize writes natively.
func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return val.InexactFloat64()
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val
	default:
		return val
	}
}
