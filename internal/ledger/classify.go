package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// Invoice types with dedicated rules.
const (
	InvoiceTypeB2B   = "B2B"
	InvoiceTypeB2CS  = "B2CS"
	InvoiceTypeSEWP  = "SEWP"
	InvoiceTypeSEWOP = "SEWOP"
)

// Classification labels.
const (
	LabelSEZWOP          = "SEZWOP"
	LabelSEWP            = "SEWP"
	LabelExempt          = "Exempt supply"
	LabelB2BCreditNotes  = "B2B Credit Notes"
	LabelB2BSupplies     = "B2B Supplies"
	LabelB2CSupplies     = "B2C Supplies"
	LabelUnclassified    = ""
	ClassificationColumn = "Sales summary"
)

// Classify maps one sales line to its GSTR-1 category. Rules are evaluated in
// order and the first match wins:
//
//  1. SEWOP            -> SEZWOP
//  2. SEWP             -> SEWP
//  3. rate == 0        -> Exempt supply
//  4. B2B, credit note -> B2B Credit Notes
//  5. B2B, otherwise   -> B2B Supplies
//  6. B2CS             -> B2C Supplies
//  7. anything else    -> "" (unclassified)
//
// SEZ rules come first, so an SEZ line at 0% is never exempt. A tax rate that
// failed to parse upstream arrives here as 0 and lands in rule 3.
func Classify(invoiceType, documentType string, taxRate decimal.Decimal) string {
	zero := taxRate.IsZero()

	switch {
	case invoiceType == InvoiceTypeSEWOP:
		return LabelSEZWOP
	case invoiceType == InvoiceTypeSEWP:
		return LabelSEWP
	case zero:
		return LabelExempt
	case invoiceType == InvoiceTypeB2B && documentType == DefaultCreditNoteType:
		return LabelB2BCreditNotes
	case invoiceType == InvoiceTypeB2B:
		return LabelB2BSupplies
	case invoiceType == InvoiceTypeB2CS:
		return LabelB2CSupplies
	default:
		return LabelUnclassified
	}
}

// Classified returns a copy of row with its ClassificationLabel set.
func (r LedgerRow) Classified() LedgerRow {
	r.ClassificationLabel = Classify(r.InvoiceType, r.DocumentType, r.TaxRate)
	return r
}

// ClassifyRows labels every row. The input slice is not modified.
func ClassifyRows(rows []LedgerRow) []LedgerRow {
	out := make([]LedgerRow, len(rows))
	for i, r := range rows {
		out[i] = r.Classified()
	}
	return out
}

// ClassifyTable appends the "Sales summary" column to a normalized,
// sign-adjusted sales table and returns the labelled rows alongside it.
func ClassifyTable(t *types.Table, c SalesColumns) (*types.Table, []LedgerRow, error) {
	rows := ClassifyRows(SalesRows(t, c))

	labels := make([]any, len(rows))
	for i, r := range rows {
		labels[i] = r.ClassificationLabel
	}

	out, err := t.WithColumn(ClassificationColumn, labels)
	if err != nil {
		return nil, nil, err
	}
	return out, rows, nil
}
