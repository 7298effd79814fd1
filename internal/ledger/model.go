// =============================================================================
// GSTR-1 Reconciler - Ledger Model
// =============================================================================
//
// Typed views over the normalized source tables. The tables stay the system
// of record (they carry every source column through to the report); these
// structs are what the classification, sign and reconciliation logic reads.
//
// =============================================================================

package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gstr1-reconciler/internal/columns"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// LedgerRow is one sales transaction from the sales register.
type LedgerRow struct {
	DocumentType string
	InvoiceType  string
	TaxRate      decimal.Decimal

	TaxableValue decimal.Decimal
	IGSTAmt      decimal.Decimal
	CGSTAmt      decimal.Decimal
	SGSTAmt      decimal.Decimal

	GSTIN          string
	DocumentNumber string

	// ClassificationLabel is derived; empty means unclassified.
	ClassificationLabel string
}

// GLEntry is one general-ledger posting.
type GLEntry struct {
	AccountCode     string
	AccountLongText string
	CurrencyValue   decimal.Decimal
	DocumentNumber  string
}

// TBEntry is one trial-balance row for the period.
type TBEntry struct {
	AccountLongText string
	PeriodDebit     decimal.Decimal
	PeriodCredit    decimal.Decimal
}

// =============================================================================
// COLUMN BINDINGS
// =============================================================================

// SalesColumns holds the resolved header for every sales field.
type SalesColumns struct {
	DocumentType   string
	InvoiceType    string
	TaxRate        string
	TaxableValue   string
	IGSTAmt        string
	CGSTAmt        string
	SGSTAmt        string
	GSTIN          string
	DocumentNumber string
}

// NewSalesColumns binds a resolver result keyed by columns.* constants.
func NewSalesColumns(resolved map[string]string) SalesColumns {
	return SalesColumns{
		DocumentType:   resolved[columns.DocumentType],
		InvoiceType:    resolved[columns.InvoiceType],
		TaxRate:        resolved[columns.TaxRate],
		TaxableValue:   resolved[columns.TaxableValue],
		IGSTAmt:        resolved[columns.IGSTAmount],
		CGSTAmt:        resolved[columns.CGSTAmount],
		SGSTAmt:        resolved[columns.SGSTAmount],
		GSTIN:          resolved[columns.GSTIN],
		DocumentNumber: resolved[columns.SalesDocumentNumber],
	}
}

// Numeric lists the sales headers that must be coerced to numbers.
func (c SalesColumns) Numeric() []string {
	return []string{c.TaxRate, c.TaxableValue, c.IGSTAmt, c.CGSTAmt, c.SGSTAmt}
}

// Monetary lists the four headers subject to the credit-note sign policy.
func (c SalesColumns) Monetary() []string {
	return []string{c.TaxableValue, c.IGSTAmt, c.CGSTAmt, c.SGSTAmt}
}

// GLColumns holds the resolved headers of the general-ledger dump.
type GLColumns struct {
	AccountLongText string
	AccountCode     string
	CurrencyValue   string
	DocumentNumber  string
}

// NewGLColumns binds a resolver result.
func NewGLColumns(resolved map[string]string) GLColumns {
	return GLColumns{
		AccountLongText: resolved[columns.GLAccountLongText],
		AccountCode:     resolved[columns.GLAccountCode],
		CurrencyValue:   resolved[columns.CurrencyValue],
		DocumentNumber:  resolved[columns.GLDocumentNumber],
	}
}

// TBColumns holds the resolved headers of the trial balance.
type TBColumns struct {
	AccountLongText string
	PeriodDebit     string
	PeriodCredit    string
}

// NewTBColumns binds a resolver result.
func NewTBColumns(resolved map[string]string) TBColumns {
	return TBColumns{
		AccountLongText: resolved[columns.TBAccountLongText],
		PeriodDebit:     resolved[columns.TBDebit],
		PeriodCredit:    resolved[columns.TBCredit],
	}
}

// =============================================================================
// ROW EXTRACTION
// =============================================================================

// SalesRows reads typed rows out of a normalized sales table. Text cells are
// trimmed, so "B2B " and " C" classify like "B2B" and "C".
func SalesRows(t *types.Table, c SalesColumns) []LedgerRow {
	rows := make([]LedgerRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = LedgerRow{
			DocumentType:   text(r[c.DocumentType]),
			InvoiceType:    text(r[c.InvoiceType]),
			TaxRate:        types.CellDecimal(r[c.TaxRate]),
			TaxableValue:   types.CellDecimal(r[c.TaxableValue]),
			IGSTAmt:        types.CellDecimal(r[c.IGSTAmt]),
			CGSTAmt:        types.CellDecimal(r[c.CGSTAmt]),
			SGSTAmt:        types.CellDecimal(r[c.SGSTAmt]),
			GSTIN:          text(r[c.GSTIN]),
			DocumentNumber: DocumentKey(r[c.DocumentNumber]),
		}
	}
	return rows
}

// GLEntries reads typed rows out of a normalized general-ledger table.
func GLEntries(t *types.Table, c GLColumns) []GLEntry {
	entries := make([]GLEntry, len(t.Rows))
	for i, r := range t.Rows {
		entries[i] = GLEntry{
			AccountCode:     DocumentKey(r[c.AccountCode]),
			AccountLongText: text(r[c.AccountLongText]),
			CurrencyValue:   types.CellDecimal(r[c.CurrencyValue]),
			DocumentNumber:  DocumentKey(r[c.DocumentNumber]),
		}
	}
	return entries
}

// TBEntries reads typed rows out of a normalized trial-balance table.
func TBEntries(t *types.Table, c TBColumns) []TBEntry {
	entries := make([]TBEntry, len(t.Rows))
	for i, r := range t.Rows {
		entries[i] = TBEntry{
			AccountLongText: text(r[c.AccountLongText]),
			PeriodDebit:     types.CellDecimal(r[c.PeriodDebit]),
			PeriodCredit:    types.CellDecimal(r[c.PeriodCredit]),
		}
	}
	return entries
}

func text(v any) string {
	return strings.TrimSpace(types.CellString(v))
}

// DocumentKey renders an identifier cell for set membership. Spreadsheet
// tools often surface integral identifiers as "1900000012.0"; the trailing
// zero fraction is dropped so both sides of a lookup agree.
func DocumentKey(v any) string {
	s := text(v)
	if i := strings.IndexByte(s, '.'); i > 0 && strings.Trim(s[i+1:], "0") == "" && isDigits(s[:i]) {
		return s[:i]
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
