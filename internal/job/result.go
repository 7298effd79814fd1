package job

import (
	"time"

	"github.com/ginjaninja78/gstr1-reconciler/internal/crossref"
	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reconcile"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// Result is everything one job produced. It is handed to the caller by value
// and nothing in the pipeline keeps a reference to it; the report sink only
// reads from it.
type Result struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration

	// Columns records which actual header each semantic field resolved to.
	Columns Columns

	// Sales is the normalized, sign-adjusted sales register with the
	// classification and cross-reference columns appended.
	Sales *types.Table

	// SalesRows is the typed view of Sales, in the same order.
	SalesRows []ledger.LedgerRow

	// Flags holds the cross-reference flags per sales row.
	Flags []crossref.MatchFlag

	// Summary is the GST summary, one record per GL account type.
	Summary []reconcile.ReconciliationRecord

	Revenue    *types.Table
	GSTPayable *types.Table
	TBGST      *types.Table
	TBOnly     []string

	// SalesSummary is the classification aggregate over all GSTINs.
	SalesSummary []ledger.CategoryTotal

	// GSTINs lists the filter values of the classification aggregate.
	GSTINs []string

	Stats Stats
}

// SalesSummaryFor recomputes the classification aggregate restricted to the
// given GSTINs. No GSTINs means all rows.
func (r Result) SalesSummaryFor(gstins ...string) []ledger.CategoryTotal {
	return ledger.Summarize(r.SalesRows, gstins...)
}

// Stats are row counts for logging and the run summary.
type Stats struct {
	SalesRows      int
	GLRows         int
	TBRows         int
	CreditNotes    int
	Unclassified   int
	NotInRevenue   int
	NotInGSTLedger int
}

func newStats(rows []ledger.LedgerRow, flags []crossref.MatchFlag, creditNoteType string, glRows, tbRows int) Stats {
	s := Stats{SalesRows: len(rows), GLRows: glRows, TBRows: tbRows}
	for _, r := range rows {
		if r.ClassificationLabel == ledger.LabelUnclassified {
			s.Unclassified++
		}
		if r.DocumentType == creditNoteType {
			s.CreditNotes++
		}
	}
	for _, f := range flags {
		if !f.InRevenue {
			s.NotInRevenue++
		}
		if !f.InGSTPayable {
			s.NotInGSTLedger++
		}
	}
	return s
}
