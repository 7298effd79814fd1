// =============================================================================
// GSTR-1 Reconciler - Reconciliation Aggregator
// =============================================================================
//
// Reconciles GST payable balances between the general ledger and the trial
// balance.
//
// COMPUTATION:
//   GL side: keep postings on a GST account, group by account text,
//            GLPayable = sum(CurrencyValue).
//   TB side: keep rows on a GST account, per row Credit - Debit,
//            group by account text, TBDifference = sum.
//   Join:    left join GL onto TB by account type; a type with no TB rows
//            gets TBDifference = 0.
//   Net:     NetDifference = GLPayable + TBDifference.
//
// The net is an addition. GL payables post as credits (negative values in the
// dump) while the TB difference is taken Credit - Debit (positive for a
// payable), so a reconciled account nets to zero.
//
// ACCOUNT MATCHING:
//   exact    - account text is one of the configured GST accounts.
//   contains - account text contains "GST", any case.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// MatchMode selects how GST accounts are recognized.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchContains MatchMode = "contains"
)

// ParseMatchMode validates a configured mode name.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MatchExact, MatchContains:
		return m, nil
	case "":
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want %q or %q)", s, MatchExact, MatchContains)
	}
}

// The canonical GST payable accounts.
const (
	CentralGSTPayable    = "Central GST Payable"
	IntegratedGSTPayable = "Integrated GST Payable"
	StateGSTPayable      = "State GST Payable"
)

// DefaultRevenuePrefix marks revenue accounts in the chart of accounts.
const DefaultRevenuePrefix = "3"

// Column names of derived output.
const (
	TBDifferenceColumn = "Difference as per TB"
)

// CanonicalAccounts returns the three GST payable account texts.
func CanonicalAccounts() []string {
	return []string{CentralGSTPayable, IntegratedGSTPayable, StateGSTPayable}
}

// Options configures the aggregator.
type Options struct {
	Mode          MatchMode
	Accounts      []string
	RevenuePrefix string
}

// DefaultOptions returns exact matching on the canonical accounts.
func DefaultOptions() Options {
	return Options{
		Mode:          MatchExact,
		Accounts:      CanonicalAccounts(),
		RevenuePrefix: DefaultRevenuePrefix,
	}
}

// IsGSTAccount reports whether an account text belongs to the GST set.
func (o Options) IsGSTAccount(accountText string) bool {
	accountText = strings.TrimSpace(accountText)
	if o.Mode == MatchContains {
		return strings.Contains(strings.ToUpper(accountText), "GST")
	}
	accounts := o.Accounts
	if len(accounts) == 0 {
		accounts = CanonicalAccounts()
	}
	for _, a := range accounts {
		if accountText == a {
			return true
		}
	}
	return false
}

// IsRevenueAccount reports whether an account code is a revenue account.
func (o Options) IsRevenueAccount(accountCode string) bool {
	prefix := o.RevenuePrefix
	if prefix == "" {
		prefix = DefaultRevenuePrefix
	}
	return strings.HasPrefix(strings.TrimSpace(accountCode), prefix)
}

// =============================================================================
// RECORDS
// =============================================================================

// ReconciliationRecord is one row of the GST summary.
type ReconciliationRecord struct {
	AccountType   string
	GLPayable     decimal.Decimal
	TBDifference  decimal.Decimal
	NetDifference decimal.Decimal
}

// Reconcile computes one record per GST account type present in the GL
// entries, sorted by account type.
func Reconcile(gl []ledger.GLEntry, tb []ledger.TBEntry, opts Options) []ReconciliationRecord {
	glPayable := make(map[string]decimal.Decimal)
	for _, e := range gl {
		if !opts.IsGSTAccount(e.AccountLongText) {
			continue
		}
		glPayable[e.AccountLongText] = glPayable[e.AccountLongText].Add(e.CurrencyValue)
	}

	tbDifference := make(map[string]decimal.Decimal)
	for _, e := range tb {
		if !opts.IsGSTAccount(e.AccountLongText) {
			continue
		}
		tbDifference[e.AccountLongText] = tbDifference[e.AccountLongText].Add(e.PeriodCredit.Sub(e.PeriodDebit))
	}

	records := make([]ReconciliationRecord, 0, len(glPayable))
	for account, payable := range glPayable {
		diff, ok := tbDifference[account]
		if !ok {
			diff = decimal.Zero
		}
		records = append(records, ReconciliationRecord{
			AccountType:   account,
			GLPayable:     payable,
			TBDifference:  diff,
			NetDifference: payable.Add(diff),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].AccountType < records[j].AccountType
	})
	return records
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Output is everything the aggregator hands to the matcher and the sink.
type Output struct {
	Records []ReconciliationRecord

	// Revenue holds GL rows whose account code has the revenue prefix.
	Revenue *types.Table

	// GSTPayable holds GL rows on a GST account.
	GSTPayable *types.Table

	// TBGST holds trial-balance rows on a GST account, with the per-row
	// difference appended.
	TBGST *types.Table

	// TBOnly lists GST account types found in the TB but not in the GL.
	// They have no summary record.
	TBOnly []string
}

// Aggregate runs the reconciliation over normalized GL and TB tables.
func Aggregate(gl *types.Table, glCols ledger.GLColumns, tb *types.Table, tbCols ledger.TBColumns, opts Options) (*Output, error) {
	glEntries := ledger.GLEntries(gl, glCols)
	tbEntries := ledger.TBEntries(tb, tbCols)

	out := &Output{
		Records: Reconcile(glEntries, tbEntries, opts),
		Revenue: gl.Filter("Revenue GL", func(r types.Row) bool {
			return opts.IsRevenueAccount(ledger.DocumentKey(r[glCols.AccountCode]))
		}),
		GSTPayable: gl.Filter("GST Payable GL", func(r types.Row) bool {
			return opts.IsGSTAccount(types.CellString(r[glCols.AccountLongText]))
		}),
	}

	tbGST := tb.Filter("GST TB", func(r types.Row) bool {
		return opts.IsGSTAccount(types.CellString(r[tbCols.AccountLongText]))
	})
	diffs := make([]any, tbGST.Len())
	for i, r := range tbGST.Rows {
		diffs[i] = types.CellDecimal(r[tbCols.PeriodCredit]).Sub(types.CellDecimal(r[tbCols.PeriodDebit]))
	}
	withDiff, err := tbGST.WithColumn(TBDifferenceColumn, diffs)
	if err != nil {
		return nil, err
	}
	out.TBGST = withDiff

	inGL := make(map[string]bool, len(out.Records))
	for _, r := range out.Records {
		inGL[r.AccountType] = true
	}
	seen := make(map[string]bool)
	for _, e := range tbEntries {
		if opts.IsGSTAccount(e.AccountLongText) && !inGL[e.AccountLongText] && !seen[e.AccountLongText] {
			seen[e.AccountLongText] = true
			out.TBOnly = append(out.TBOnly, e.AccountLongText)
		}
	}
	sort.Strings(out.TBOnly)

	return out, nil
}
