// =============================================================================
// GSTR-1 Reconciler - Cross-Reference Matcher
// =============================================================================
//
// Flags, for every sales line, whether its document number was posted to a
// revenue account and whether it was posted to a GST payable account.
//
// The flags are computed once from the job's input snapshot. A spreadsheet
// lookup formula over the rendered sheets evaluates to the same values for the
// same data; keeping that formula live is a report concern.
//
// =============================================================================

package crossref

import (
	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// Output column names and values.
const (
	RevenueColumn    = "Found in Revenue GL"
	GSTPayableColumn = "Found in GST Payable GL"

	Yes = "Yes"
	No  = "No"
)

// MatchFlag is the pair of presence flags for one sales line.
type MatchFlag struct {
	InRevenue    bool
	InGSTPayable bool
}

// Revenue renders the revenue flag.
func (m MatchFlag) Revenue() string { return yesNo(m.InRevenue) }

// GSTPayable renders the GST payable flag.
func (m MatchFlag) GSTPayable() string { return yesNo(m.InGSTPayable) }

func yesNo(b bool) string {
	if b {
		return Yes
	}
	return No
}

// DocumentSet is a set of document-number keys.
type DocumentSet map[string]struct{}

// NewDocumentSet collects the keys of one column of a GL subset. Empty
// identifiers are not members.
func NewDocumentSet(t *types.Table, documentColumn string) DocumentSet {
	set := make(DocumentSet)
	if t == nil {
		return set
	}
	for _, row := range t.Rows {
		key := ledger.DocumentKey(row[documentColumn])
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// Contains reports membership of a key.
func (s DocumentSet) Contains(key string) bool {
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

// Matcher holds the two GL-derived document sets.
type Matcher struct {
	revenue    DocumentSet
	gstPayable DocumentSet
}

// NewMatcher builds both sets from the aggregator's subsets.
func NewMatcher(revenue, gstPayable *types.Table, glDocumentColumn string) *Matcher {
	return &Matcher{
		revenue:    NewDocumentSet(revenue, glDocumentColumn),
		gstPayable: NewDocumentSet(gstPayable, glDocumentColumn),
	}
}

// Match computes the flags for one document number.
func (m *Matcher) Match(documentNumber string) MatchFlag {
	key := ledger.DocumentKey(documentNumber)
	return MatchFlag{
		InRevenue:    m.revenue.Contains(key),
		InGSTPayable: m.gstPayable.Contains(key),
	}
}

// MatchRows computes flags for every sales row in order.
func (m *Matcher) MatchRows(rows []ledger.LedgerRow) []MatchFlag {
	flags := make([]MatchFlag, len(rows))
	for i, r := range rows {
		flags[i] = m.Match(r.DocumentNumber)
	}
	return flags
}

// Annotate appends the two "Yes"/"No" columns to the sales table. rows must be
// the typed view of t in the same order.
func (m *Matcher) Annotate(t *types.Table, rows []ledger.LedgerRow) (*types.Table, []MatchFlag, error) {
	flags := m.MatchRows(rows)

	revenue := make([]any, len(flags))
	gst := make([]any, len(flags))
	for i, f := range flags {
		revenue[i] = f.Revenue()
		gst[i] = f.GSTPayable()
	}

	out, err := t.WithColumn(RevenueColumn, revenue)
	if err != nil {
		return nil, nil, err
	}
	out, err = out.WithColumn(GSTPayableColumn, gst)
	if err != nil {
		return nil, nil, err
	}
	return out, flags, nil
}
