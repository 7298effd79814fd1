package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one line of the classification-keyed sales aggregate.
type CategoryTotal struct {
	Label        string
	Rows         int
	TaxableValue decimal.Decimal
	IGSTAmt      decimal.Decimal
	CGSTAmt      decimal.Decimal
	SGSTAmt      decimal.Decimal
}

// Summarize totals the four monetary columns per classification label.
// When gstins is non-empty only rows whose GSTIN is in the list count.
// Labels are sorted ascending with the unclassified bucket last.
func Summarize(rows []LedgerRow, gstins ...string) []CategoryTotal {
	var filter map[string]bool
	if len(gstins) > 0 {
		filter = make(map[string]bool, len(gstins))
		for _, g := range gstins {
			filter[g] = true
		}
	}

	byLabel := make(map[string]*CategoryTotal)
	for _, r := range rows {
		if filter != nil && !filter[r.GSTIN] {
			continue
		}
		total, ok := byLabel[r.ClassificationLabel]
		if !ok {
			total = &CategoryTotal{Label: r.ClassificationLabel}
			byLabel[r.ClassificationLabel] = total
		}
		total.Rows++
		total.TaxableValue = total.TaxableValue.Add(r.TaxableValue)
		total.IGSTAmt = total.IGSTAmt.Add(r.IGSTAmt)
		total.CGSTAmt = total.CGSTAmt.Add(r.CGSTAmt)
		total.SGSTAmt = total.SGSTAmt.Add(r.SGSTAmt)
	}

	out := make([]CategoryTotal, 0, len(byLabel))
	for _, t := range byLabel {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Label, out[j].Label
		if a == LabelUnclassified || b == LabelUnclassified {
			return b == LabelUnclassified && a != LabelUnclassified
		}
		return a < b
	})
	return out
}

// GSTINs returns the distinct, sorted GSTIN values present in rows. This is
// the filter dimension of the sales aggregate.
func GSTINs(rows []LedgerRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.GSTIN] {
			seen[r.GSTIN] = true
			out = append(out, r.GSTIN)
		}
	}
	sort.Strings(out)
	return out
}
