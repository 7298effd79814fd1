package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// DefaultCreditNoteType is the DocumentType value that marks a credit note.
const DefaultCreditNoteType = "C"

// SignPolicy selects how credit-note amounts are signed.
type SignPolicy string

const (
	// SignForceNegative sets value := -abs(value). Reapplying it is a no-op.
	SignForceNegative SignPolicy = "force_negative"

	// SignNegate sets value := -value. Reapplying it flips the sign back, so
	// it must only run once per job.
	SignNegate SignPolicy = "negate"
)

// ParseSignPolicy validates a configured policy name.
func ParseSignPolicy(s string) (SignPolicy, error) {
	switch p := SignPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case SignForceNegative, SignNegate:
		return p, nil
	case "":
		return SignForceNegative, nil
	default:
		return "", fmt.Errorf("unknown sign policy %q (want %q or %q)", s, SignForceNegative, SignNegate)
	}
}

// Apply signs one monetary value under the policy.
func (p SignPolicy) Apply(v decimal.Decimal) decimal.Decimal {
	if p == SignNegate {
		return v.Neg()
	}
	return v.Abs().Neg()
}

// IsCreditNote reports whether a DocumentType value marks a credit note.
func IsCreditNote(documentType, creditNoteType string) bool {
	if creditNoteType == "" {
		creditNoteType = DefaultCreditNoteType
	}
	return strings.TrimSpace(documentType) == creditNoteType
}

// AdjustSigns returns a copy of a normalized sales table where every credit
// note row has its four monetary columns signed under policy. Other rows are
// copied untouched.
func AdjustSigns(t *types.Table, c SalesColumns, creditNoteType string, policy SignPolicy) *types.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		if !IsCreditNote(types.CellString(row[c.DocumentType]), creditNoteType) {
			continue
		}
		for _, h := range c.Monetary() {
			row[h] = policy.Apply(types.CellDecimal(row[h]))
		}
	}
	return out
}
