// =============================================================================
// GSTR-1 Reconciler - Row Normalizer
// =============================================================================
//
// The normalizer turns a raw table from a Source Reader into the shape the
// core expects. It never fails: values it cannot interpret are coerced.
//
// OPERATIONS:
//   1. Headers: trim and collapse whitespace runs ("G/L  Account" -> "G/L Account").
//   2. Numeric columns: parse to decimal; anything unparseable becomes 0.
//   3. Non-finite floats (+Inf, -Inf, NaN) become missing.
//   4. time.Time cells become "YYYY-MM-DD" strings.
//   5. Missing cells (nil) become "".
//
// Normalizing already-normalized data returns an equal table.
//
// =============================================================================

package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gstr1-reconciler/internal/columns"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// DateLayout is the rendering used for date cells.
const DateLayout = "2006-01-02"

// =============================================================================
// HEADERS
// =============================================================================

// Headers returns a copy of t with every header whitespace-normalized and the
// row keys renamed to match. When two raw headers collapse to the same text,
// the later one is suffixed (".1", ".2", ...) so both columns survive.
func Headers(t *types.Table) *types.Table {
	headers := types.UniqueHeaders(columns.NormalizeHeaders(t.Headers))

	out := types.NewTable(t.Name, headers)
	out.Rows = make([]types.Row, len(t.Rows))
	for i, row := range t.Rows {
		clean := make(types.Row, len(headers))
		for j, raw := range t.Headers {
			clean[headers[j]] = row[raw]
		}
		out.Rows[i] = clean
	}
	return out
}

// =============================================================================
// VALUES
// =============================================================================

// Values returns a copy of t with cell values sanitized. numeric lists the
// (already normalized) headers whose values must be coerced to decimals.
func Values(t *types.Table, numeric ...string) *types.Table {
	isNumeric := make(map[string]bool, len(numeric))
	for _, h := range numeric {
		isNumeric[h] = true
	}

	out := types.NewTable(t.Name, t.Headers)
	out.Rows = make([]types.Row, len(t.Rows))
	for i, row := range t.Rows {
		clean := make(types.Row, len(t.Headers))
		for _, h := range t.Headers {
			if isNumeric[h] {
				clean[h] = ParseNumber(row[h])
				continue
			}
			clean[h] = sanitizeCell(row[h])
		}
		out.Rows[i] = clean
	}
	return out
}

// Table runs Headers then Values.
func Table(t *types.Table, numeric ...string) *types.Table {
	return Values(Headers(t), numeric...)
}

// sanitizeCell applies rules 3-5 to a non-numeric cell.
func sanitizeCell(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return ""
		}
		return val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(DateLayout)
	default:
		return v
	}
}

// =============================================================================
// NUMBER PARSING
// =============================================================================

// ParseNumber coerces a cell to a decimal. It is deliberately lenient:
// thousands separators and surrounding spaces are ignored, and anything that
// still fails to parse (including infinities and NaN) yields zero.
func ParseNumber(v any) decimal.Decimal {
	d, _ := TryParseNumber(v)
	return d
}

// TryParseNumber is ParseNumber that also reports whether the cell held a
// usable number. Empty cells count as zero and are reported as usable.
func TryParseNumber(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, true
	case decimal.Decimal:
		return val, true
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(val), true
	case float32:
		return TryParseNumber(float64(val))
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		return parseNumberString(val)
	default:
		return decimal.Zero, false
	}
}

func parseNumberString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
