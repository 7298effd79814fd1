// =============================================================================
// GSTR-1 Reconciler - Shared Types
// =============================================================================
//
// This package contains the tabular types handed from one pipeline stage to
// the next. Keeping them here avoids import cycles between:
//   - reader     (produces raw tables)
//   - normalize  (cleans them)
//   - job        (threads them through the core)
//   - report     (consumes the final tables)
//
// CELL VALUES:
//   A cell holds one of: nil, string, float64, time.Time, decimal.Decimal.
//   Readers produce strings and time.Time; the normalizer turns designated
//   numeric columns into decimal.Decimal and every missing value into "".
//
// =============================================================================

package types

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TABLE TYPES
// =============================================================================

// Row is one record of a table keyed by header name.
type Row map[string]any

// Table is an ordered set of named columns plus its rows.
type Table struct {
	// Name identifies the source (e.g. "Sales-Debit") in logs and errors.
	Name string

	// Headers keeps the column order of the source.
	Headers []string

	// Rows contains the data rows. Every row is expected to carry a key for
	// every header, but readers of a row must tolerate absent keys.
	Rows []Row
}

// NewTable creates an empty table with the given headers.
func NewTable(name string, headers []string) *Table {
	h := make([]string, len(headers))
	copy(h, headers)
	return &Table{Name: name, Headers: h, Rows: []Row{}}
}

// UniqueHeaders returns headers with repeated names suffixed ".1", ".2", ...
// in order of appearance. The first occurrence keeps its name.
func UniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	taken := make(map[string]bool, len(headers))
	for _, h := range headers {
		taken[h] = true
	}
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}

// Clone returns a deep copy of the table structure. Cell values are copied by
// value, which is enough since none of the cell types are mutable.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := NewTable(t.Name, t.Headers)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasHeader reports whether the table has a column with exactly this name.
func (t *Table) HasHeader(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// WithColumn returns a copy of the table with a column appended (or replaced
// when the header already exists). The receiver is left untouched.
func (t *Table) WithColumn(header string, values []any) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", header, len(values), len(t.Rows))
	}
	out := t.Clone()
	if !out.HasHeader(header) {
		out.Headers = append(out.Headers, header)
	}
	for i := range out.Rows {
		out.Rows[i][header] = values[i]
	}
	return out, nil
}

// Filter returns a new table holding only the rows for which keep is true.
func (t *Table) Filter(name string, keep func(Row) bool) *Table {
	out := NewTable(name, t.Headers)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row.Clone())
		}
	}
	return out
}

// Clone copies a row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// =============================================================================
// CONCATENATION
// =============================================================================

// Concat stacks tables vertically. The resulting header list is the union of
// all headers in first-seen order; cells a source table does not have are
// left nil so the normalizer renders them as empty strings.
func Concat(name string, tables ...*Table) *Table {
	var headers []string
	seen := make(map[string]bool)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, h := range t.Headers {
			if !seen[h] {
				seen[h] = true
				headers = append(headers, h)
			}
		}
	}

	out := NewTable(name, headers)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			merged := make(Row, len(headers))
			for _, h := range headers {
				merged[h] = row[h]
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// =============================================================================
// CELL HELPERS
// =============================================================================

// CellString renders a cell as text the way it should appear in a report.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprint(val)
	}
}

// CellDecimal returns the decimal held by a normalized numeric cell, or zero.
func CellDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	default:
		return decimal.Zero
	}
}
