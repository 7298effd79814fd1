// =============================================================================
// GSTR-1 Reconciler - Source Reader
// =============================================================================
//
// Loads the four source extracts (Sales-Debit, Sales-Return, Trial Balance,
// General Ledger) into in-memory tables.
//
// SUPPORTED FORMATS:
//   - .xlsx / .xlsm  read with excelize, first sheet unless one is named
//   - .csv / .txt    read with encoding/csv
//
// The first row of a source is its header row. Rows with no non-empty cell
// are skipped. Headers are returned as found; whitespace normalization is the
// normalizer's job.
//
// =============================================================================

package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// UnsupportedFormatError is returned by Open for an unknown file extension.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported source format %q (want .xlsx, .xlsm or .csv)", filepath.Ext(e.Path))
}

// Options tunes how a source is read. The zero value reads the first sheet of
// a workbook and comma-separated text.
type Options struct {
	// Sheet names the worksheet to read from a workbook.
	Sheet string

	// Delimiter for text sources: ",", ";", "|", "tab".
	Delimiter string
}

// Open reads a source file, choosing the reader by extension.
//
// PARAMETERS:
//   - path: The file to read.
//   - opts: Sheet and delimiter settings.
//
// RETURNS:
//   - The table, named after the file's base name.
//   - An error if the file cannot be read or its format is unknown.
func Open(path string, opts Options) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts.Sheet)
	case ".csv", ".txt":
		return ReadCSV(path, opts.Delimiter)
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
}

// tableName derives a table name from a file path.
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// headerNames names width columns. Blank header cells, and columns past the
// end of the header row, get a positional placeholder; repeated names get a
// numeric suffix. Every column stays addressable.
func headerNames(raw []string, width int) []string {
	if width < len(raw) {
		width = len(raw)
	}
	headers := make([]string, width)
	for i := range headers {
		h := ""
		if i < len(raw) {
			h = raw[i]
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return types.UniqueHeaders(headers)
}

func isBlank(cells []any) bool {
	for _, c := range cells {
		switch v := c.(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// buildTable turns a header row plus positional cells into a keyed table. The
// table is as wide as its widest record; readers trim trailing blank header
// cells, and data under them must survive.
func buildTable(name string, header []string, records [][]any) *types.Table {
	width := 0
	for _, cells := range records {
		if !isBlank(cells) && len(cells) > width {
			width = len(cells)
		}
	}
	headers := headerNames(header, width)

	t := types.NewTable(name, headers)
	for _, cells := range records {
		if isBlank(cells) {
			continue
		}
		row := make(types.Row, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
