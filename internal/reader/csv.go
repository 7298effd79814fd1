package reader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

const utf8BOM = "\uFEFF"

// ReadCSV reads a delimited text export into a table. All cells are strings;
// numeric parsing happens in the normalizer.
func ReadCSV(path, delimiter string) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(bufio.NewReader(file))
	configureReader(r, delimiter)

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", path)
	}

	header := all[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	records := make([][]any, 0, len(all)-1)
	for _, rec := range all[1:] {
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = v
		}
		records = append(records, cells)
	}
	return buildTable(tableName(path), header, records), nil
}

// configureReader sets the delimiter and the lenient parsing flags the ERP
// exports need.
func configureReader(r *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "tab", "TAB":
		r.Comma = '\t'
	case "|", "pipe", "PIPE":
		r.Comma = '|'
	case ";", "semicolon":
		r.Comma = ';'
	default:
		if len(delimiter) > 0 {
			r.Comma = rune(delimiter[0])
		} else {
			r.Comma = ','
		}
	}

	// Exports are ragged at the end of the file (totals, footers).
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
}
