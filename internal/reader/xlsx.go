package reader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// builtinDateFormats are the excelize built-in number format ids that render
// a serial number as a date or date-time.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// quoted literals and [..] sections (colours, locales) never carry date codes.
var formatLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// isDateFormat reports whether a custom number format code renders a date.
func isDateFormat(code string) bool {
	code = strings.ToLower(formatLiterals.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "yd")
}

// ReadXLSX reads one worksheet into a table.
//
// PARAMETERS:
//   - path: The workbook to read.
//   - sheet: The worksheet name; empty selects the first sheet.
//
// RETURNS:
//   - A table whose cells are nil, string, float64 or time.Time.
//   - An error if the workbook or sheet cannot be read.
//
// CELL TYPING:
//   Values are read raw (no number format applied). Text cells stay strings.
//   Numeric cells become float64, except those whose style carries a date
//   format, which are converted with ExcelDateToTime.
func ReadXLSX(path, sheet string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q of %s is empty", sheet, path)
	}

	c := &cellReader{file: f, sheet: sheet, dateStyles: make(map[int]bool)}
	records := make([][]any, 0, len(rows)-1)
	for r := 1; r < len(rows); r++ {
		cells := make([]any, len(rows[r]))
		for col, raw := range rows[r] {
			v, err := c.value(col+1, r+1, raw)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			cells[col] = v
		}
		records = append(records, cells)
	}

	return buildTable(tableName(path), rows[0], records), nil
}

// cellReader types raw cell values, caching the date check per style id.
type cellReader struct {
	file       *excelize.File
	sheet      string
	dateStyles map[int]bool
}

func (c *cellReader) value(col, row int, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	cellType, err := c.file.GetCellType(c.sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", cell, err)
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool,
		excelize.CellTypeError, excelize.CellTypeDate:
		return raw, nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}

	isDate, err := c.isDateCell(cell)
	if err != nil {
		return nil, err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(n, false)
		if err != nil {
			return n, nil
		}
		return t, nil
	}
	return n, nil
}

func (c *cellReader) isDateCell(cell string) (bool, error) {
	id, err := c.file.GetCellStyle(c.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("style of cell %s: %w", cell, err)
	}
	if isDate, ok := c.dateStyles[id]; ok {
		return isDate, nil
	}

	style, err := c.file.GetStyle(id)
	if err != nil {
		return false, fmt.Errorf("style %d: %w", id, err)
	}
	isDate := builtinDateFormats[style.NumFmt]
	if style.CustomNumFmt != nil {
		isDate = isDateFormat(*style.CustomNumFmt)
	}
	c.dateStyles[id] = isDate
	return isDate, nil
}
