package reader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, name string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Document Number", "Taxable value", "Posting Date", "GSTIN of Taxpayer", ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"1900000012", 1000.5, 45000.0, "007"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"1900000013", -20, 45001.0, "29AAACB1234F1Z5", "note"}))

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C4", dateStyle))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, "SD_export.xlsx")

	tbl, err := ReadXLSX(path, "")
	require.NoError(t, err)

	assert.Equal(t, "SD_export", tbl.Name)
	assert.Equal(t, []string{"Document Number", "Taxable value", "Posting Date", "GSTIN of Taxpayer", "Column_5"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2, "blank row 3 is skipped")

	first := tbl.Rows[0]
	assert.Equal(t, "1900000012", first["Document Number"])
	assert.Equal(t, 1000.5, first["Taxable value"])
	assert.Equal(t, "007", first["GSTIN of Taxpayer"])
	assert.Nil(t, first["Column_5"])

	posted, ok := first["Posting Date"].(time.Time)
	require.True(t, ok, "date-styled cell is a time.Time")
	assert.Equal(t, "2023-03-15", posted.Format("2006-01-02"))

	assert.Equal(t, float64(-20), tbl.Rows[1]["Taxable value"])
	assert.Equal(t, "note", tbl.Rows[1]["Column_5"])
}

func TestReadXLSX_UnknownSheet(t *testing.T) {
	path := writeWorkbook(t, "GL.xlsx")

	_, err := ReadXLSX(path, "Nope")
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TB.csv")
	content := "\uFEFFG/L Acct Long Text;Period 09 D;Period 09 C\n" +
		"Central GST Payable;\"1,000.00\";250\n" +
		";;\n" +
		"Trade Receivables;5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := ReadCSV(path, ";")
	require.NoError(t, err)

	assert.Equal(t, []string{"G/L Acct Long Text", "Period 09 D", "Period 09 C"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "1,000.00", tbl.Rows[0]["Period 09 D"])
	assert.Nil(t, tbl.Rows[1]["Period 09 C"], "short rows are padded")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "gl.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n1,2\n"), 0o644))

	tbl, err := Open(csvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Open(filepath.Join(dir, "gl.pdf"), Options{})
	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Contains(t, err.Error(), ".pdf")
}

func TestReaders_KeepColumnsPastHeader(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Document Number", "Taxable value"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"1", 10, "remark"}))
	xlsxPath := filepath.Join(dir, "sd.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	csvPath := filepath.Join(dir, "sd.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Document Number,Taxable value\n1,10,remark\n"), 0o644))

	for _, path := range []string{xlsxPath, csvPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			tbl, err := Open(path, Options{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Document Number", "Taxable value", "Column_3"}, tbl.Headers)
			require.Len(t, tbl.Rows, 1)
			assert.Equal(t, "remark", tbl.Rows[0]["Column_3"])
		})
	}
}

func TestHeaderNames(t *testing.T) {
	assert.Equal(t, []string{"A", "Column_2", "Column_3"}, headerNames([]string{"A", " "}, 3))
	assert.Equal(t, []string{"A", "B"}, headerNames([]string{"A", "B"}, 1))
	assert.Equal(t, []string{"Amount", "Amount.1"}, headerNames([]string{"Amount", "Amount"}, 2))
}
