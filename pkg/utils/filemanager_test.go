package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestWorkspace_PublishAndClose(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")

	ws, err := NewWorkspace(filepath.Join(root, "work"), out, "job-1")
	require.NoError(t, err)
	assert.DirExists(t, ws.Dir)
	assert.Contains(t, filepath.Base(ws.Dir), "gstrecon-job-1-")

	require.NoError(t, os.WriteFile(ws.Path("report.xlsx"), []byte("data"), 0o644))
	final, err := ws.Publish("report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "report.xlsx"), final)
	assert.FileExists(t, final)
	assert.NoFileExists(t, ws.Path("report.xlsx"))

	require.NoError(t, ws.Close())
	assert.NoDirExists(t, ws.Dir)
	require.NoError(t, ws.Close())
}

func TestWorkspace_CloseAfterFailure(t *testing.T) {
	root := t.TempDir()

	run := func() (dir string, err error) {
		ws, err := NewWorkspace(root, filepath.Join(root, "out"), "")
		if err != nil {
			return "", err
		}
		defer ws.Close()

		dir = ws.Dir
		_ = os.WriteFile(ws.Path("partial.xlsx"), []byte("half"), 0o644)
		_, err = ws.Publish("missing.xlsx")
		return dir, err
	}

	dir, err := run()
	require.Error(t, err)
	assert.NoDirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(root, "out", "partial.xlsx"))
}

func TestDiscoverInputs(t *testing.T) {
	dir := t.TempDir()
	sd := touch(t, dir, "SD_Sep2024.xlsx")
	sr := touch(t, dir, "sr_sep2024.csv")
	gl := touch(t, dir, "GL dump.XLSX")
	touch(t, dir, "notes_tb.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tb_archive.xlsx"), 0o755))

	patterns := map[string]string{"sd": "*sd*", "sr": "*sr*", "tb": "*tb*", "gl": "*gl*"}
	found, err := DiscoverInputs(dir, patterns)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"sd": sd, "sr": sr, "gl": gl}, found)
}

func TestDiscoverInputs_Ambiguous(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tb_aug.xlsx")
	touch(t, dir, "tb_sep.xlsx")

	_, err := DiscoverInputs(dir, map[string]string{"tb": "*tb*"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 files match")
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "1000_GSTR-1_Workbook.xlsx", OutputFileName("1000", "xlsx"))
	assert.Equal(t, "1000_GSTR-1_Summary.xml", OutputFileName(" 1000 ", "XML"))
	assert.Equal(t, "IN_01_GSTR-1_Workbook.xlsx", OutputFileName("IN/01", "xlsx"))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 10, 5, 9, 30, 0, 0, time.UTC)

	path, err := WriteSummaryLog(RunSummary{
		JobID:       "abc",
		CompanyCode: "1000",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Second),
		Inputs:      map[string]string{"sd": "SD.xlsx"},
		OutputFile:  "1000_GSTR-1_Workbook.xlsx",
		SalesRows:   12,
		Accounts:    []string{"Central GST Payable  GL -45.00  TB 45.00  Net 0.00"},
		Warnings:    []string{"Integrated GST Payable is in the trial balance only"},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1000_run_summary_20241005_093000.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Job ID:         abc")
	assert.Contains(t, text, "Sales rows:     12")
	assert.Contains(t, text, "Duration:       2s")
	assert.Contains(t, text, "Central GST Payable")
	assert.Contains(t, text, "trial balance only")
	assert.Contains(t, text, "End of Summary")
}
