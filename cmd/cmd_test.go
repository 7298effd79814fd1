package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/gstr1-reconciler/internal/config"
	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reader"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reconcile"
)

func TestInputFlags_Resolve(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"SD_sep.csv", "SR_sep.csv", "TB_sep.csv", "GL_sep.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a\n1\n"), 0o644))
	}
	override := filepath.Join(t.TempDir(), "ledger.csv")

	cmd := &cobra.Command{Use: "test"}
	flags := newInputFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--input-dir", dir, "--gl", override}))

	files, err := flags.resolve()
	require.NoError(t, err)
	assert.Equal(t, map[job.Input]string{
		job.InputSalesDebit:    filepath.Join(dir, "SD_sep.csv"),
		job.InputSalesReturn:   filepath.Join(dir, "SR_sep.csv"),
		job.InputTrialBalance:  filepath.Join(dir, "TB_sep.csv"),
		job.InputGeneralLedger: override,
	}, files)
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	sd := filepath.Join(dir, "sd.csv")
	require.NoError(t, os.WriteFile(sd, []byte("Document Type,Taxable value\nI,100\n"), 0o644))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	src, err := readSources(map[job.Input]string{
		job.InputSalesDebit:   sd,
		job.InputTrialBalance: filepath.Join(dir, "tb.pdf"),
	}, reader.Options{}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trial-Balance")
	require.NotNil(t, src.SalesDebit)
	assert.Equal(t, 1, src.SalesDebit.Len())
	assert.Nil(t, src.TrialBalance)
	assert.Len(t, src.Missing(), 3)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger, err = newLogger(config.LogConfig{Level: "warn", Format: "text"}, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = newLogger(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestRunSummary(t *testing.T) {
	res := job.Result{
		ID: "job-1",
		Summary: []reconcile.ReconciliationRecord{{
			AccountType:   reconcile.CentralGSTPayable,
			GLPayable:     decimal.NewFromInt(-90),
			TBDifference:  decimal.NewFromInt(90),
			NetDifference: decimal.Zero,
		}},
		TBOnly: []string{reconcile.IntegratedGSTPayable},
		Stats:  job.Stats{SalesRows: 3, Unclassified: 1},
	}

	s := runSummary(config.Config{CompanyCode: "1000"}, res, map[job.Input]string{job.InputSalesDebit: "sd.xlsx"}, "out.xlsx")
	assert.Equal(t, "job-1", s.JobID)
	assert.Equal(t, map[string]string{"Sales-Debit": "sd.xlsx"}, s.Inputs)
	require.Len(t, s.Accounts, 1)
	assert.Contains(t, s.Accounts[0], "-90.00")
	assert.Equal(t, []string{
		reconcile.IntegratedGSTPayable + " is in the trial balance only",
		"1 sales line(s) matched no classification rule",
	}, s.Warnings)
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.Equal(t, "gstrecon "+Version+" (built "+BuildDate+", "+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+")\n", buf.String())
}
