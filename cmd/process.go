// =============================================================================
// GSTR-1 Reconciler - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one reconciliation job
// and writes its report.
//
// COMMAND USAGE:
//   gstrecon process [flags]
//
// FLAGS:
//   --sd, --sr, --tb, --gl : Paths to the four source extracts
//   --input-dir            : Discover the sources in a directory instead
//   --company              : Company code for the output file name
//   --format               : Report format, xlsx or xml
//   --dry-run              : Run the job and print the summary, write nothing
//
// PROCESSING PIPELINE:
//   1. Select and read the four sources
//   2. Load the field map
//   3. Run the job
//   4. Write the report into a staging directory
//   5. Move the report into the output directory
//   6. Write the run summary log next to it
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gstr1-reconciler/internal/config"
	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reader"
	"github.com/ginjaninja78/gstr1-reconciler/internal/report"
	"github.com/ginjaninja78/gstr1-reconciler/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	processInputs *inputFlags

	// dryRun runs the job without writing any file.
	dryRun bool

	company      string
	reportFormat string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the reconciliation and write the GSTR-1 workbook",
	Long: `The process command reads the Sales-Debit, Sales-Return, Trial Balance and
General Ledger extracts, runs the reconciliation and writes the report into
the output directory.

If any input is missing, or any required column cannot be found, nothing is
written and every problem is reported.

On success:
  - {company}_GSTR-1_Workbook.xlsx (or _Summary.xml) is placed in output_dir
  - a run summary log is written next to it`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processInputs = newInputFlags(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the job and print the summary without writing output files",
	)

	processCmd.Flags().StringVar(
		&company,
		"company",
		"",
		"Company code for the output file name (overrides company_code)",
	)

	processCmd.Flags().StringVar(
		&reportFormat,
		"format",
		"",
		"Report format: xlsx or xml (overrides report.format)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess() error {
	cfg := *appConfig
	if company != "" {
		cfg.CompanyCode = company
	}
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: READ SOURCES
	// =========================================================================

	files, err := processInputs.resolve()
	if err != nil {
		return fmt.Errorf("failed to select inputs: %w", err)
	}
	src, err := readSources(files, reader.Options{Sheet: cfg.Source.Sheet, Delimiter: cfg.Source.Delimiter}, log)
	if err != nil {
		return fmt.Errorf("failed to read inputs: %w", err)
	}

	// =========================================================================
	// STEP 2: RUN THE JOB
	// =========================================================================

	specs, err := config.LoadFieldSpecs(cfg.ColumnsFile)
	if err != nil {
		return err
	}

	j := job.New(job.Settings{
		Specs:          specs,
		Reconcile:      cfg.Reconciliation.Options(),
		SignPolicy:     cfg.Sales.SignPolicy,
		CreditNoteType: cfg.Sales.CreditNoteType,
	}, log.WithField("company", cfg.CompanyCode))

	res, err := j.Run(src)
	if err != nil {
		return fmt.Errorf("reconciliation failed:\n%w", err)
	}

	printResult(res)
	if dryRun {
		fmt.Println("\nDry run: no files written.")
		return nil
	}

	// =========================================================================
	// STEP 3: WRITE AND PUBLISH THE REPORT
	// =========================================================================

	output, err := writeReport(cfg, res)
	if err != nil {
		return err
	}

	summary := runSummary(cfg, res, files, output)
	summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
	if err != nil {
		// The report is already published; a missing summary is not fatal.
		log.WithError(err).Warn("failed to write run summary")
	}

	log.WithFields(logrus.Fields{
		"job_id":  res.ID,
		"output":  output,
		"summary": summaryPath,
	}).Info("report written")
	fmt.Printf("\nReport:  %s\n", output)
	return nil
}

// writeReport renders the report in a private staging directory and moves it
// into the output directory. The staging directory is removed on every path.
func writeReport(cfg config.Config, res job.Result) (string, error) {
	ws, err := utils.NewWorkspace(cfg.WorkDir, cfg.OutputDir, res.ID)
	if err != nil {
		return "", err
	}
	defer ws.Close()

	name := utils.OutputFileName(cfg.CompanyCode, cfg.Report.Format)
	staged := ws.Path(name)

	switch cfg.Report.Format {
	case config.FormatXML:
		file, err := os.Create(staged)
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", name, err)
		}
		if err := report.WriteXML(file, res, cfg.CompanyCode); err != nil {
			file.Close()
			return "", err
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("failed to close %s: %w", name, err)
		}
	default:
		opts := report.DefaultWorkbookOptions()
		opts.Pivot = cfg.Report.Pivot
		if err := report.WriteWorkbook(staged, res, opts); err != nil {
			return "", err
		}
	}

	return ws.Publish(name)
}

func runSummary(cfg config.Config, res job.Result, files map[job.Input]string, output string) utils.RunSummary {
	summary := utils.RunSummary{
		JobID:        res.ID,
		CompanyCode:  cfg.CompanyCode,
		StartTime:    res.StartedAt,
		EndTime:      time.Now(),
		Inputs:       inputNames(files),
		OutputFile:   output,
		SalesRows:    res.Stats.SalesRows,
		GLRows:       res.Stats.GLRows,
		TBRows:       res.Stats.TBRows,
		CreditNotes:  res.Stats.CreditNotes,
		Unclassified: res.Stats.Unclassified,
	}
	for _, r := range res.Summary {
		summary.Accounts = append(summary.Accounts, fmt.Sprintf("%-32s GL %14s  TB %14s  Net %14s",
			r.AccountType, r.GLPayable.StringFixed(2), r.TBDifference.StringFixed(2), r.NetDifference.StringFixed(2)))
	}
	for _, account := range res.TBOnly {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s is in the trial balance only", account))
	}
	if res.Stats.Unclassified > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%d sales line(s) matched no classification rule", res.Stats.Unclassified))
	}
	return summary
}

// printResult writes the GST summary and counts to stdout.
func printResult(res job.Result) {
	fmt.Println("=== GSTR-1 Reconciliation ===")
	fmt.Printf("Job ID:          %s\n", res.ID)
	fmt.Printf("Sales lines:     %d\n", res.Stats.SalesRows)
	fmt.Printf("Credit notes:    %d\n", res.Stats.CreditNotes)
	fmt.Printf("Unclassified:    %d\n", res.Stats.Unclassified)
	fmt.Printf("Not in revenue:  %d\n", res.Stats.NotInRevenue)
	fmt.Printf("Not in GST GL:   %d\n", res.Stats.NotInGSTLedger)

	fmt.Println("\nGST Summary:")
	for _, r := range res.Summary {
		fmt.Printf("  %-32s GL %14s  TB %14s  Net %14s\n",
			r.AccountType, r.GLPayable.StringFixed(2), r.TBDifference.StringFixed(2), r.NetDifference.StringFixed(2))
	}
	for _, account := range res.TBOnly {
		fmt.Printf("  %-32s (trial balance only)\n", account)
	}
}
