// =============================================================================
// GSTR-1 Reconciler - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the four sources
// without running the reconciliation or writing anything.
//
// COMMAND USAGE:
//   gstrecon validate [--sd ... --sr ... --tb ... --gl ... | --input-dir DIR]
//
// Every missing input and every unresolved column is reported in one run.
// The exit status is non-zero if the job would refuse to run.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gstr1-reconciler/internal/config"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reader"
	"github.com/ginjaninja78/gstr1-reconciler/internal/validation"
)

var validateInputs *inputFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the inputs and column headers without processing",
	Long: `The validate command reads the four sources and checks that every required
column can be found. Non-numeric amounts and sales lines without a document
number are reported as warnings.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateInputs = newInputFlags(validateCmd)
}

func runValidate() error {
	files, err := validateInputs.resolve()
	if err != nil {
		return fmt.Errorf("failed to select inputs: %w", err)
	}
	src, err := readSources(files, reader.Options{Sheet: appConfig.Source.Sheet, Delimiter: appConfig.Source.Delimiter}, log)
	if err != nil {
		return fmt.Errorf("failed to read inputs: %w", err)
	}

	specs, err := config.LoadFieldSpecs(appConfig.ColumnsFile)
	if err != nil {
		return err
	}

	result := validation.Validate(src, specs)
	fmt.Print(validation.FormatErrors(result))

	if !result.IsValid {
		return errors.New("validation failed")
	}

	c := result.Columns
	fmt.Println("\nResolved columns:")
	fmt.Printf("  Sales register:  document type %q, invoice type %q, document number %q\n",
		c.Sales.DocumentType, c.Sales.InvoiceType, c.Sales.DocumentNumber)
	fmt.Printf("  General ledger:  account %q, long text %q, value %q\n",
		c.GL.AccountCode, c.GL.AccountLongText, c.GL.CurrencyValue)
	fmt.Printf("  Trial balance:   long text %q, debit %q, credit %q\n",
		c.TB.AccountLongText, c.TB.PeriodDebit, c.TB.PeriodCredit)
	return nil
}
