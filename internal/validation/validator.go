// =============================================================================
// GSTR-1 Reconciler - Validation Engine
// =============================================================================
//
// Structural pre-flight over the four source tables, run by the validate
// command before anything is written.
//
// CHECKS:
//   Errors (the job would refuse to run):
//     - a required input is missing
//     - a semantic field resolves to no header
//   Warnings (the job runs, values are coerced):
//     - numeric cells that do not parse and will count as 0
//     - sales lines without a document number, which can never match the GL
//
// ERROR HANDLING:
//   Problems are collected, not thrown. One run reports every missing input
//   and every unresolved column at once.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/gstr1-reconciler/internal/columns"
	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/normalize"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError is a single finding.
type ValidationError struct {
	// Severity is "error" (the job cannot run) or "warning".
	Severity string

	// Input is the source the finding is about.
	Input job.Input

	// Field is the semantic field or header involved, if any.
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying typed error for fatal findings.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(e.Severity), e.Input)
	if e.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains every finding of one run.
type ValidationResult struct {
	// IsValid is true if there are no errors. Warnings do not count.
	IsValid bool

	Errors       []*ValidationError
	ErrorCount   int
	WarningCount int

	// Columns is the resolution that succeeded, for display.
	Columns job.Columns
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validate checks the sources against the field map.
//
// PARAMETERS:
//   - src: The raw sources; any may be nil.
//   - specs: The field map; nil uses the built-in defaults.
//
// RETURNS:
//   - The collected findings. IsValid is false if the job would fail.
func Validate(src job.Sources, specs map[string]columns.FieldSpec) *ValidationResult {
	if specs == nil {
		specs = columns.DefaultSpecs()
	}
	result := &ValidationResult{}

	for _, err := range src.Missing() {
		var missing *job.MissingInputError
		errors.As(err, &missing)
		result.add(&ValidationError{
			Severity: SeverityError,
			Input:    missing.Input,
			Message:  "input not supplied",
			Err:      err,
		})
	}

	prepared := job.Prepare(src)
	cols, problems := job.ResolveColumns(prepared, specs)
	result.Columns = cols
	unresolved := make(map[job.Input]bool)
	for _, err := range problems {
		result.add(columnFinding(err))
		var colErr *job.ColumnError
		if errors.As(err, &colErr) {
			unresolved[colErr.Input] = true
		}
	}

	if prepared.Sales != nil && !unresolved[job.InputSalesRegister] {
		checkNumeric(result, job.InputSalesRegister, prepared.Sales, cols.Sales.Numeric())
		checkDocumentNumbers(result, prepared.Sales, cols.Sales)
	}
	if prepared.GeneralLedger != nil && !unresolved[job.InputGeneralLedger] {
		checkNumeric(result, job.InputGeneralLedger, prepared.GeneralLedger, []string{cols.GL.CurrencyValue})
	}
	if prepared.TrialBalance != nil && !unresolved[job.InputTrialBalance] {
		checkNumeric(result, job.InputTrialBalance, prepared.TrialBalance, []string{cols.TB.PeriodDebit, cols.TB.PeriodCredit})
	}

	result.IsValid = result.ErrorCount == 0
	return result
}

func columnFinding(err error) *ValidationError {
	finding := &ValidationError{Severity: SeverityError, Message: err.Error(), Err: err}

	var colErr *job.ColumnError
	if errors.As(err, &colErr) {
		finding.Input = colErr.Input
		finding.Message = colErr.Err.Error()
	}
	var notFound *columns.ColumnNotFoundError
	if errors.As(err, &notFound) {
		finding.Field = notFound.Field
		finding.Message = fmt.Sprintf("no header contains [%s]; headers are [%s]",
			strings.Join(notFound.Expected, ", "), strings.Join(notFound.Actual, ", "))
	}
	return finding
}

// checkNumeric warns once per column about cells that will be coerced to 0.
func checkNumeric(result *ValidationResult, in job.Input, t *types.Table, headers []string) {
	for _, h := range headers {
		bad := 0
		example := ""
		for _, row := range t.Rows {
			if _, ok := normalize.TryParseNumber(row[h]); !ok {
				if bad == 0 {
					example = types.CellString(row[h])
				}
				bad++
			}
		}
		if bad > 0 {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Input:    in,
				Field:    h,
				Message:  fmt.Sprintf("%d value(s) are not numeric and will be treated as 0 (e.g. %q)", bad, example),
			})
		}
	}
}

func checkDocumentNumbers(result *ValidationResult, t *types.Table, c ledger.SalesColumns) {
	empty := 0
	for _, row := range t.Rows {
		if ledger.DocumentKey(row[c.DocumentNumber]) == "" {
			empty++
		}
	}
	if empty > 0 {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Input:    job.InputSalesRegister,
			Field:    c.DocumentNumber,
			Message:  fmt.Sprintf("%d sales line(s) have no document number and will be flagged No", empty),
		})
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors renders the findings one per line, errors first.
func FormatErrors(result *ValidationResult) string {
	if len(result.Errors) == 0 {
		return "No problems found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", result.ErrorCount, result.WarningCount)
	for _, severity := range []string{SeverityError, SeverityWarning} {
		for _, e := range result.Errors {
			if e.Severity == severity {
				b.WriteString("  ")
				b.WriteString(e.Error())
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
