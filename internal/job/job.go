// =============================================================================
// GSTR-1 Reconciler - Job Pipeline
// =============================================================================
//
// A Job turns the four source tables into every output table of one
// reconciliation run.
//
// PIPELINE:
//   1. Check that all four inputs are present
//   2. Normalize header whitespace per table
//   3. Stack Sales-Debit and Sales-Return into the sales register
//   4. Resolve every semantic field against the actual headers
//   5. Coerce numeric fields, neutralize non-finite values, render dates
//   6. Apply the credit-note sign policy
//   7. Classify every sales line
//   8. Reconcile GL against TB and split out the Revenue / GST payable subsets
//   9. Flag every sales line against those subsets
//  10. Build the classification aggregate
//
// Steps 1 and 4 are the only ones that can fail. A failure there aborts the
// whole job; there is no partial Result.
//
// Inputs are never modified. Every stage works on a copy.
//
// =============================================================================

package job

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/gstr1-reconciler/internal/columns"
	"github.com/ginjaninja78/gstr1-reconciler/internal/crossref"
	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/normalize"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reconcile"
	"github.com/ginjaninja78/gstr1-reconciler/internal/types"
)

// SalesRegisterName names the combined sales table.
const SalesRegisterName = "Sales register"

// =============================================================================
// INPUTS AND SETTINGS
// =============================================================================

// Sources are the four raw tables handed over by the source reader.
type Sources struct {
	SalesDebit    *types.Table
	SalesReturn   *types.Table
	TrialBalance  *types.Table
	GeneralLedger *types.Table
}

// Table returns the source for an input.
func (s Sources) Table(in Input) *types.Table {
	switch in {
	case InputSalesDebit:
		return s.SalesDebit
	case InputSalesReturn:
		return s.SalesReturn
	case InputTrialBalance:
		return s.TrialBalance
	case InputGeneralLedger:
		return s.GeneralLedger
	}
	return nil
}

// Missing returns one MissingInputError per absent source, in AllInputs order.
func (s Sources) Missing() []error {
	var errs []error
	for _, in := range AllInputs() {
		if s.Table(in) == nil {
			errs = append(errs, &MissingInputError{Input: in})
		}
	}
	return errs
}

// Settings carries the run-time policy choices.
type Settings struct {
	Specs          map[string]columns.FieldSpec
	Reconcile      reconcile.Options
	SignPolicy     ledger.SignPolicy
	CreditNoteType string
}

// DefaultSettings returns the built-in field map, exact account matching and
// the force-negative sign policy.
func DefaultSettings() Settings {
	return Settings{
		Specs:          columns.DefaultSpecs(),
		Reconcile:      reconcile.DefaultOptions(),
		SignPolicy:     ledger.SignForceNegative,
		CreditNoteType: ledger.DefaultCreditNoteType,
	}
}

func applySettingsDefaults(s *Settings) {
	if s.Specs == nil {
		s.Specs = columns.DefaultSpecs()
	}
	if s.SignPolicy == "" {
		s.SignPolicy = ledger.SignForceNegative
	}
	if s.CreditNoteType == "" {
		s.CreditNoteType = ledger.DefaultCreditNoteType
	}
	if s.Reconcile.Mode == "" {
		s.Reconcile.Mode = reconcile.MatchExact
	}
}

// =============================================================================
// JOB
// =============================================================================

// Job is a single reconciliation run. A Job is not reused; create one per run.
type Job struct {
	ID       string
	settings Settings
	logger   logrus.FieldLogger
}

// New creates a job with a fresh ID.
//
// PARAMETERS:
//   - settings: Policy choices; zero fields take their defaults.
//   - logger: Receives stage transitions. nil discards them.
func New(settings Settings, logger logrus.FieldLogger) *Job {
	applySettingsDefaults(&settings)
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	id := uuid.New().String()
	return &Job{
		ID:       id,
		settings: settings,
		logger:   logger.WithField("job_id", id),
	}
}

func (j *Job) stage(name string, rows int) {
	j.logger.WithFields(logrus.Fields{"stage": name, "rows": rows}).Debug("stage complete")
}

// Run executes the pipeline.
//
// RETURNS:
//   - The complete Result, or
//   - an error wrapping every MissingInputError or every column resolution
//     failure found. Both are reachable with errors.As.
func (j *Job) Run(src Sources) (Result, error) {
	started := time.Now()
	j.logger.Info("job started")

	if missing := src.Missing(); len(missing) > 0 {
		err := errors.Join(missing...)
		j.logger.WithError(err).Error("job aborted")
		return Result{}, err
	}

	prepared := Prepare(src)
	cols, problems := ResolveColumns(prepared, j.settings.Specs)
	if len(problems) > 0 {
		err := errors.Join(problems...)
		j.logger.WithError(err).Error("job aborted")
		return Result{}, err
	}
	j.stage("resolve", prepared.Sales.Len())

	sales := normalize.Values(prepared.Sales, cols.Sales.Numeric()...)
	gl := normalize.Values(prepared.GeneralLedger, cols.GL.CurrencyValue)
	tb := normalize.Values(prepared.TrialBalance, cols.TB.PeriodDebit, cols.TB.PeriodCredit)
	j.stage("normalize", sales.Len()+gl.Len()+tb.Len())

	sales = ledger.AdjustSigns(sales, cols.Sales, j.settings.CreditNoteType, j.settings.SignPolicy)
	j.stage("sign", sales.Len())

	classified, rows, err := ledger.ClassifyTable(sales, cols.Sales)
	if err != nil {
		return Result{}, fmt.Errorf("failed to classify sales register: %w", err)
	}
	j.stage("classify", len(rows))

	agg, err := reconcile.Aggregate(gl, cols.GL, tb, cols.TB, j.settings.Reconcile)
	if err != nil {
		return Result{}, fmt.Errorf("failed to reconcile GL and TB: %w", err)
	}
	j.stage("reconcile", len(agg.Records))
	for _, account := range agg.TBOnly {
		j.logger.WithField("account", account).Warn("GST account in trial balance has no GL postings")
	}

	matcher := crossref.NewMatcher(agg.Revenue, agg.GSTPayable, cols.GL.DocumentNumber)
	annotated, flags, err := matcher.Annotate(classified, rows)
	if err != nil {
		return Result{}, fmt.Errorf("failed to cross-reference sales register: %w", err)
	}
	j.stage("crossref", len(flags))

	result := Result{
		ID:           j.ID,
		StartedAt:    started,
		Columns:      cols,
		Sales:        annotated,
		SalesRows:    rows,
		Flags:        flags,
		Summary:      agg.Records,
		Revenue:      agg.Revenue,
		GSTPayable:   agg.GSTPayable,
		TBGST:        agg.TBGST,
		TBOnly:       agg.TBOnly,
		SalesSummary: ledger.Summarize(rows),
		GSTINs:       ledger.GSTINs(rows),
		Stats:        newStats(rows, flags, j.settings.CreditNoteType, gl.Len(), tb.Len()),
	}
	result.Duration = time.Since(started)

	j.logger.WithFields(logrus.Fields{
		"rows":         result.Stats.SalesRows,
		"unclassified": result.Stats.Unclassified,
		"accounts":     len(result.Summary),
		"duration":     result.Duration,
	}).Info("job finished")
	return result, nil
}

// =============================================================================
// PREPARATION
// =============================================================================

// Prepared holds header-normalized tables, with the sales register already
// stacked. It is also what the validate command inspects.
type Prepared struct {
	Sales         *types.Table
	TrialBalance  *types.Table
	GeneralLedger *types.Table
}

// Prepare normalizes headers per table and stacks the sales register
// (Sales-Debit rows first, then Sales-Return). Absent sources are skipped.
func Prepare(src Sources) Prepared {
	header := func(t *types.Table) *types.Table {
		if t == nil {
			return nil
		}
		return normalize.Headers(t)
	}

	p := Prepared{
		TrialBalance:  header(src.TrialBalance),
		GeneralLedger: header(src.GeneralLedger),
	}
	var parts []*types.Table
	for _, t := range []*types.Table{src.SalesDebit, src.SalesReturn} {
		if t != nil {
			parts = append(parts, header(t))
		}
	}
	if len(parts) > 0 {
		p.Sales = types.Concat(SalesRegisterName, parts...)
	}
	return p
}

// Columns holds every resolved header of a run.
type Columns struct {
	Sales ledger.SalesColumns
	GL    ledger.GLColumns
	TB    ledger.TBColumns
}

// ResolveColumns resolves every field of every present table and collects all
// failures instead of stopping at the first.
func ResolveColumns(p Prepared, specs map[string]columns.FieldSpec) (Columns, []error) {
	var cols Columns
	var problems []error

	resolve := func(in Input, t *types.Table, keys []string) map[string]string {
		if t == nil {
			return map[string]string{}
		}
		resolved, errs := columns.ResolveAll(t.Headers, specs, keys...)
		for _, err := range errs {
			problems = append(problems, &ColumnError{Input: in, Err: err})
		}
		return resolved
	}

	cols.Sales = ledger.NewSalesColumns(resolve(InputSalesRegister, p.Sales, columns.SalesFields))
	cols.GL = ledger.NewGLColumns(resolve(InputGeneralLedger, p.GeneralLedger, columns.GLFields))
	cols.TB = ledger.NewTBColumns(resolve(InputTrialBalance, p.TrialBalance, columns.TBFields))
	return cols, problems
}
