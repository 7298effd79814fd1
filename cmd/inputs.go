// =============================================================================
// GSTR-1 Reconciler - Input Selection
// =============================================================================
//
// The process and validate commands take their four sources the same way:
// either one flag per input, or an input directory scanned by file name.
// Explicit flags win over discovery.
//
// DISCOVERY PATTERNS (case-insensitive):
//   Sales-Debit     *sd*
//   Sales-Return    *sr*
//   Trial-Balance   *tb*
//   General-Ledger  *gl*
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reader"
	"github.com/ginjaninja78/gstr1-reconciler/pkg/utils"
)

// inputFlags holds the source selection of one command.
type inputFlags struct {
	paths    map[job.Input]*string
	inputDir string
}

// inputKeys are the flag names, which double as discovery keys.
var inputKeys = map[job.Input]string{
	job.InputSalesDebit:    "sd",
	job.InputSalesReturn:   "sr",
	job.InputTrialBalance:  "tb",
	job.InputGeneralLedger: "gl",
}

func newInputFlags(cmd *cobra.Command) *inputFlags {
	f := &inputFlags{paths: make(map[job.Input]*string)}
	for _, in := range job.AllInputs() {
		key := inputKeys[in]
		f.paths[in] = cmd.Flags().String(key, "", fmt.Sprintf("Path to the %s extract (.xlsx or .csv)", in))
	}
	cmd.Flags().StringVar(&f.inputDir, "input-dir", "", "Directory to discover inputs in by file name (*sd*, *sr*, *tb*, *gl*)")
	return f
}

// resolve returns the file chosen for each input. Inputs with no file are
// absent from the map.
func (f *inputFlags) resolve() (map[job.Input]string, error) {
	files := make(map[job.Input]string)

	if f.inputDir != "" {
		patterns := make(map[string]string, len(inputKeys))
		for _, key := range inputKeys {
			patterns[key] = "*" + key + "*"
		}
		found, err := utils.DiscoverInputs(f.inputDir, patterns)
		if err != nil {
			return nil, err
		}
		for in, key := range inputKeys {
			if path, ok := found[key]; ok {
				files[in] = path
			}
		}
	}

	for in, path := range f.paths {
		if *path != "" {
			files[in] = *path
		}
	}
	return files, nil
}

// readSources reads every chosen file. A missing input leaves its table nil
// so the caller reports it; read failures are all collected.
func readSources(files map[job.Input]string, opts reader.Options, logger logrus.FieldLogger) (job.Sources, error) {
	var src job.Sources
	var errs []error

	for _, in := range job.AllInputs() {
		path, ok := files[in]
		if !ok {
			continue
		}
		t, err := reader.Open(path, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in, err))
			continue
		}
		logger.WithFields(logrus.Fields{
			"input": in,
			"file":  path,
			"rows":  t.Len(),
		}).Debug("source loaded")

		switch in {
		case job.InputSalesDebit:
			src.SalesDebit = t
		case job.InputSalesReturn:
			src.SalesReturn = t
		case job.InputTrialBalance:
			src.TrialBalance = t
		case job.InputGeneralLedger:
			src.GeneralLedger = t
		}
	}
	return src, errors.Join(errs...)
}

// inputNames converts the file map for the run summary.
func inputNames(files map[job.Input]string) map[string]string {
	out := make(map[string]string, len(files))
	for in, path := range files {
		out[string(in)] = path
	}
	return out
}
