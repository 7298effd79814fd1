// =============================================================================
// GSTR-1 Reconciler - File Manager Utility
// =============================================================================
//
// File handling around a reconciliation job:
//   - Input discovery in a directory by file-name pattern
//   - A per-job staging workspace that is always removed
//   - Output file naming
//   - The plain-text run summary
//
// STAGING:
//   The report is written into <work_dir>/gstrecon-<job id>/ first and moved
//   into the output directory only when it is complete. Close removes the
//   staging directory whatever happened before, so callers defer it right
//   after NewWorkspace.
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// WORKSPACE
// =============================================================================

// Workspace is a job's private staging directory.
type Workspace struct {
	// Dir is the staging directory.
	Dir string

	// OutputDir receives published files.
	OutputDir string

	closed bool
}

// NewWorkspace creates the staging directory for a job. An empty jobID gets a
// fresh UUID.
//
// PARAMETERS:
//   - workDir: Parent of the staging directory.
//   - outputDir: Where Publish moves finished files; created if missing.
//   - jobID: Used in the staging directory name.
//
// RETURNS:
//   - The workspace; the caller must Close it.
//   - An error if either directory cannot be created.
func NewWorkspace(workDir, outputDir, jobID string) (*Workspace, error) {
	if jobID == "" {
		jobID = uuid.New().String()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	dir, err := os.MkdirTemp(workDir, "gstrecon-"+jobID+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Workspace{Dir: dir, OutputDir: outputDir}, nil
}

// Path returns the staging path of a file name.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Publish moves a staged file into the output directory, replacing any file
// of the same name, and returns its final path.
func (w *Workspace) Publish(name string) (string, error) {
	src := w.Path(name)
	dst := filepath.Join(w.OutputDir, name)

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}

	// Rename fails across filesystems; fall back to copying.
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to publish %s: %w", name, err)
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("failed to remove staged %s: %w", name, err)
	}
	return dst, nil
}

// Close removes the staging directory. It is safe to call more than once.
func (w *Workspace) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("failed to remove staging directory %s: %w", w.Dir, err)
	}
	return nil
}

// =============================================================================
// INPUT DISCOVERY
// =============================================================================

// SupportedExtensions are the source file types discovery considers.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// DiscoverInputs finds one file per key in dir. patterns maps a key to a
// case-insensitive glob matched against file names, e.g. {"sd": "*sd*"}.
//
// RETURNS:
//   - key -> path for every key that matched exactly one file. Keys that
//     matched nothing are absent; the caller reports them as missing.
//   - An error if dir cannot be read or a key matches more than one file.
func DiscoverInputs(dir string, patterns map[string]string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	matches := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !isSupported(entry.Name()) {
			continue
		}
		name := strings.ToLower(entry.Name())
		for key, pattern := range patterns {
			ok, err := filepath.Match(strings.ToLower(pattern), name)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for %s: %w", pattern, key, err)
			}
			if ok {
				matches[key] = append(matches[key], filepath.Join(dir, entry.Name()))
			}
		}
	}

	found := make(map[string]string, len(matches))
	var errs []error
	for key, paths := range matches {
		if len(paths) > 1 {
			sort.Strings(paths)
			errs = append(errs, fmt.Errorf("%s: %d files match %q: %s",
				key, len(paths), patterns[key], strings.Join(paths, ", ")))
			continue
		}
		found[key] = paths[0]
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return found, nil
}

func isSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName returns the report file name for a company code:
// "<company>_GSTR-1_Workbook.xlsx" for workbooks and
// "<company>_GSTR-1_Summary.xml" for the XML summary.
func OutputFileName(companyCode, format string) string {
	company := sanitizeFileName(companyCode)
	if strings.EqualFold(format, "xml") {
		return company + "_GSTR-1_Summary.xml"
	}
	return company + "_GSTR-1_Workbook.xlsx"
}

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary is what the summary log records about one run.
type RunSummary struct {
	JobID       string
	CompanyCode string
	StartTime   time.Time
	EndTime     time.Time
	Inputs      map[string]string
	OutputFile  string

	SalesRows    int
	GLRows       int
	TBRows       int
	CreditNotes  int
	Unclassified int

	// Accounts lists one formatted line per GST summary record.
	Accounts []string

	// Warnings are non-fatal findings, e.g. TB-only GST accounts.
	Warnings []string
}

// WriteSummaryLog writes the run summary next to the report.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	name := fmt.Sprintf("%s_run_summary_%s.txt",
		sanitizeFileName(summary.CompanyCode), summary.StartTime.Format("20060102_150405"))
	path := filepath.Join(outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := writeSummary(file, summary); err != nil {
		return "", err
	}
	return path, nil
}

func writeSummary(w io.Writer, s RunSummary) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", 80) + "\n"

	fmt.Fprintf(bw, "GSTR-1 Reconciler - Run Summary\n%s\n", rule)
	fmt.Fprintf(bw, "Run Information:\n")
	fmt.Fprintf(bw, "  Job ID:         %s\n", s.JobID)
	fmt.Fprintf(bw, "  Company:        %s\n", s.CompanyCode)
	fmt.Fprintf(bw, "  Start Time:     %s\n", s.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(bw, "  End Time:       %s\n", s.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(bw, "  Duration:       %s\n", s.EndTime.Sub(s.StartTime))
	fmt.Fprintf(bw, "  Output:         %s\n\n", s.OutputFile)

	if len(s.Inputs) > 0 {
		keys := make([]string, 0, len(s.Inputs))
		for k := range s.Inputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(bw, "Inputs:\n")
		for _, k := range keys {
			fmt.Fprintf(bw, "  %-14s  %s\n", k+":", s.Inputs[k])
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintf(bw, "Statistics:\n")
	fmt.Fprintf(bw, "  Sales rows:     %d\n", s.SalesRows)
	fmt.Fprintf(bw, "  Credit notes:   %d\n", s.CreditNotes)
	fmt.Fprintf(bw, "  Unclassified:   %d\n", s.Unclassified)
	fmt.Fprintf(bw, "  GL rows:        %d\n", s.GLRows)
	fmt.Fprintf(bw, "  TB rows:        %d\n\n", s.TBRows)

	if len(s.Accounts) > 0 {
		fmt.Fprintf(bw, "GST Summary:\n%s", strings.Repeat("-", 80)+"\n")
		for _, line := range s.Accounts {
			fmt.Fprintf(bw, "  %s\n", line)
		}
		fmt.Fprintln(bw)
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintf(bw, "Warnings:\n")
		for _, warning := range s.Warnings {
			fmt.Fprintf(bw, "  - %s\n", warning)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintf(bw, "%sEnd of Summary\n", rule)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
