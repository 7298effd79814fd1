// =============================================================================
// GSTR-1 Reconciler - Main Entry Point
// =============================================================================
//
// This is the main entry point for the gstrecon CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   gstrecon process       - Reconcile one month and write the GSTR-1 workbook
//   gstrecon validate      - Check the inputs and column headers only
//   gstrecon version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Reconciliation core, source reader and report sink
//   - pkg/           : Shared file handling utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/gstr1-reconciler/cmd"
)

func main() {
	cmd.Execute()
}
