// =============================================================================
// GSTR-1 Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (gstrecon)
//   ├── processCmd (gstrecon process)
//   ├── validateCmd (gstrecon validate)
//   └── versionCmd (gstrecon version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the application configuration (--config, env, .env)
//   2. Builds the logger from the log settings (--verbose forces debug)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gstr1-reconciler/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty searches for
// gstrecon.yaml in the working directory.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// appConfig and log are set by the root command before a subcommand runs.
var (
	appConfig *config.Config
	log       *logrus.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "gstrecon",
	Short: "GSTR-1 Reconciler - Classify the sales register and reconcile GST payable",
	Long: `gstrecon takes the four monthly ledger extracts of a company (Sales-Debit,
Sales-Return, Trial Balance and General Ledger) and produces the GSTR-1
working file:

  - the combined sales register, sign-adjusted and classified into
    B2B / B2CS / export / SEZ categories
  - a per-account reconciliation of GST payable between the GL and the TB
  - Yes/No flags telling whether each sales document reached the revenue
    and GST payable ledgers
  - a classification summary filterable by GSTIN

Example Usage:
  gstrecon process --input-dir ./sep2024 --company 1000
  gstrecon process --sd SD.xlsx --sr SR.xlsx --tb TB.xlsx --gl GL.xlsx
  gstrecon validate --input-dir ./sep2024`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./gstrecon.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and builds the logger.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	logger, err := newLogger(cfg.Log, verbose)
	if err != nil {
		return err
	}
	log = logger
	return nil
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// free for command output.
func newLogger(cfg config.LogConfig, verbose bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger, nil
}
