// =============================================================================
// GSTR-1 Reconciler - Configuration Module
// =============================================================================
//
// Loads the application configuration and the column field map.
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults
//   2. gstrecon.yaml in the working directory, or the file given by --config
//   3. A .env file in the working directory (exported into the environment)
//   4. GSTRECON_* environment variables, "." in a key becomes "_"
//      (reconciliation.match_mode -> GSTRECON_RECONCILIATION_MATCH_MODE)
//
// FIELD MAP:
//   The header tokens used to locate each source column ship as defaults in
//   the columns package. columns_file may point at a YAML document that
//   overrides any of them:
//
//     fields:
//       tb_debit:
//         label: Period D
//         tokens: ["period", " dr"]
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/gstr1-reconciler/internal/columns"
	"github.com/ginjaninja78/gstr1-reconciler/internal/ledger"
	"github.com/ginjaninja78/gstr1-reconciler/internal/reconcile"
	"github.com/ginjaninja78/gstr1-reconciler/internal/report"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "GSTRECON"

// Report formats.
const (
	FormatXLSX = "xlsx"
	FormatXML  = "xml"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds all application configuration.
type Config struct {
	// CompanyCode prefixes the output file name.
	CompanyCode string

	// OutputDir receives the finished report.
	OutputDir string

	// WorkDir holds the per-job staging directories.
	WorkDir string

	// ColumnsFile optionally overrides the field map.
	ColumnsFile string

	Log            LogConfig
	Reconciliation ReconciliationConfig
	Sales          SalesConfig
	Report         ReportConfig
	Source         SourceConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReconciliationConfig controls how GST payable accounts are recognized.
type ReconciliationConfig struct {
	MatchMode     reconcile.MatchMode
	GSTAccounts   []string
	RevenuePrefix string
}

// Options converts the settings into aggregator options.
func (r ReconciliationConfig) Options() reconcile.Options {
	return reconcile.Options{
		Mode:          r.MatchMode,
		Accounts:      r.GSTAccounts,
		RevenuePrefix: r.RevenuePrefix,
	}
}

// SalesConfig controls credit-note sign handling.
type SalesConfig struct {
	SignPolicy     ledger.SignPolicy
	CreditNoteType string
}

// ReportConfig selects the report sink.
type ReportConfig struct {
	Format string
	Pivot  bool
}

// SourceConfig tunes the source reader.
type SourceConfig struct {
	Sheet     string
	Delimiter string
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configFile: An explicit config file path. Empty searches for
//     gstrecon.yaml in the working directory and tolerates its absence.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or a value is invalid.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("gstrecon")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("company_code", "COMPANY")
	v.SetDefault("output_dir", "./output")
	v.SetDefault("work_dir", os.TempDir())
	v.SetDefault("columns_file", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("reconciliation.match_mode", string(reconcile.MatchExact))
	v.SetDefault("reconciliation.gst_accounts", reconcile.CanonicalAccounts())
	v.SetDefault("reconciliation.revenue_prefix", reconcile.DefaultRevenuePrefix)

	v.SetDefault("sales.sign_policy", string(ledger.SignForceNegative))
	v.SetDefault("sales.credit_note_type", ledger.DefaultCreditNoteType)

	v.SetDefault("report.format", FormatXLSX)
	v.SetDefault("report.pivot", report.DefaultWorkbookOptions().Pivot)

	v.SetDefault("source.sheet", "")
	v.SetDefault("source.delimiter", ",")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		CompanyCode: strings.TrimSpace(v.GetString("company_code")),
		OutputDir:   v.GetString("output_dir"),
		WorkDir:     v.GetString("work_dir"),
		ColumnsFile: v.GetString("columns_file"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Sales: SalesConfig{
			CreditNoteType: v.GetString("sales.credit_note_type"),
		},
		Report: ReportConfig{
			Format: strings.ToLower(v.GetString("report.format")),
			Pivot:  v.GetBool("report.pivot"),
		},
		Source: SourceConfig{
			Sheet:     v.GetString("source.sheet"),
			Delimiter: v.GetString("source.delimiter"),
		},
	}

	mode, err := reconcile.ParseMatchMode(v.GetString("reconciliation.match_mode"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: reconciliation.match_mode: %w", err)
	}
	cfg.Reconciliation = ReconciliationConfig{
		MatchMode:     mode,
		GSTAccounts:   stringList(v, "reconciliation.gst_accounts"),
		RevenuePrefix: v.GetString("reconciliation.revenue_prefix"),
	}

	policy, err := ledger.ParseSignPolicy(v.GetString("sales.sign_policy"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: sales.sign_policy: %w", err)
	}
	cfg.Sales.SignPolicy = policy

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// stringList reads a list key. Environment values are comma-separated because
// account names contain spaces.
func stringList(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the enum-valued settings.
func (c *Config) Validate() error {
	if c.CompanyCode == "" {
		return fmt.Errorf("company_code must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q (want text or json)", c.Log.Format)
	}
	switch c.Report.Format {
	case FormatXLSX, FormatXML:
	default:
		return fmt.Errorf("report.format %q (want %s or %s)", c.Report.Format, FormatXLSX, FormatXML)
	}
	if c.Reconciliation.MatchMode == reconcile.MatchExact && len(c.Reconciliation.GSTAccounts) == 0 {
		return fmt.Errorf("reconciliation.gst_accounts must not be empty in exact mode")
	}
	if strings.TrimSpace(c.Sales.CreditNoteType) == "" {
		return fmt.Errorf("sales.credit_note_type must not be empty")
	}
	return nil
}

// =============================================================================
// FIELD MAP
// =============================================================================

// fieldMapFile is the on-disk shape of columns_file.
type fieldMapFile struct {
	Fields map[string]columns.FieldSpec `yaml:"fields"`
}

// LoadFieldSpecs returns the default field map with the overrides from path
// applied. An empty path returns the defaults.
//
// PARAMETERS:
//   - path: The YAML field-map file, or "".
//
// RETURNS:
//   - The merged field map keyed by the columns.* field constants.
//   - An error if the file cannot be parsed or names an unknown field.
func LoadFieldSpecs(path string) (map[string]columns.FieldSpec, error) {
	specs := columns.DefaultSpecs()
	if path == "" {
		return specs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns file %s: %w", path, err)
	}

	var file fieldMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse columns file %s: %w", path, err)
	}

	for key, override := range file.Fields {
		base, ok := specs[key]
		if !ok {
			return nil, fmt.Errorf("columns file %s: unknown field %q", path, key)
		}
		if override.Label == "" {
			override.Label = base.Label
		}
		if !override.Exact && len(override.Tokens) == 0 {
			return nil, fmt.Errorf("columns file %s: field %q needs tokens or exact", path, key)
		}
		specs[key] = override
	}
	return specs, nil
}
