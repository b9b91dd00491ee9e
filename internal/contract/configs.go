package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// Default values for configuration.
const (
	DefaultWindowDays  = 180
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// WeightsRawInput holds custom per-dimension scoring weights from the YAML
// config file. Use float64 pointers so absent fields keep their defaults.
type WeightsRawInput struct {
	Complexity    *float64 `mapstructure:"complexity"`
	Churn         *float64 `mapstructure:"churn"`
	Activity      *float64 `mapstructure:"activity"`
	FanIn         *float64 `mapstructure:"fan_in"`
	Cyclic        *float64 `mapstructure:"cyclic"`
	Depth         *float64 `mapstructure:"depth"`
	NeighborChurn *float64 `mapstructure:"neighbor_churn"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	Ref         string // Commit to analyze, resolved to a full hash later
	StartTime   time.Time
	EndTime     time.Time
	PathFilter  string
	ResultLimit int
	Workers     int
	Excludes    []string
	Languages   []schema.Language // Empty means all supported
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	// Delta mode references.
	BaseRef   string
	TargetRef string

	DatabaseBackend schema.DatabaseBackend
	DBConnect       string // Please use env var as this is plaintext

	// ComputedWeights is the final per-dimension weight map, defaults plus
	// any overrides from the config file.
	ComputedWeights map[schema.FactorKey]float64

	// DriverPercentile is the per-dimension hot threshold for driver
	// attribution, as a quantile of the snapshot's own distribution.
	DriverPercentile float64

	// CouplingMinCount filters co-change pairs below this commit count.
	CouplingMinCount int

	UseColors bool // Enable colored labels in table output

	// windowLength is the configured history window. The absolute
	// Start/End times are anchored once the ref resolves to a commit time.
	windowLength time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Ref       string `mapstructure:"ref"`
	Filter    string `mapstructure:"filter"`
	OutputFile string `mapstructure:"output-file"`
	Limit     int    `mapstructure:"limit"`
	Window    string `mapstructure:"window"`
	Workers   int    `mapstructure:"workers"`
	Exclude   string `mapstructure:"exclude"`
	Languages string `mapstructure:"languages"`
	Precision int    `mapstructure:"precision"`
	Output    string `mapstructure:"output"`
	Width     int    `mapstructure:"width"`
	Backend   string `mapstructure:"db-backend"`
	DBConnect string `mapstructure:"db-connect"`
	Color     string `mapstructure:"color"`

	// --- Fields from deltaCmd.Flags() ---
	BaseRef   string `mapstructure:"base-ref"`
	TargetRef string `mapstructure:"target-ref"`

	// --- Fields from couplingCmd.Flags() ---
	MinCoChanges int `mapstructure:"min-co-changes"`

	// --- Scoring settings from config file ---
	Weights          WeightsRawInput `mapstructure:"weights"`
	DriverPercentile float64         `mapstructure:"driver-percentile"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Languages != nil {
		clone.Languages = make([]schema.Language, len(c.Languages))
		copy(clone.Languages, c.Languages)
	}
	if c.ComputedWeights != nil {
		clone.ComputedWeights = make(map[schema.FactorKey]float64)
		maps.Copy(clone.ComputedWeights, c.ComputedWeights)
	}
	return &clone
}

// CloneWithRef creates a copy of the Config pointed at a different commit.
func (c *Config) CloneWithRef(ref string) *Config {
	clone := c.Clone()
	clone.Ref = ref
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input); err != nil {
		return err
	}
	if err := processDeltaRefs(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPathAndFilter(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.DatabaseSQLite, schema.DatabaseNone:
		return nil
	case schema.DatabaseMySQL:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.DatabasePostgres:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Ref = strings.TrimSpace(input.Ref)
	if cfg.Ref == "" {
		cfg.Ref = "HEAD"
	}
	cfg.PathFilter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- Language Selection ---
	if input.Languages != "" {
		for part := range strings.SplitSeq(input.Languages, ",") {
			lang := schema.Language(strings.ToLower(strings.TrimSpace(part)))
			if lang == "" {
				continue
			}
			if !schema.ValidLanguages[lang] {
				return fmt.Errorf("unsupported language '%s'. must be go, python, typescript, javascript", lang)
			}
			cfg.Languages = append(cfg.Languages, lang)
		}
	}

	// --- Backend Validation ---
	cfg.DatabaseBackend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DatabaseBackend]; !ok {
		return fmt.Errorf("invalid database backend '%s'. must be sqlite, mysql, postgres, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.DatabaseBackend, cfg.DBConnect); err != nil {
		return err
	}

	if input.MinCoChanges > 0 {
		cfg.CouplingMinCount = input.MinCoChanges
	} else {
		cfg.CouplingMinCount = schema.CouplingMinCoChanges
	}

	// --- Excludes Processing ---
	defaults := []string{
		"vendor/", "node_modules/", "dist/", "build/", "out/", "target/", "bin/",
		".min.js", ".min.css",
		"_test_fixtures/", "testdata/",
	}
	cfg.Excludes = defaults

	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}

	return nil
}

// processWindow parses the analysis window. The window ends at the analyzed
// commit's time, which is only known once the ref is resolved, so EndTime
// stays zero here and the analyzer anchors it later.
func processWindow(cfg *Config, input *ConfigRawInput) error {
	window := DefaultWindowDays * 24 * time.Hour
	if input.Window != "" {
		d, err := ParseWindowDuration(input.Window)
		if err != nil {
			return fmt.Errorf("invalid --window value: %w", err)
		}
		window = d
	}
	cfg.StartTime = time.Time{}
	cfg.EndTime = time.Time{}
	cfg.windowLength = window
	return nil
}

// AnchorWindow pins the analysis window to end at the given commit time.
func (c *Config) AnchorWindow(commitTime time.Time) {
	c.EndTime = commitTime
	c.StartTime = commitTime.Add(-c.windowLength)
}

// WindowLength returns the configured history window size.
func (c *Config) WindowLength() time.Duration {
	return c.windowLength
}

// processDeltaRefs handles the delta command references.
func processDeltaRefs(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseRef = strings.TrimSpace(input.BaseRef)
	cfg.TargetRef = strings.TrimSpace(input.TargetRef)
	if cfg.BaseRef == "" && cfg.TargetRef != "" {
		return fmt.Errorf("must specify --base-ref when using --target-ref")
	}
	if cfg.BaseRef != "" && cfg.TargetRef == "" {
		cfg.TargetRef = "HEAD"
	}
	return nil
}

// processWeights merges config-file weight overrides onto the defaults and
// validates the result sums to 1.0.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()

	overrides := map[schema.FactorKey]*float64{
		schema.FactorComplexity:    input.Weights.Complexity,
		schema.FactorChurn:         input.Weights.Churn,
		schema.FactorActivity:      input.Weights.Activity,
		schema.FactorFanIn:         input.Weights.FanIn,
		schema.FactorCyclic:        input.Weights.Cyclic,
		schema.FactorDepth:         input.Weights.Depth,
		schema.FactorNeighborChurn: input.Weights.NeighborChurn,
	}
	customized := false
	for key, val := range overrides {
		if val == nil {
			continue
		}
		if *val < 0 {
			return fmt.Errorf("weight for %s cannot be negative (received %.3f)", key, *val)
		}
		weights[key] = *val
		customized = true
	}

	if customized {
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		if sum < 0.999 || sum > 1.001 {
			return fmt.Errorf("scoring weights must sum to 1.0, got %.3f", sum)
		}
	}
	cfg.ComputedWeights = weights

	cfg.DriverPercentile = schema.DefaultDriverPercentile
	if input.DriverPercentile != 0 {
		if input.DriverPercentile <= 0 || input.DriverPercentile >= 1 {
			return fmt.Errorf("driver-percentile must be in (0, 1), got %.3f", input.DriverPercentile)
		}
		cfg.DriverPercentile = input.DriverPercentile
	}
	return nil
}

// resolveGitPathAndFilter resolves the Git repository path and sets the implicit path filter.
func resolveGitPathAndFilter(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}

	cfg.RepoPath = gitRoot

	if cfg.PathFilter != "" { // User-provided --filter flag takes precedence
		return nil
	}

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return err
		}

		if relativePath != "." {
			filter := relativePath
			if statErr == nil && info.IsDir() {
				filter += "/"
			}
			cfg.PathFilter = strings.ReplaceAll(filter, string(os.PathSeparator), "/")
		}
	}

	return nil
}
