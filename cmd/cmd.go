// Package cmd defines the command-line interface for hotspots.
package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(couplingCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(deltaCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotExportCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("ref", "r", "HEAD", "Git reference to analyze")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Filter functions by file path prefix")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("languages", "", "Comma-separated list of languages to analyze (go,python,typescript,javascript)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("window", "6 months", "Churn window length, ending at the analyzed commit's time")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.OutputText), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.DatabaseSQLite), "Persistence backend: sqlite or mysql or postgres or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgres (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("base-ref", "", "Base Git reference for the BEFORE state")
	rootCmd.PersistentFlags().String("target-ref", "", "Target Git reference for the AFTER state")
	rootCmd.PersistentFlags().Int("min-co-changes", 0, "Minimum shared commits before a file pair is reported as coupled")
	rootCmd.PersistentFlags().Float64("driver-percentile", 0, "Percentile above which a factor is named as a risk driver (0 = default)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
