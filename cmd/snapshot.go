package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// snapshotCmd builds and stores a full snapshot for a commit.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [repo-path]",
	Short: "Build, persist and summarize a full analysis snapshot.",
	Long: `Run the complete analysis for the configured ref, store the snapshot in the
configured backend, and print a summary.

Stored snapshots make later delta runs cheap: 'hotspots delta' loads both sides
from the store when present instead of re-analyzing the repository.

Subcommands:
  export - Write the snapshot's rows to Parquet for analytics tools

Examples:
  # Snapshot HEAD with the default SQLite store
  hotspots snapshot

  # Snapshot a release tag
  hotspots snapshot --ref v1.4.0

  # Print the full snapshot as JSON instead of a summary
  hotspots snapshot --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshot(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build snapshot", err)
		}
	},
}

// snapshotExportCmd exports snapshot rows to Parquet files.
var snapshotExportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export snapshot rows to Parquet for BI tools and analytics",
	Long: `Write the analyzed snapshot's function and coupling rows to Parquet files.

Two datasets are produced next to the --output-file path:
  <output-file>.functions.parquet - one row per analyzed function
  <output-file>.coupling.parquet  - one row per co-change pair

Parquet format enables fast querying with DuckDB, Apache Spark and pandas,
and direct import into BI tools.

Requires: --output-file parameter

Examples:
  # Export the HEAD snapshot
  hotspots snapshot export --output-file hotspots-data

  # Query the export with DuckDB
  duckdb -c "SELECT * FROM read_parquet('hotspots-data.functions.parquet') LIMIT 10"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to export snapshot", err)
		}
	},
}
