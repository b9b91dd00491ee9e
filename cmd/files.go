package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd rolls function results up to the file level.
var filesCmd = &cobra.Command{
	Use:   "files [repo-path]",
	Short: "Show the top files ranked by aggregated function risk.",
	Long: `Aggregate per-function risk into a file-level view and rank the results.

Each file's score blends its worst function, its average complexity, its total
churn and its share of critical-band functions, helping you:
- Compare files on a single scale even when function counts differ
- Catch files where one pathological function hides behind a calm average
- Track file-level churn concentration across the analysis window

Examples:
  # Show the 15 riskiest files
  hotspots files --limit 15

  # Focus on a directory subtree
  hotspots files --filter core/

  # Export findings to CSV for tracking
  hotspots files --output csv --output-file files.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run file analysis", err)
		}
	},
}
