package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// functionsCmd performs function-level risk analysis.
var functionsCmd = &cobra.Command{
	Use:   "functions [repo-path]",
	Short: "Show the top functions ranked by risk score.",
	Long: `Parse every function at the analyzed commit and rank them by risk score.

Each function's score combines structural metrics from its control flow,
graph metrics from the call graph, and historical churn from Git, helping you:
- Find the functions most likely to break when touched
- Spot hubs that are both complex and heavily depended upon
- Identify code that is churning without a matching test investment
- See which risk factor drives each function's score

Examples:
  # Show the 20 riskiest functions at HEAD
  hotspots functions --limit 20

  # Analyze a release tag instead of HEAD
  hotspots functions --ref v1.4.0

  # Restrict analysis to a subsystem
  hotspots functions --filter internal/payments

  # Export findings to CSV for tracking
  hotspots functions --output csv --output-file functions.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFunctions(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run function analysis", err)
		}
	},
}
