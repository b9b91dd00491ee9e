package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the scoring factor definitions and active weights.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display scoring factor definitions and the active weights",
	Long: `Show each scoring factor, what it measures, how it is normalized, and the
weight it contributes to the final risk score.

No Git analysis is performed - this is purely informational.

Use this to:
- Understand what moves a function's score
- Explain scoring logic to your team
- Validate custom weight configurations

Examples:
  # Show the active scoring formula
  hotspots metrics

  # View with custom weights from a config file
  hotspots metrics --config .hotspots.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
