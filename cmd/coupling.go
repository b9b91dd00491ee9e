package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// couplingCmd reports file pairs that change together.
var couplingCmd = &cobra.Command{
	Use:   "coupling [repo-path]",
	Short: "Show file pairs that repeatedly change in the same commits.",
	Long: `Walk the commits inside the analysis window and report file pairs that
change together, annotated with whether a static dependency explains the link.

Pairs with a high co-change ratio but no import or call edge between them are
the interesting ones: the dependency is hidden in convention, copy-paste or a
shared format rather than the code graph.

Examples:
  # Show coupled pairs with at least 3 shared commits
  hotspots coupling

  # Require more evidence before reporting a pair
  hotspots coupling --min-co-changes 5

  # Export pairs to CSV
  hotspots coupling --output csv --output-file coupling.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCoupling(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run coupling analysis", err)
		}
	},
}
