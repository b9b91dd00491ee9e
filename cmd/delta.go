package cmd

import (
	"errors"

	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// deltaCmd compares function-level snapshots between two Git references.
var deltaCmd = &cobra.Command{
	Use:   "delta [repo-path]",
	Short: "Compare analysis snapshots between two Git references.",
	Long: `Build (or load) snapshots for a base and target ref and report how risk
moved between them.

The delta covers added, removed and modified functions with per-factor score
changes, likely renames matched across the two sides, per-file rollups, and
coupling pairs that appeared, vanished or changed risk.

Ideal for:
- Release comparisons - see what changed between versions
- Refactoring validation - verify changes actually reduced risk
- Pre-merge checks - catch functions becoming riskier in a branch

Examples:
  # Compare two releases
  hotspots delta --base-ref v1.0.0 --target-ref v1.1.0

  # Compare a branch against main
  hotspots delta --base-ref main --target-ref feature-xyz

  # Export the comparison to CSV
  hotspots delta --base-ref v1.0.0 --target-ref HEAD --output csv --output-file delta.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.BaseRef == "" {
			contract.LogFatal("Cannot run delta analysis", errors.New("base-ref must be provided"))
		}
		if err := core.ExecuteDelta(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run delta analysis", err)
		}
	},
}
