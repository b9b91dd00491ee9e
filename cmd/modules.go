package cmd

import (
	"github.com/Stephen-Collins-tech/hotspots-sub001/core"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// modulesCmd shows module instability and coupling crossings.
var modulesCmd = &cobra.Command{
	Use:   "modules [repo-path]",
	Short: "Show per-module instability derived from import crossings.",
	Long: `Group files into modules and report each module's afferent and efferent
coupling along with the resulting instability ratio.

Instability is Ce / (Ca + Ce): a module nothing depends on scores 1.0, a module
everything depends on scores 0.0. Stable modules carrying high average
complexity are flagged, since everything downstream inherits their risk.

Examples:
  # Show module instability for the whole repository
  hotspots modules

  # Analyze modules as of a release tag
  hotspots modules --ref v2.0.0`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModules(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run module analysis", err)
		}
	},
}
