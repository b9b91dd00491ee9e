// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the output formats and gives the commands a clean API.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteFunctions prints ranked function reports using the configured format.
func (ow *OutWriter) WriteFunctions(reports []schema.FunctionReport, cfg *contract.Config, duration time.Duration) error {
	return WriteFunctionResults(reports, cfg, duration)
}

// WriteFiles prints file risk views using the configured format.
func (ow *OutWriter) WriteFiles(files []schema.FileRiskView, cfg *contract.Config, duration time.Duration) error {
	return WriteFileResults(files, cfg, duration)
}

// WriteModules prints module instability views using the configured format.
func (ow *OutWriter) WriteModules(modules []schema.ModuleInstability, cfg *contract.Config) error {
	return WriteModuleResults(modules, cfg)
}

// WriteCoupling prints co-change coupling pairs using the configured format.
func (ow *OutWriter) WriteCoupling(pairs []schema.CoChangePair, cfg *contract.Config) error {
	return WriteCouplingResults(pairs, cfg)
}

// WriteDelta prints a snapshot comparison using the configured format.
func (ow *OutWriter) WriteDelta(delta *schema.Delta, cfg *contract.Config, duration time.Duration) error {
	return WriteDeltaResults(delta, cfg, duration)
}

// WriteSnapshot prints the snapshot summary using the configured format.
func (ow *OutWriter) WriteSnapshot(snapshot *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WriteSnapshotSummary(snapshot, cfg, duration)
}

// WriteMetrics prints the scoring dimension definitions and active weights.
func (ow *OutWriter) WriteMetrics(weights map[schema.FactorKey]float64, cfg *contract.Config) error {
	return WriteMetricsDefinitions(weights, cfg)
}

// getMaxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width and the fixed columns around the path.
func getMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detected
		}
	}

	// Rank, score, band and driver columns plus borders and padding.
	baseWidth := 55

	pathWidth := termWidth - baseWidth
	if pathWidth < 20 {
		pathWidth = 20
	}
	return pathWidth
}
