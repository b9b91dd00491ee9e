package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// WriteSnapshotSummary outputs the snapshot header and band distribution.
// JSON mode emits the full snapshot document.
func WriteSnapshotSummary(snapshot *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snapshot)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotText(snapshot, cfg, duration, w)
		}, "Wrote summary")
	}
}

func writeSnapshotText(snapshot *schema.Snapshot, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Snapshot %s (%s)\n", shortSHA(snapshot.CommitSHA), snapshot.Timestamp.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Functions analyzed: %d across %d files\n", len(snapshot.Functions), len(snapshot.Files)); err != nil {
		return err
	}

	for _, band := range []schema.RiskBand{schema.BandCritical, schema.BandHigh, schema.BandModerate, schema.BandLow} {
		count := snapshot.Bands[band]
		if _, err := fmt.Fprintf(writer, "  %-10s %d\n", bandLabel(cfg, band), count); err != nil {
			return err
		}
	}

	if snapshot.SkippedFiles > 0 {
		if _, err := fmt.Fprintf(writer, "Skipped files: %d\n", snapshot.SkippedFiles); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Call resolution ratio: %.2f\n", snapshot.ResolutionRatio); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Coupled pairs: %d, modules: %d\n", len(snapshot.CoChange), len(snapshot.Modules)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Snapshot completed in %v with %d workers. Database backend: %s\n", duration, cfg.Workers, cfg.DatabaseBackend)
	return err
}
