package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// WriteDeltaResults outputs a snapshot comparison, dispatching on the
// configured output format.
func WriteDeltaResults(delta *schema.Delta, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, delta)
		}, "Wrote JSON")
	case schema.OutputCSV:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDeltaCSV(w, delta, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDeltaTable(delta, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

func writeDeltaTable(delta *schema.Delta, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Comparing %s -> %s\n", shortSHA(delta.OldCommit), shortSHA(delta.NewCommit)); err != nil {
		return err
	}

	if delta.Empty() {
		_, err := fmt.Fprintln(writer, "No changes between snapshots.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Function", "Change", "LRS Before", "LRS After", "dLRS", "dCC", "Band"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range delta.Functions {
		band := bandTransition(cfg, f)
		data = append(data, []string{
			contract.TruncatePath(f.ID, pathWidth),
			string(f.Change),
			fmtFloat(f.OldLRS),
			fmtFloat(f.NewLRS),
			fmtFloat(f.LRSDelta),
			fmt.Sprintf(intFmt, f.CCDelta),
			band,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range delta.Renames {
		if _, err := fmt.Fprintf(writer, "Possible rename: %s -> %s (%s, confidence %.2f)\n", r.OldID, r.NewID, r.Reason, r.Confidence); err != nil {
			return err
		}
	}
	for _, c := range delta.CoChange {
		if _, err := fmt.Fprintf(writer, "Coupling %s: %s <-> %s (%s -> %s)\n", c.Status, c.FileA, c.FileB, c.OldRisk, c.NewRisk); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "%d added, %d removed, %d modified\n", delta.AddedCount, delta.RemovedCount, delta.ModifiedCount); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Comparison completed in %v\n", duration)
	return err
}

// bandTransition renders the band movement of one delta entry.
func bandTransition(cfg *contract.Config, f schema.FunctionDelta) string {
	switch f.Change {
	case schema.ChangeAdded:
		return bandLabel(cfg, f.NewBand)
	case schema.ChangeRemoved:
		return bandLabel(cfg, f.OldBand)
	default:
		if !f.BandMoved {
			return bandLabel(cfg, f.NewBand)
		}
		return fmt.Sprintf("%s -> %s", bandLabel(cfg, f.OldBand), bandLabel(cfg, f.NewBand))
	}
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

func writeDeltaCSV(w io.Writer, delta *schema.Delta, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"id", "file", "name", "change",
		"old_lrs", "new_lrs", "lrs_delta",
		"cc_delta", "nd_delta", "churn_delta",
		"old_band", "new_band", "band_moved",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range delta.Functions {
			row := []string{
				f.ID,
				f.File,
				f.Name,
				string(f.Change),
				fmtFloat(f.OldLRS),
				fmtFloat(f.NewLRS),
				fmtFloat(f.LRSDelta),
				fmt.Sprintf(intFmt, f.CCDelta),
				fmt.Sprintf(intFmt, f.NDDelta),
				fmt.Sprintf(intFmt, f.ChurnDelta),
				string(f.OldBand),
				string(f.NewBand),
				fmt.Sprintf("%t", f.BandMoved),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
