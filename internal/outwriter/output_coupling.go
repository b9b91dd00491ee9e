package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// WriteCouplingResults outputs co-change coupling pairs, dispatching on the
// configured output format.
func WriteCouplingResults(pairs []schema.CoChangePair, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, pairs)
		}, "Wrote JSON")
	case schema.OutputCSV:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCouplingCSV(w, pairs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCouplingTable(pairs, cfg, w)
		}, "Wrote table")
	}
}

func writeCouplingTable(pairs []schema.CoChangePair, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"File A", "File B", "Count", "Ratio", "Static Dep", "Risk"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg) / 2
	var data [][]string
	for _, p := range pairs {
		data = append(data, []string{
			contract.TruncatePath(p.FileA, pathWidth),
			contract.TruncatePath(p.FileB, pathWidth),
			strconv.Itoa(p.CoChangeCount),
			fmt.Sprintf("%.3f", p.CouplingRatio),
			strconv.FormatBool(p.HasStaticDep),
			string(p.Risk),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d coupled pairs (min co-changes: %d)\n", len(pairs), cfg.CouplingMinCount)
	return err
}

func writeCouplingCSV(w io.Writer, pairs []schema.CoChangePair) error {
	header := []string{"file_a", "file_b", "co_change_count", "coupling_ratio", "has_static_dep", "risk"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range pairs {
			row := []string{
				p.FileA,
				p.FileB,
				strconv.Itoa(p.CoChangeCount),
				strconv.FormatFloat(p.CouplingRatio, 'f', 3, 64),
				strconv.FormatBool(p.HasStaticDep),
				string(p.Risk),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
