package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// WriteFunctionResults outputs ranked function reports, dispatching on the
// configured output format.
func WriteFunctionResults(reports []schema.FunctionReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.OutputCSV:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFunctionCSV(w, reports, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFunctionTable(reports, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

func writeFunctionTable(reports []schema.FunctionReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Function", "CC", "ND", "Churn", "LRS", "Band", "Driver"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, r := range reports {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Function.ID, pathWidth),
			fmt.Sprintf(intFmt, r.Metrics.CC),
			fmt.Sprintf(intFmt, r.Metrics.ND),
			fmt.Sprintf(intFmt, r.Churn.Total()),
			fmtFloat(r.LRS),
			bandLabel(cfg, r.Band),
			string(r.Driver),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalChurn := 0
	for _, r := range reports {
		totalChurn += r.Churn.Total()
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d functions (total churn: %d)\n", len(reports), totalChurn); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Database backend: %s\n", duration, cfg.Workers, cfg.DatabaseBackend)
	return err
}

func writeFunctionCSV(w io.Writer, reports []schema.FunctionReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank", "id", "file", "name", "language",
		"cc", "nd", "loc",
		"churn", "touch_count",
		"fan_in", "fan_out", "cyclic", "depth", "neighbor_churn",
		"lrs", "percentile", "band", "driver",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range reports {
			row := []string{
				strconv.Itoa(i + 1),
				r.Function.ID,
				r.Function.File,
				r.Function.Name,
				string(r.Function.Language),
				fmt.Sprintf(intFmt, r.Metrics.CC),
				fmt.Sprintf(intFmt, r.Metrics.ND),
				fmt.Sprintf(intFmt, r.Metrics.LOC),
				fmt.Sprintf(intFmt, r.Churn.Total()),
				fmt.Sprintf(intFmt, r.Churn.TouchCount),
				fmt.Sprintf(intFmt, r.Graph.FanIn),
				fmt.Sprintf(intFmt, r.Graph.FanOut),
				strconv.FormatBool(r.Graph.Cyclic),
				fmt.Sprintf(intFmt, r.Graph.Depth),
				fmt.Sprintf(intFmt, r.Graph.NeighborChurn),
				fmtFloat(r.LRS),
				fmtFloat(r.Percentile),
				contract.GetPlainBandLabel(r.Band),
				string(r.Driver),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
