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

// WriteFileResults outputs file risk views, dispatching on the configured
// output format.
func WriteFileResults(files []schema.FileRiskView, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, files)
		}, "Wrote JSON")
	case schema.OutputCSV:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFileCSV(w, files, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFileTable(files, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

func writeFileTable(files []schema.FileRiskView, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Funcs", "MaxCC", "AvgCC", "Churn", "Critical", "Score"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, f := range files {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.File, pathWidth),
			fmt.Sprintf(intFmt, f.FunctionCount),
			fmt.Sprintf(intFmt, f.MaxCC),
			fmtFloat(f.AvgCC),
			fmt.Sprintf(intFmt, f.FileChurn),
			fmt.Sprintf(intFmt, f.CriticalCount),
			fmtFloat(f.RiskScore),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalChurn := 0
	totalFuncs := 0
	for _, f := range files {
		totalChurn += f.FileChurn
		totalFuncs += f.FunctionCount
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d files (functions: %d, total churn: %d)\n", len(files), totalFuncs, totalChurn); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Database backend: %s\n", duration, cfg.Workers, cfg.DatabaseBackend)
	return err
}

func writeFileCSV(w io.Writer, files []schema.FileRiskView, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank", "file", "function_count", "loc",
		"max_cc", "avg_cc", "sum_lrs", "max_lrs",
		"critical_count", "file_churn", "risk_score",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, f := range files {
			row := []string{
				strconv.Itoa(i + 1),
				f.File,
				fmt.Sprintf(intFmt, f.FunctionCount),
				fmt.Sprintf(intFmt, f.LOC),
				fmt.Sprintf(intFmt, f.MaxCC),
				fmtFloat(f.AvgCC),
				fmtFloat(f.SumLRS),
				fmtFloat(f.MaxLRS),
				fmt.Sprintf(intFmt, f.CriticalCount),
				fmt.Sprintf(intFmt, f.FileChurn),
				fmtFloat(f.RiskScore),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
