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

// WriteModuleResults outputs module instability views, dispatching on the
// configured output format.
func WriteModuleResults(modules []schema.ModuleInstability, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, modules)
		}, "Wrote JSON")
	case schema.OutputCSV:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModuleCSV(w, modules, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModuleTable(modules, fmtFloat, intFmt, w)
		}, "Wrote table")
	}
}

func writeModuleTable(modules []schema.ModuleInstability, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Module", "Files", "Funcs", "AvgCC", "Ca", "Ce", "Instability", "Risk"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range modules {
		data = append(data, []string{
			m.Module,
			fmt.Sprintf(intFmt, m.FileCount),
			fmt.Sprintf(intFmt, m.FunctionCount),
			fmtFloat(m.AvgComplexity),
			fmt.Sprintf(intFmt, m.Afferent),
			fmt.Sprintf(intFmt, m.Efferent),
			fmt.Sprintf("%.3f", m.Instability),
			m.Risk,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d modules\n", len(modules))
	return err
}

func writeModuleCSV(w io.Writer, modules []schema.ModuleInstability, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"module", "file_count", "function_count", "avg_complexity",
		"afferent", "efferent", "instability", "risk",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range modules {
			row := []string{
				m.Module,
				fmt.Sprintf(intFmt, m.FileCount),
				fmt.Sprintf(intFmt, m.FunctionCount),
				fmtFloat(m.AvgComplexity),
				fmt.Sprintf(intFmt, m.Afferent),
				fmt.Sprintf(intFmt, m.Efferent),
				strconv.FormatFloat(m.Instability, 'f', 3, 64),
				m.Risk,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
