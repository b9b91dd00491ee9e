package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// factorDescriptions explains what each scoring dimension measures.
var factorDescriptions = map[schema.FactorKey]string{
	schema.FactorComplexity:    "Cyclomatic complexity of the function body",
	schema.FactorChurn:         "Lines added plus deleted within the window",
	schema.FactorActivity:      "Commits touching the function within the window",
	schema.FactorFanIn:         "Distinct callers in the resolved call graph",
	schema.FactorCyclic:        "Membership in a call cycle (full weight when true)",
	schema.FactorDepth:         "Longest caller chain feeding the function",
	schema.FactorNeighborChurn: "Summed churn of direct callees",
}

// WriteMetricsDefinitions outputs the scoring dimensions with their active
// weights, dispatching on the configured output format.
func WriteMetricsDefinitions(weights map[schema.FactorKey]float64, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, weights)
		}, "Wrote JSON")
	case schema.OutputCSV:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsCSV(w, weights)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(weights, w)
		}, "Wrote table")
	}
}

func writeMetricsTable(weights map[schema.FactorKey]float64, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Dimension", "Weight", "Description"})

	var data [][]string
	for _, key := range schema.FactorOrder {
		data = append(data, []string{
			string(key),
			fmt.Sprintf("%.2f", weights[key]),
			factorDescriptions[key],
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Score = %.0f * sum(weight * normalized factor), banded at %.0f/%.0f/%.0f\n",
		schema.ScoreScale, schema.BandLowMax, schema.BandModerateMax, schema.BandHighMax)
	return err
}

func writeMetricsCSV(w io.Writer, weights map[schema.FactorKey]float64) error {
	header := []string{"dimension", "weight", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, key := range schema.FactorOrder {
			row := []string{
				string(key),
				fmt.Sprintf("%.2f", weights[key]),
				factorDescriptions[key],
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
