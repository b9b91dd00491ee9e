// Package parquet exports snapshot data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// FunctionRow is the flattened per-function record for one snapshot. One row
// per function report, suitable for loading into an analytical store.
type FunctionRow struct {
	// CommitSHA identifies the snapshot this row belongs to
	CommitSHA string `parquet:"commit_sha,snappy"`

	// SnapshotTime is the committer time of the analyzed commit
	SnapshotTime time.Time `parquet:"snapshot_time,snappy"`

	// FunctionID is the stable identifier (file::name, possibly suffixed)
	FunctionID string `parquet:"function_id,snappy"`

	FilePath string `parquet:"file_path,snappy"`
	Name     string `parquet:"name,snappy"`
	Language string `parquet:"language,snappy"`

	StartLine int32 `parquet:"start_line,snappy"`
	EndLine   int32 `parquet:"end_line,snappy"`

	CC        int32 `parquet:"cc,snappy"`
	ND        int32 `parquet:"nd,snappy"`
	LOC       int32 `parquet:"loc,snappy"`
	Unmodeled int32 `parquet:"unmodeled,snappy"`

	LinesAdded   int32 `parquet:"lines_added,snappy"`
	LinesDeleted int32 `parquet:"lines_deleted,snappy"`
	TouchCount   int32 `parquet:"touch_count,snappy"`

	// LastTouch is the newest commit touching the function (nullable when
	// the window saw no touches)
	LastTouch *time.Time `parquet:"last_touch,optional,snappy"`

	FanIn         int32 `parquet:"fan_in,snappy"`
	FanOut        int32 `parquet:"fan_out,snappy"`
	Cyclic        bool  `parquet:"cyclic,snappy"`
	Depth         int32 `parquet:"depth,snappy"`
	NeighborChurn int32 `parquet:"neighbor_churn,snappy"`

	Recency    float64 `parquet:"recency,snappy"`
	LRS        float64 `parquet:"lrs,snappy"`
	Percentile float64 `parquet:"percentile,snappy"`
	Band       string  `parquet:"band,snappy"`
	Driver     string  `parquet:"driver,snappy"`
}

// CouplingRow is the flattened co-change pair record for one snapshot.
type CouplingRow struct {
	CommitSHA     string  `parquet:"commit_sha,snappy"`
	FileA         string  `parquet:"file_a,snappy"`
	FileB         string  `parquet:"file_b,snappy"`
	CoChangeCount int32   `parquet:"co_change_count,snappy"`
	CouplingRatio float64 `parquet:"coupling_ratio,snappy"`
	HasStaticDep  bool    `parquet:"has_static_dep,snappy"`
	Risk          string  `parquet:"risk,snappy"`
}

// FunctionRows flattens a snapshot into parquet function rows.
func FunctionRows(snapshot *schema.Snapshot) []FunctionRow {
	rows := make([]FunctionRow, 0, len(snapshot.Functions))
	for _, r := range snapshot.Functions {
		row := FunctionRow{
			CommitSHA:     snapshot.CommitSHA,
			SnapshotTime:  snapshot.Timestamp,
			FunctionID:    r.Function.ID,
			FilePath:      r.Function.File,
			Name:          r.Function.Name,
			Language:      string(r.Function.Language),
			StartLine:     int32(r.Function.StartLine),
			EndLine:       int32(r.Function.EndLine),
			CC:            int32(r.Metrics.CC),
			ND:            int32(r.Metrics.ND),
			LOC:           int32(r.Metrics.LOC),
			Unmodeled:     int32(r.Metrics.Unmodeled),
			LinesAdded:    int32(r.Churn.LinesAdded),
			LinesDeleted:  int32(r.Churn.LinesDeleted),
			TouchCount:    int32(r.Churn.TouchCount),
			FanIn:         int32(r.Graph.FanIn),
			FanOut:        int32(r.Graph.FanOut),
			Cyclic:        r.Graph.Cyclic,
			Depth:         int32(r.Graph.Depth),
			NeighborChurn: int32(r.Graph.NeighborChurn),
			Recency:       r.Recency,
			LRS:           r.LRS,
			Percentile:    r.Percentile,
			Band:          string(r.Band),
			Driver:        string(r.Driver),
		}
		if !r.Churn.LastTouch.IsZero() {
			lt := r.Churn.LastTouch
			row.LastTouch = &lt
		}
		rows = append(rows, row)
	}
	return rows
}

// CouplingRows flattens a snapshot's co-change pairs into parquet rows.
func CouplingRows(snapshot *schema.Snapshot) []CouplingRow {
	rows := make([]CouplingRow, 0, len(snapshot.CoChange))
	for _, p := range snapshot.CoChange {
		rows = append(rows, CouplingRow{
			CommitSHA:     snapshot.CommitSHA,
			FileA:         p.FileA,
			FileB:         p.FileB,
			CoChangeCount: int32(p.CoChangeCount),
			CouplingRatio: p.CouplingRatio,
			HasStaticDep:  p.HasStaticDep,
			Risk:          string(p.Risk),
		})
	}
	return rows
}

// WriteFunctionRowsParquet writes function rows to a Parquet file. The schema
// is inferred from the FunctionRow struct tags.
func WriteFunctionRowsParquet(data []FunctionRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteCouplingRowsParquet writes coupling rows to a Parquet file.
func WriteCouplingRowsParquet(data []CouplingRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
