package outwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

func writerConfig() *contract.Config {
	return &contract.Config{
		Output:           schema.OutputText,
		Precision:        1,
		Workers:          4,
		Width:            120,
		DatabaseBackend:  schema.DatabaseNone,
		CouplingMinCount: 3,
	}
}

func sampleReport(id string, cc int, lrs float64, band schema.RiskBand) schema.FunctionReport {
	return schema.FunctionReport{
		Function: schema.Function{ID: id, File: "main.go", Name: "f", Language: schema.LangGo},
		Metrics:  schema.RawMetrics{CC: cc, ND: 1, LOC: 10},
		Churn:    schema.ChurnRecord{LinesAdded: 5, LinesDeleted: 2, TouchCount: 1},
		LRS:      lrs,
		Band:     band,
		Driver:   schema.DriverComposite,
	}
}

func TestWriteFunctionTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := writerConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	reports := []schema.FunctionReport{
		sampleReport("main.go::f", 12, 8.2, schema.BandHigh),
		sampleReport("main.go::g", 2, 1.0, schema.BandLow),
	}
	err := writeFunctionTable(reports, cfg, fmtFloat, intFmt, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "main.go::f")
	assert.Contains(t, out, "8.2")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "Showing top 2 functions (total churn: 14)")
	assert.Contains(t, out, "Database backend: none")
}

func TestWriteFunctionCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)

	err := writeFunctionCSV(&buf, []schema.FunctionReport{sampleReport("main.go::f", 12, 8.25, schema.BandHigh)}, fmtFloat, intFmt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "rank,id,file,name,language"))
	assert.Contains(t, lines[1], "main.go::f")
	assert.Contains(t, lines[1], "8.25")
	assert.Contains(t, lines[1], "High")
}

func TestWriteFileTableSummary(t *testing.T) {
	var buf bytes.Buffer
	cfg := writerConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	files := []schema.FileRiskView{
		{File: "core/a.go", FunctionCount: 3, MaxCC: 9, AvgCC: 4.0, FileChurn: 120, RiskScore: 5.5},
	}
	err := writeFileTable(files, cfg, fmtFloat, intFmt, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "core/a.go")
	assert.Contains(t, out, "Showing top 1 files (functions: 3, total churn: 120)")
}

func TestWriteDeltaTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	cfg := writerConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	delta := &schema.Delta{OldCommit: "aaaabbbbcccc", NewCommit: "ddddeeeeffff"}
	err := writeDeltaTable(delta, cfg, fmtFloat, intFmt, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "aaaabbbb -> ddddeeee")
	assert.Contains(t, out, "No changes between snapshots.")
}

func TestWriteDeltaTableRenames(t *testing.T) {
	var buf bytes.Buffer
	cfg := writerConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	delta := &schema.Delta{
		OldCommit: "aaaa",
		NewCommit: "bbbb",
		Functions: []schema.FunctionDelta{
			{ID: "a.go::old", File: "a.go", Name: "old", Change: schema.ChangeRemoved, OldLRS: 3.0, OldBand: schema.BandModerate},
			{ID: "b.go::new", File: "b.go", Name: "new", Change: schema.ChangeAdded, NewLRS: 3.1, NewBand: schema.BandModerate},
		},
		Renames: []schema.RenameHint{
			{OldID: "a.go::old", NewID: "b.go::new", Reason: "same_name", Confidence: 1.0},
		},
		AddedCount:   1,
		RemovedCount: 1,
	}
	err := writeDeltaTable(delta, cfg, fmtFloat, intFmt, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Possible rename: a.go::old -> b.go::new (same_name, confidence 1.00)")
	assert.Contains(t, out, "1 added, 1 removed, 0 modified")
}

func TestWriteSnapshotText(t *testing.T) {
	var buf bytes.Buffer
	cfg := writerConfig()

	snap := &schema.Snapshot{
		CommitSHA: "aaaabbbbccccdddd",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Functions: make([]schema.FunctionReport, 5),
		Files:     make([]schema.FileRiskView, 2),
		Bands: map[schema.RiskBand]int{
			schema.BandLow:  4,
			schema.BandHigh: 1,
		},
		SkippedFiles:    1,
		ResolutionRatio: 0.8,
	}
	err := writeSnapshotText(snap, cfg, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Snapshot aaaabbbb")
	assert.Contains(t, out, "Functions analyzed: 5 across 2 files")
	assert.Contains(t, out, "Skipped files: 1")
	assert.Contains(t, out, "Call resolution ratio: 0.80")
}

func TestWriteMetricsTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeMetricsTable(schema.GetDefaultWeights(), &buf)
	require.NoError(t, err)

	out := buf.String()
	for _, key := range schema.FactorOrder {
		assert.Contains(t, out, string(key))
	}
	assert.Contains(t, out, "banded at 3/6/9")
}

func TestBandTransition(t *testing.T) {
	cfg := writerConfig()

	moved := schema.FunctionDelta{
		Change:    schema.ChangeModified,
		OldBand:   schema.BandLow,
		NewBand:   schema.BandHigh,
		BandMoved: true,
	}
	assert.Equal(t, "Low -> High", bandTransition(cfg, moved))

	steady := schema.FunctionDelta{Change: schema.ChangeModified, NewBand: schema.BandModerate}
	assert.Equal(t, "Moderate", bandTransition(cfg, steady))

	added := schema.FunctionDelta{Change: schema.ChangeAdded, NewBand: schema.BandCritical}
	assert.Equal(t, "Critical", bandTransition(cfg, added))
}

func TestTruncatePathInTable(t *testing.T) {
	long := strings.Repeat("x", 100) + "/file.go"
	truncated := contract.TruncatePath(long, 30)
	assert.Len(t, truncated, 30)
	assert.True(t, strings.HasPrefix(truncated, "..."))
}
