package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

func deltaReport(file, name string, startLine int, contentHash string) schema.FunctionReport {
	return schema.FunctionReport{
		Function: schema.Function{
			ID:          file + "::" + name,
			File:        file,
			Name:        name,
			StartLine:   startLine,
			EndLine:     startLine + 10,
			ContentHash: contentHash,
		},
		Metrics: schema.RawMetrics{CC: 3, ND: 1, LOC: 11},
	}
}

func snapshot(sha string, reports ...schema.FunctionReport) *schema.Snapshot {
	return &schema.Snapshot{CommitSHA: sha, Functions: reports}
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	s := snapshot("abc123",
		deltaReport("a.go", "alpha", 10, "h1"),
		deltaReport("b.go", "beta", 20, "h2"),
	)
	s.CoChange = []schema.CoChangePair{
		{FileA: "a.go", FileB: "b.go", CoChangeCount: 5, Risk: schema.CouplingHigh},
	}

	d := DiffSnapshots(s, s)
	assert.True(t, d.Empty())
	assert.Zero(t, d.AddedCount)
	assert.Zero(t, d.RemovedCount)
	assert.Zero(t, d.ModifiedCount)
}

func TestDiffAddedAndRemoved(t *testing.T) {
	old := snapshot("old", deltaReport("a.go", "kept", 1, "h1"), deltaReport("a.go", "gone", 30, "h2"))
	cur := snapshot("new", deltaReport("a.go", "kept", 1, "h1"), deltaReport("b.go", "fresh", 5, "h3"))

	d := DiffSnapshots(old, cur)
	assert.Equal(t, 1, d.AddedCount)
	assert.Equal(t, 1, d.RemovedCount)
	assert.Zero(t, d.ModifiedCount)
	require.Len(t, d.Functions, 2)

	// Sorted by id
	assert.Equal(t, "a.go::gone", d.Functions[0].ID)
	assert.Equal(t, schema.ChangeRemoved, d.Functions[0].Change)
	assert.Equal(t, "b.go::fresh", d.Functions[1].ID)
	assert.Equal(t, schema.ChangeAdded, d.Functions[1].Change)
}

func TestDiffModifiedFields(t *testing.T) {
	before := deltaReport("a.go", "f", 1, "h1")
	before.Metrics = schema.RawMetrics{CC: 3, ND: 1, LOC: 11}
	before.Churn = schema.ChurnRecord{LinesAdded: 4, LinesDeleted: 1}
	before.LRS = 2.0
	before.Band = schema.BandLow

	after := deltaReport("a.go", "f", 1, "h1-changed")
	after.Metrics = schema.RawMetrics{CC: 8, ND: 3, LOC: 25}
	after.Churn = schema.ChurnRecord{LinesAdded: 20, LinesDeleted: 5}
	after.LRS = 6.5
	after.Band = schema.BandHigh

	d := DiffSnapshots(snapshot("old", before), snapshot("new", after))
	require.Len(t, d.Functions, 1)
	fd := d.Functions[0]
	assert.Equal(t, schema.ChangeModified, fd.Change)
	assert.InDelta(t, 4.5, fd.LRSDelta, 1e-9)
	assert.Equal(t, 5, fd.CCDelta)
	assert.Equal(t, 2, fd.NDDelta)
	assert.Equal(t, 20, fd.ChurnDelta)
	assert.True(t, fd.BandMoved)
	assert.Equal(t, schema.BandLow, fd.OldBand)
	assert.Equal(t, schema.BandHigh, fd.NewBand)
}

func TestRenameHintSameNameAcrossFiles(t *testing.T) {
	old := snapshot("old", deltaReport("pkg/old.go", "helper", 10, "body-hash"))
	cur := snapshot("new", deltaReport("pkg/new.go", "helper", 42, "body-hash"))

	d := DiffSnapshots(old, cur)
	assert.Equal(t, 1, d.AddedCount)
	assert.Equal(t, 1, d.RemovedCount)
	require.Len(t, d.Renames, 1)

	h := d.Renames[0]
	assert.Equal(t, "pkg/old.go::helper", h.OldID)
	assert.Equal(t, "pkg/new.go::helper", h.NewID)
	assert.Equal(t, "same_name", h.Reason)
	assert.InDelta(t, 1.0, h.Confidence, 1e-9)
}

func TestRenameHintSameFilePosition(t *testing.T) {
	old := snapshot("old", deltaReport("a.go", "process", 100, "same-body"))
	cur := snapshot("new", deltaReport("a.go", "processAll", 104, "same-body"))

	d := DiffSnapshots(old, cur)
	require.Len(t, d.Renames, 1)
	assert.Equal(t, "same_file_position", d.Renames[0].Reason)
}

func TestRenameHintRejectedBeyondLineTolerance(t *testing.T) {
	old := snapshot("old", deltaReport("a.go", "process", 100, "same-body"))
	cur := snapshot("new", deltaReport("a.go", "processAll", 200, "same-body"))

	d := DiffSnapshots(old, cur)
	assert.Empty(t, d.Renames)
	assert.Equal(t, 1, d.AddedCount)
	assert.Equal(t, 1, d.RemovedCount)
}

func TestRenameHintRejectedLowConfidence(t *testing.T) {
	before := deltaReport("a.go", "work", 10, "h-old")
	before.Metrics = schema.RawMetrics{CC: 2, ND: 1, LOC: 8}
	after := deltaReport("b.go", "work", 10, "h-new")
	after.Metrics = schema.RawMetrics{CC: 30, ND: 9, LOC: 400}

	d := DiffSnapshots(snapshot("old", before), snapshot("new", after))
	assert.Empty(t, d.Renames)
}

func TestRenameHintPairsEachFunctionOnce(t *testing.T) {
	old := snapshot("old",
		deltaReport("a.go", "dup", 10, "hash-x"),
		deltaReport("b.go", "dup", 10, "hash-x"),
	)
	cur := snapshot("new", deltaReport("c.go", "dup", 10, "hash-x"))

	d := DiffSnapshots(old, cur)
	require.Len(t, d.Renames, 1)
	assert.Equal(t, "c.go::dup", d.Renames[0].NewID)
}

func TestFileDeltaRollup(t *testing.T) {
	before1 := deltaReport("a.go", "f1", 1, "h1")
	before1.LRS = 2.0
	before1.Band = schema.BandLow
	after1 := deltaReport("a.go", "f1", 1, "h1x")
	after1.LRS = 7.0
	after1.Band = schema.BandHigh

	old := snapshot("old", before1, deltaReport("a.go", "f2", 40, "h2"))
	cur := snapshot("new", after1, deltaReport("a.go", "f3", 60, "h3"))

	d := DiffSnapshots(old, cur)
	require.Len(t, d.Files, 1)
	f := d.Files[0]
	assert.Equal(t, "a.go", f.File)
	assert.Equal(t, 1, f.Added)
	assert.Equal(t, 1, f.Removed)
	assert.Equal(t, 1, f.Modified)
	assert.InDelta(t, 5.0, f.SumLRSDelta, 1e-9)
	assert.Equal(t, 1, f.BandPromoted)
	assert.Zero(t, f.BandDemoted)
}

func TestCoChangeDelta(t *testing.T) {
	old := snapshot("old")
	old.CoChange = []schema.CoChangePair{
		{FileA: "a.go", FileB: "b.go", Risk: schema.CouplingModerate},
		{FileA: "c.go", FileB: "d.go", Risk: schema.CouplingHigh},
	}
	cur := snapshot("new")
	cur.CoChange = []schema.CoChangePair{
		{FileA: "a.go", FileB: "b.go", Risk: schema.CouplingHigh},
		{FileA: "e.go", FileB: "f.go", Risk: schema.CouplingLow},
	}

	d := DiffSnapshots(old, cur)
	require.Len(t, d.CoChange, 3)

	assert.Equal(t, schema.CoChangeRiskIncreased, d.CoChange[0].Status)
	assert.Equal(t, schema.CouplingModerate, d.CoChange[0].OldRisk)
	assert.Equal(t, schema.CouplingHigh, d.CoChange[0].NewRisk)

	assert.Equal(t, "c.go", d.CoChange[1].FileA)
	assert.Equal(t, schema.CoChangeDropped, d.CoChange[1].Status)

	assert.Equal(t, "e.go", d.CoChange[2].FileA)
	assert.Equal(t, schema.CoChangeNew, d.CoChange[2].Status)
}

func TestCoChangeDeltaMatchesSwappedPair(t *testing.T) {
	old := snapshot("old")
	old.CoChange = []schema.CoChangePair{{FileA: "a.go", FileB: "b.go", Risk: schema.CouplingLow}}
	cur := snapshot("new")
	cur.CoChange = []schema.CoChangePair{{FileA: "b.go", FileB: "a.go", Risk: schema.CouplingLow}}

	d := DiffSnapshots(old, cur)
	assert.Empty(t, d.CoChange)
}
