package agg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

func fnReport(file, name string, cc, loc int, lrs float64, band schema.RiskBand) schema.FunctionReport {
	return schema.FunctionReport{
		Function: schema.Function{
			ID:   file + "::" + name,
			File: file,
			Name: name,
		},
		Metrics: schema.RawMetrics{CC: cc, LOC: loc},
		LRS:     lrs,
		Band:    band,
	}
}

func TestFileViews(t *testing.T) {
	reports := []schema.FunctionReport{
		fnReport("src/a.go", "one", 10, 40, 8.0, schema.BandHigh),
		fnReport("src/a.go", "two", 2, 10, 1.0, schema.BandLow),
		fnReport("src/b.go", "three", 4, 20, 9.5, schema.BandCritical),
	}
	views := FileViews(reports, map[string]int{"src/a.go": 250})
	require.Len(t, views, 2)

	// src/a.go has the higher risk score and sorts first:
	// 10*0.4 + 6*0.3 + log2(3)*0.2 + 2.5*0.1 = 4 + 1.8 + 0.317 + 0.25
	a := views[0]
	assert.Equal(t, "src/a.go", a.File)
	assert.Equal(t, 2, a.FunctionCount)
	assert.Equal(t, 50, a.LOC)
	assert.Equal(t, 10, a.MaxCC)
	assert.InDelta(t, 6.0, a.AvgCC, 1e-9)
	assert.InDelta(t, 9.0, a.SumLRS, 1e-9)
	assert.InDelta(t, 8.0, a.MaxLRS, 1e-9)
	assert.Equal(t, 0, a.CriticalCount)
	assert.Equal(t, 250, a.FileChurn)
	assert.InDelta(t, 6.37, a.RiskScore, 0.01)

	b := views[1]
	assert.Equal(t, "src/b.go", b.File)
	assert.Equal(t, 1, b.CriticalCount)
	assert.Equal(t, 0, b.FileChurn)
}

func TestFileChurnCapped(t *testing.T) {
	reports := []schema.FunctionReport{fnReport("a.go", "f", 1, 5, 0, schema.BandLow)}
	low := FileViews(reports, map[string]int{"a.go": 1000})
	high := FileViews(reports, map[string]int{"a.go": 100000})
	// Churn factor saturates at 10
	assert.InDelta(t, low[0].RiskScore, high[0].RiskScore, 1e-9)
}

func TestDirectoryViewsRecursiveRollup(t *testing.T) {
	reports := []schema.FunctionReport{
		fnReport("src/api/handler.go", "h", 3, 10, 8.0, schema.BandHigh),
		fnReport("src/api/router.go", "r", 2, 10, 5.0, schema.BandModerate),
		fnReport("src/util.go", "u", 1, 10, 3.0, schema.BandLow),
	}
	files := FileViews(reports, nil)
	dirs := DirectoryViews(files, reports)

	byDir := map[string]schema.DirectoryView{}
	for _, d := range dirs {
		byDir[d.Directory] = d
	}

	api := byDir["src/api"]
	assert.Equal(t, 2, api.FileCount)
	assert.InDelta(t, 13.0, api.SumLRS, 1e-9)
	assert.InDelta(t, 8.0, api.MaxLRS, 1e-9)
	assert.Equal(t, 1, api.HighPlusCount)

	src := byDir["src"]
	assert.Equal(t, 3, src.FileCount)
	assert.InDelta(t, 16.0, src.SumLRS, 1e-9)
	assert.Equal(t, 1, src.HighPlusCount)
}

func TestModuleViews(t *testing.T) {
	reports := []schema.FunctionReport{
		fnReport("core/a.go", "f1", 15, 10, 0, schema.BandLow),
		fnReport("core/a.go", "f2", 11, 10, 0, schema.BandLow),
		fnReport("web/h.go", "f3", 2, 10, 0, schema.BandLow),
	}
	// web depends on core
	afferent := map[string]int{"core": 1}
	efferent := map[string]int{"web": 1}

	views := ModuleViews(reports, afferent, efferent, DirectoryOf)
	require.Len(t, views, 2)

	// core: instability 0/(1+0)=0, avg CC 13 > 10 -> high risk, sorts first
	core := views[0]
	assert.Equal(t, "core", core.Module)
	assert.Equal(t, "high", core.Risk)
	assert.Zero(t, core.Instability)
	assert.InDelta(t, 13.0, core.AvgComplexity, 1e-9)
	assert.Equal(t, 1, core.Afferent)

	web := views[1]
	assert.Equal(t, "web", web.Module)
	assert.Equal(t, "low", web.Risk)
	assert.InDelta(t, 1.0, web.Instability, 1e-9)
}

func TestModuleViewsNeutralWhenUncoupled(t *testing.T) {
	reports := []schema.FunctionReport{fnReport("solo/x.go", "f", 1, 5, 0, schema.BandLow)}
	views := ModuleViews(reports, nil, nil, DirectoryOf)
	require.Len(t, views, 1)
	assert.InDelta(t, 0.5, views[0].Instability, 1e-9)
	assert.Equal(t, "low", views[0].Risk)
}

func commitSet(files ...string) contract.CommitFileSet {
	return contract.CommitFileSet{Files: files}
}

func TestCoChangePairs(t *testing.T) {
	sets := []contract.CommitFileSet{
		commitSet("a.go", "b.go"),
		commitSet("a.go", "b.go"),
		commitSet("a.go", "b.go", "c.go"),
		commitSet("a.go"),
	}
	pairs := CoChangePairs(sets, 3, nil)
	require.Len(t, pairs, 1)

	p := pairs[0]
	assert.Equal(t, "a.go", p.FileA)
	assert.Equal(t, "b.go", p.FileB)
	assert.Equal(t, 3, p.CoChangeCount)
	// min(totalA=4, totalB=3) = 3 -> ratio 1.0
	assert.InDelta(t, 1.0, p.CouplingRatio, 1e-9)
}

func TestCoChangeRatioSymmetric(t *testing.T) {
	sets := []contract.CommitFileSet{
		commitSet("x.go", "y.go"),
		commitSet("y.go", "x.go"),
		commitSet("x.go", "y.go"),
		commitSet("x.go"),
		commitSet("x.go"),
	}
	forward := CoChangePairs(sets, 1, nil)

	swapped := []contract.CommitFileSet{
		commitSet("y.go", "x.go"),
		commitSet("x.go", "y.go"),
		commitSet("y.go", "x.go"),
		commitSet("x.go"),
		commitSet("x.go"),
	}
	reverse := CoChangePairs(swapped, 1, nil)

	require.Len(t, forward, 1)
	require.Len(t, reverse, 1)
	assert.Equal(t, forward[0].Key(), reverse[0].Key())
	assert.InDelta(t, forward[0].CouplingRatio, reverse[0].CouplingRatio, 1e-9)
}

func TestCoChangePairsFiltersUnanalyzed(t *testing.T) {
	sets := []contract.CommitFileSet{
		commitSet("a.go", "README.md"),
		commitSet("a.go", "README.md"),
		commitSet("a.go", "README.md"),
	}
	pairs := CoChangePairs(sets, 1, map[string]bool{"a.go": true})
	assert.Empty(t, pairs)
}

func TestAnnotateStaticDeps(t *testing.T) {
	pairs := []schema.CoChangePair{
		{FileA: "a.go", FileB: "b.go", CouplingRatio: 0.9}, // dep -> expected despite high ratio
		{FileA: "c.go", FileB: "d.go", CouplingRatio: 0.8},
		{FileA: "e.go", FileB: "f.go", CouplingRatio: 0.5},
		{FileA: "g.go", FileB: "h.go", CouplingRatio: 0.1},
	}
	deps := map[[2]string]bool{{"a.go", "b.go"}: true}
	AnnotateStaticDeps(pairs, func(a, b string) bool {
		return deps[schema.CanonicalPairKey(a, b)]
	})

	assert.Equal(t, schema.CouplingExpected, pairs[0].Risk)
	assert.True(t, pairs[0].HasStaticDep)
	assert.Equal(t, schema.CouplingHigh, pairs[1].Risk)
	assert.Equal(t, schema.CouplingModerate, pairs[2].Risk)
	assert.Equal(t, schema.CouplingLow, pairs[3].Risk)
}

func TestBandCounts(t *testing.T) {
	reports := []schema.FunctionReport{
		fnReport("a.go", "f1", 1, 5, 1, schema.BandLow),
		fnReport("a.go", "f2", 1, 5, 4, schema.BandModerate),
		fnReport("b.go", "f3", 1, 5, 4.5, schema.BandModerate),
	}
	counts := BandCounts(reports)
	assert.Equal(t, 1, counts[schema.BandLow])
	assert.Equal(t, 2, counts[schema.BandModerate])
	assert.Zero(t, counts[schema.BandCritical])
}
