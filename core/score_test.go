package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

func TestNormalizeByRank(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"ascending", []float64{1, 2, 3}, []float64{0, 0.5, 1}},
		{"all equal", []float64{4, 4, 4}, []float64{0, 0, 0}},
		{"single", []float64{7}, []float64{0}},
		{"empty", nil, []float64{}},
		{"duplicates", []float64{1, 1, 5}, []float64{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeByRank(tt.values)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestPercentileOf(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 3.0, percentileOf(values, 0.75), 1e-9)
	assert.InDelta(t, 4.0, percentileOf(values, 1.0), 1e-9)
	assert.InDelta(t, 1.0, percentileOf(values, 0.0), 1e-9)
	assert.Zero(t, percentileOf(nil, 0.75))
}

func report(cc, nd, churnTotal, touches, fanIn, depth, neighborChurn int, cyclic bool) schema.FunctionReport {
	return schema.FunctionReport{
		Metrics: schema.RawMetrics{CC: cc, ND: nd, LOC: 10},
		Churn:   schema.ChurnRecord{LinesAdded: churnTotal, TouchCount: touches},
		Graph: schema.GraphMetrics{
			FanIn:         fanIn,
			Depth:         depth,
			NeighborChurn: neighborChurn,
			Cyclic:        cyclic,
		},
	}
}

func scoreDefaults(reports []schema.FunctionReport) Thresholds {
	return ScoreSnapshot(reports, schema.GetDefaultWeights(), schema.DefaultDriverPercentile)
}

func TestUniformSnapshotStaysQuiet(t *testing.T) {
	// Identical metrics everywhere: relative normalization must not promote
	// anything, no matter how the absolute values look.
	reports := make([]schema.FunctionReport, 6)
	for i := range reports {
		reports[i] = report(9, 4, 50, 3, 2, 1, 10, false)
	}
	scoreDefaults(reports)

	for _, r := range reports {
		assert.Zero(t, r.LRS)
		assert.Equal(t, schema.BandLow, r.Band)
		assert.Equal(t, schema.DriverComposite, r.Driver)
	}
}

func TestHighComplexityDriver(t *testing.T) {
	reports := []schema.FunctionReport{
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(20, 0, 0, 0, 0, 0, 0, false),
	}
	scoreDefaults(reports)

	assert.Equal(t, schema.DriverHighComplexity, reports[4].Driver)
	for _, r := range reports[:4] {
		assert.Equal(t, schema.DriverComposite, r.Driver)
	}
}

func TestDeepNestingOverridesComplexityLabel(t *testing.T) {
	reports := []schema.FunctionReport{
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(20, 5, 0, 0, 0, 0, 0, false),
	}
	scoreDefaults(reports)

	assert.Equal(t, schema.DriverDeepNesting, reports[4].Driver)
}

func TestCyclicDriver(t *testing.T) {
	reports := []schema.FunctionReport{
		report(3, 1, 0, 0, 0, 0, 0, true),
		report(3, 1, 0, 0, 0, 0, 0, false),
		report(3, 1, 0, 0, 0, 0, 0, false),
	}
	scoreDefaults(reports)

	assert.Equal(t, schema.DriverCyclicDependency, reports[0].Driver)
	assert.InDelta(t, 1.0, reports[0].Factors.CyclicDependency, 1e-9)
}

func TestChurnDriver(t *testing.T) {
	reports := []schema.FunctionReport{
		report(2, 0, 0, 0, 0, 0, 0, false),
		report(2, 0, 5, 0, 0, 0, 0, false),
		report(2, 0, 10, 0, 0, 0, 0, false),
		report(2, 0, 15, 0, 0, 0, 0, false),
		report(2, 0, 500, 0, 0, 0, 0, false),
	}
	scoreDefaults(reports)

	assert.Equal(t, schema.DriverHighChurn, reports[4].Driver)
}

func TestLRSFullWeightSum(t *testing.T) {
	// The second function tops every distribution, so all seven factors
	// normalize to 1 and LRS reaches the full scale.
	reports := []schema.FunctionReport{
		report(1, 0, 0, 0, 0, 0, 0, false),
		report(10, 3, 100, 8, 5, 2, 200, true),
	}
	scoreDefaults(reports)

	assert.InDelta(t, schema.ScoreScale, reports[1].LRS, 1e-9)
	assert.Equal(t, schema.BandCritical, reports[1].Band)
	assert.Zero(t, reports[0].LRS)
	assert.Equal(t, schema.BandLow, reports[0].Band)

	assert.InDelta(t, 0.0, reports[0].Percentile, 1e-9)
	assert.InDelta(t, 1.0, reports[1].Percentile, 1e-9)
}

func TestDriverAttributionDeterministic(t *testing.T) {
	build := func() []schema.FunctionReport {
		return []schema.FunctionReport{
			report(2, 1, 40, 2, 1, 0, 30, false),
			report(8, 3, 10, 6, 4, 2, 5, false),
			report(15, 5, 90, 1, 0, 1, 70, true),
			report(4, 0, 0, 9, 8, 3, 0, false),
		}
	}

	first := build()
	second := build()
	scoreDefaults(first)
	scoreDefaults(second)

	for i := range first {
		assert.Equal(t, first[i].Driver, second[i].Driver)
		assert.InDelta(t, first[i].LRS, second[i].LRS, 1e-12)
	}
}

func TestRecencyLiftsActivity(t *testing.T) {
	// Same metrics and touch count everywhere; only the last-touch decay
	// differs. The fresher function must rank higher on activity and score.
	reports := []schema.FunctionReport{
		report(3, 1, 20, 2, 0, 0, 0, false),
		report(3, 1, 20, 2, 0, 0, 0, false),
		report(3, 1, 20, 2, 0, 0, 0, false),
		report(3, 1, 20, 2, 0, 0, 0, false),
	}
	reports[3].Recency = 1.0
	scoreDefaults(reports)

	assert.Greater(t, reports[3].Factors.Activity, reports[0].Factors.Activity)
	assert.Greater(t, reports[3].LRS, reports[0].LRS)
	assert.Equal(t, schema.DriverHighActivity, reports[3].Driver)
	for _, r := range reports[:3] {
		assert.Equal(t, schema.DriverComposite, r.Driver)
	}
}

func TestScoreSnapshotEmpty(t *testing.T) {
	thresholds := scoreDefaults(nil)
	assert.NotNil(t, thresholds.Factor)
}
