package core

import (
	"math"
	"sort"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// Thresholds holds one snapshot's relative cutoffs. Computed once per
// snapshot from its own distribution and passed explicitly through scoring,
// never stored as process state.
type Thresholds struct {
	// Factor maps each dimension to its cutoff in normalized [0,1] space,
	// taken at the configured percentile of the snapshot's own values.
	Factor map[schema.FactorKey]float64

	// DeepNesting is the raw ND cutoff separating the high_complexity and
	// deep_nesting driver labels.
	DeepNesting float64
}

// ScoreSnapshot normalizes every function's signals against the snapshot's
// own distribution, fills Factors, LRS, Band, Percentile, and Driver in
// place, and returns the thresholds used. weights must cover all factor keys
// and sum to 1; driverPercentile is the cutoff percentile (e.g. 0.75).
func ScoreSnapshot(reports []schema.FunctionReport, weights map[schema.FactorKey]float64, driverPercentile float64) Thresholds {
	n := len(reports)

	raw := map[schema.FactorKey][]float64{}
	for _, key := range schema.FactorOrder {
		raw[key] = make([]float64, n)
	}
	ndValues := make([]float64, n)

	for i := range reports {
		r := &reports[i]
		raw[schema.FactorComplexity][i] = float64(r.Metrics.CC)
		raw[schema.FactorChurn][i] = float64(r.Churn.Total())
		// Activity blends touch count with decayed recency, so of two
		// functions touched equally often the fresher one ranks higher.
		raw[schema.FactorActivity][i] = float64(r.Churn.TouchCount) + r.Recency
		raw[schema.FactorFanIn][i] = float64(r.Graph.FanIn)
		raw[schema.FactorDepth][i] = float64(r.Graph.Depth)
		raw[schema.FactorNeighborChurn][i] = float64(r.Graph.NeighborChurn)
		if r.Graph.Cyclic {
			raw[schema.FactorCyclic][i] = 1.0
		}
		ndValues[i] = float64(r.Metrics.ND)
	}

	normalized := map[schema.FactorKey][]float64{}
	for _, key := range schema.FactorOrder {
		if key == schema.FactorCyclic {
			// Binary: full weight when in a cycle, no rank normalization.
			normalized[key] = raw[key]
			continue
		}
		normalized[key] = normalizeByRank(raw[key])
	}

	thresholds := Thresholds{
		Factor:      map[schema.FactorKey]float64{},
		DeepNesting: percentileOf(ndValues, driverPercentile),
	}
	for _, key := range schema.FactorOrder {
		if key == schema.FactorCyclic {
			// Exceeded exactly when the function is in a cycle.
			thresholds.Factor[key] = 0.5
			continue
		}
		thresholds.Factor[key] = percentileOf(normalized[key], driverPercentile)
	}

	for i := range reports {
		r := &reports[i]
		r.Factors = schema.RiskFactors{
			Complexity:       normalized[schema.FactorComplexity][i],
			Churn:            normalized[schema.FactorChurn][i],
			Activity:         normalized[schema.FactorActivity][i],
			FanIn:            normalized[schema.FactorFanIn][i],
			CyclicDependency: normalized[schema.FactorCyclic][i],
			Depth:            normalized[schema.FactorDepth][i],
			NeighborChurn:    normalized[schema.FactorNeighborChurn][i],
		}

		var lrs float64
		for _, key := range schema.FactorOrder {
			lrs += weights[key] * r.Factors.Get(key)
		}
		r.LRS = schema.ScoreScale * lrs
		r.Band = schema.BandForScore(r.LRS)
		r.Driver = attributeDriver(r.Factors, float64(r.Metrics.ND), thresholds)
	}

	fillPercentiles(reports)
	return thresholds
}

// normalizeByRank converts raw values to [0,1] by strict-less rank over the
// snapshot: the smallest value maps to 0 and the largest to 1. A uniform
// distribution maps everything to 0, so uniformly low metrics cannot
// saturate a label.
func normalizeByRank(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	denom := float64(n - 1)
	if denom < 1 {
		denom = 1
	}
	for i, v := range values {
		// Count of values strictly below v.
		rank := sort.SearchFloat64s(sorted, v)
		out[i] = float64(rank) / denom
	}
	return out
}

// percentileOf returns the nearest-rank percentile of values, 0 for an
// empty slice.
func percentileOf(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// attributeDriver picks the dimension with the largest margin above its own
// threshold. Margins within DriverMarginEpsilon of the best resolve by
// FactorOrder priority; when nothing exceeds its threshold meaningfully the
// function is labeled composite. Deterministic for identical inputs.
func attributeDriver(factors schema.RiskFactors, nd float64, thresholds Thresholds) schema.DriverLabel {
	best := schema.FactorKey("")
	bestMargin := 0.0

	for _, key := range schema.FactorOrder {
		margin := factors.Get(key) - thresholds.Factor[key]
		if margin <= schema.DriverMarginEpsilon {
			continue
		}
		// FactorOrder is priority order, so an earlier dimension keeps the
		// driver unless a later one beats it by more than epsilon.
		if best == "" || margin > bestMargin+schema.DriverMarginEpsilon {
			best = key
			bestMargin = margin
		}
	}

	switch best {
	case schema.FactorCyclic:
		return schema.DriverCyclicDependency
	case schema.FactorComplexity:
		if nd >= thresholds.DeepNesting && nd > 0 {
			return schema.DriverDeepNesting
		}
		return schema.DriverHighComplexity
	case schema.FactorNeighborChurn:
		return schema.DriverHighFanoutChurn
	case schema.FactorFanIn:
		return schema.DriverHighFaninComplex
	case schema.FactorChurn:
		return schema.DriverHighChurn
	case schema.FactorActivity:
		return schema.DriverHighActivity
	case schema.FactorDepth:
		return schema.DriverDeepDependency
	default:
		return schema.DriverComposite
	}
}

// fillPercentiles sets each report's LRS percentile within the snapshot.
func fillPercentiles(reports []schema.FunctionReport) {
	scores := make([]float64, len(reports))
	for i := range reports {
		scores[i] = reports[i].LRS
	}
	percentiles := normalizeByRank(scores)
	for i := range reports {
		reports[i].Percentile = percentiles[i]
	}
}
