package core

import (
	"sort"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// RankFunctions sorts function reports by score in descending order and
// returns the top 'limit' entries. Ties resolve by function ID so ranking is
// stable across runs. A non-positive limit returns everything.
func RankFunctions(reports []schema.FunctionReport, limit int) []schema.FunctionReport {
	ranked := make([]schema.FunctionReport, len(reports))
	copy(ranked, reports)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LRS != ranked[j].LRS {
			return ranked[i].LRS > ranked[j].LRS
		}
		return ranked[i].Function.ID < ranked[j].Function.ID
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// RankFiles sorts file views by risk score in descending order and returns
// the top 'limit' entries. The aggregator already orders them; this only
// applies the result limit and keeps the contract symmetric with functions.
func RankFiles(files []schema.FileRiskView, limit int) []schema.FileRiskView {
	ranked := make([]schema.FileRiskView, len(files))
	copy(ranked, files)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RiskScore != ranked[j].RiskScore {
			return ranked[i].RiskScore > ranked[j].RiskScore
		}
		return ranked[i].File < ranked[j].File
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
