// Package agg rolls per-function reports into file, directory, and module
// views, and extracts co-change coupling pairs from commit history.
// Aggregates are derived values, recomputed per snapshot, never mutated.
package agg

import (
	"math"
	"path"
	"sort"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// FileViews aggregates function reports per file. fileChurn carries each
// file's own diff churn, which can exceed the per-function sum when lines
// outside any function body changed. Sorted by risk score descending, path
// ascending on ties.
func FileViews(reports []schema.FunctionReport, fileChurn map[string]int) []schema.FileRiskView {
	type acc struct {
		sumCC, maxCC, count, critical, loc int
		sumLRS, maxLRS                     float64
	}
	byFile := make(map[string]*acc)

	for i := range reports {
		r := &reports[i]
		a := byFile[r.Function.File]
		if a == nil {
			a = &acc{}
			byFile[r.Function.File] = a
		}
		a.sumCC += r.Metrics.CC
		if r.Metrics.CC > a.maxCC {
			a.maxCC = r.Metrics.CC
		}
		a.count++
		a.loc += r.Metrics.LOC
		a.sumLRS += r.LRS
		if r.LRS > a.maxLRS {
			a.maxLRS = r.LRS
		}
		if r.Band == schema.BandCritical {
			a.critical++
		}
	}

	views := make([]schema.FileRiskView, 0, len(byFile))
	for file, a := range byFile {
		avgCC := float64(a.sumCC) / float64(a.count)
		churn := fileChurn[file]
		views = append(views, schema.FileRiskView{
			File:          file,
			FunctionCount: a.count,
			LOC:           a.loc,
			MaxCC:         a.maxCC,
			AvgCC:         round2(avgCC),
			SumLRS:        a.sumLRS,
			MaxLRS:        a.maxLRS,
			CriticalCount: a.critical,
			FileChurn:     churn,
			RiskScore:     round2(fileRiskScore(a.maxCC, avgCC, a.count, churn)),
		})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].RiskScore != views[j].RiskScore {
			return views[i].RiskScore > views[j].RiskScore
		}
		return views[i].File < views[j].File
	})
	return views
}

// fileRiskScore blends peak and average complexity with function density and
// capped churn.
func fileRiskScore(maxCC int, avgCC float64, fnCount, churn int) float64 {
	churnFactor := math.Min(float64(churn)/100.0, 10.0)
	return float64(maxCC)*0.4 +
		avgCC*0.3 +
		math.Log2(float64(fnCount)+1)*0.2 +
		churnFactor*0.1
}

// DirectoryViews rolls file views up to every ancestor directory. Sorted by
// directory path.
func DirectoryViews(files []schema.FileRiskView, reports []schema.FunctionReport) []schema.DirectoryView {
	highPlusByFile := make(map[string]int)
	for i := range reports {
		if reports[i].Band.AtLeast(schema.BandHigh) {
			highPlusByFile[reports[i].Function.File]++
		}
	}

	byDir := make(map[string]*schema.DirectoryView)
	for _, fv := range files {
		for dir := path.Dir(fv.File); dir != "." && dir != "/"; dir = path.Dir(dir) {
			dv := byDir[dir]
			if dv == nil {
				dv = &schema.DirectoryView{Directory: dir}
				byDir[dir] = dv
			}
			dv.FileCount++
			dv.FunctionCount += fv.FunctionCount
			dv.SumLRS += fv.SumLRS
			if fv.MaxLRS > dv.MaxLRS {
				dv.MaxLRS = fv.MaxLRS
			}
			dv.HighPlusCount += highPlusByFile[fv.File]
		}
	}

	views := make([]schema.DirectoryView, 0, len(byDir))
	for _, dv := range byDir {
		views = append(views, *dv)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Directory < views[j].Directory })
	return views
}

// ModuleViews computes instability per module. moduleOf maps a file to its
// module key; afferent/efferent count import and call edges crossing module
// boundaries. Modules with no functions are dropped. Sorted high risk first,
// then instability ascending, then module name.
func ModuleViews(reports []schema.FunctionReport, afferent, efferent map[string]int, moduleOf func(string) string) []schema.ModuleInstability {
	type acc struct {
		files map[string]bool
		count int
		sumCC int
	}
	byModule := make(map[string]*acc)
	for i := range reports {
		r := &reports[i]
		mod := moduleOf(r.Function.File)
		a := byModule[mod]
		if a == nil {
			a = &acc{files: make(map[string]bool)}
			byModule[mod] = a
		}
		a.files[r.Function.File] = true
		a.count++
		a.sumCC += r.Metrics.CC
	}

	views := make([]schema.ModuleInstability, 0, len(byModule))
	for mod, a := range byModule {
		aff := afferent[mod]
		eff := efferent[mod]
		instability := 0.5 // undefined when uncoupled, report neutral
		if aff+eff > 0 {
			instability = float64(eff) / float64(aff+eff)
		}
		avgCC := float64(a.sumCC) / float64(a.count)
		risk := "low"
		if instability < 0.3 && avgCC > 10.0 {
			risk = "high"
		}
		views = append(views, schema.ModuleInstability{
			Module:        mod,
			FileCount:     len(a.files),
			FunctionCount: a.count,
			AvgComplexity: round2(avgCC),
			Afferent:      aff,
			Efferent:      eff,
			Instability:   round3(instability),
			Risk:          risk,
		})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Risk != views[j].Risk {
			return views[i].Risk == "high"
		}
		if views[i].Instability != views[j].Instability {
			return views[i].Instability < views[j].Instability
		}
		return views[i].Module < views[j].Module
	})
	return views
}

// DirectoryOf is the default module granularity: the file's containing
// directory, "." for files at the repo root.
func DirectoryOf(file string) string {
	return path.Dir(file)
}

// CoChangePairs counts file pairs touched by the same commit across the
// window's commit file sets, keeping pairs with at least minCount
// co-changes. coupling_ratio = count / min(totalA, totalB), symmetric by
// construction. analyzed filters to files present in the snapshot; nil
// keeps everything. Risk classification happens in AnnotateStaticDeps.
func CoChangePairs(fileSets []contract.CommitFileSet, minCount int, analyzed map[string]bool) []schema.CoChangePair {
	pairCounts := make(map[[2]string]int)
	fileTotals := make(map[string]int)

	for _, fs := range fileSets {
		files := fs.Files
		if analyzed != nil {
			files = files[:0:0]
			for _, f := range fs.Files {
				if analyzed[f] {
					files = append(files, f)
				}
			}
		}
		for _, f := range files {
			fileTotals[f]++
		}
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				if files[i] == files[j] {
					continue
				}
				pairCounts[schema.CanonicalPairKey(files[i], files[j])]++
			}
		}
	}

	pairs := make([]schema.CoChangePair, 0, len(pairCounts))
	for key, count := range pairCounts {
		if count < minCount {
			continue
		}
		minTotal := fileTotals[key[0]]
		if fileTotals[key[1]] < minTotal {
			minTotal = fileTotals[key[1]]
		}
		ratio := 0.0
		if minTotal > 0 {
			ratio = float64(count) / float64(minTotal)
		}
		pairs = append(pairs, schema.CoChangePair{
			FileA:         key[0],
			FileB:         key[1],
			CoChangeCount: count,
			CouplingRatio: round3(ratio),
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CoChangeCount != pairs[j].CoChangeCount {
			return pairs[i].CoChangeCount > pairs[j].CoChangeCount
		}
		if pairs[i].FileA != pairs[j].FileA {
			return pairs[i].FileA < pairs[j].FileA
		}
		return pairs[i].FileB < pairs[j].FileB
	})
	return pairs
}

// AnnotateStaticDeps fills HasStaticDep and the risk classification for each
// pair. A static dependency in either direction, direct or transitive, makes
// the coupling expected regardless of ratio.
func AnnotateStaticDeps(pairs []schema.CoChangePair, hasDep func(a, b string) bool) {
	for i := range pairs {
		p := &pairs[i]
		p.HasStaticDep = hasDep(p.FileA, p.FileB)
		switch {
		case p.HasStaticDep:
			p.Risk = schema.CouplingExpected
		case p.CouplingRatio >= schema.CouplingHighRatio:
			p.Risk = schema.CouplingHigh
		case p.CouplingRatio >= schema.CouplingModerateRatio:
			p.Risk = schema.CouplingModerate
		default:
			p.Risk = schema.CouplingLow
		}
	}
}

// BandCounts tallies functions per risk band.
func BandCounts(reports []schema.FunctionReport) map[schema.RiskBand]int {
	counts := make(map[schema.RiskBand]int)
	for i := range reports {
		counts[reports[i].Band]++
	}
	return counts
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
