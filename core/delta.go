package core

import (
	"sort"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// DiffSnapshots compares two snapshots of the same repository. Functions are
// matched by stable id; unmatched removed/added entries additionally get
// rename hints when an old/new pair looks like the same code under a new
// identity. Comparing a snapshot against itself yields an empty delta.
func DiffSnapshots(old, cur *schema.Snapshot) schema.Delta {
	delta := schema.Delta{
		OldCommit: old.CommitSHA,
		NewCommit: cur.CommitSHA,
	}

	oldByID := indexReports(old.Functions)
	curByID := indexReports(cur.Functions)

	var removed, added []schema.FunctionReport

	for _, o := range old.Functions {
		n, ok := curByID[o.Function.ID]
		if !ok {
			removed = append(removed, o)
			continue
		}
		if fd, changed := diffFunction(o, n); changed {
			delta.Functions = append(delta.Functions, fd)
			delta.ModifiedCount++
		}
	}
	for _, n := range cur.Functions {
		if _, ok := oldByID[n.Function.ID]; !ok {
			added = append(added, n)
		}
	}

	for _, o := range removed {
		delta.Functions = append(delta.Functions, schema.FunctionDelta{
			ID:      o.Function.ID,
			File:    o.Function.File,
			Name:    o.Function.Name,
			Change:  schema.ChangeRemoved,
			OldLRS:  o.LRS,
			OldBand: o.Band,
		})
		delta.RemovedCount++
	}
	for _, n := range added {
		delta.Functions = append(delta.Functions, schema.FunctionDelta{
			ID:      n.Function.ID,
			File:    n.Function.File,
			Name:    n.Function.Name,
			Change:  schema.ChangeAdded,
			NewLRS:  n.LRS,
			NewBand: n.Band,
		})
		delta.AddedCount++
	}

	sort.Slice(delta.Functions, func(i, j int) bool {
		return delta.Functions[i].ID < delta.Functions[j].ID
	})

	delta.Renames = renameHints(removed, added)
	delta.Files = fileDeltas(delta.Functions)
	delta.CoChange = diffCoChange(old.CoChange, cur.CoChange)
	return delta
}

func indexReports(reports []schema.FunctionReport) map[string]schema.FunctionReport {
	byID := make(map[string]schema.FunctionReport, len(reports))
	for _, r := range reports {
		byID[r.Function.ID] = r
	}
	return byID
}

// diffFunction classifies a matched pair. Entries that changed in no tracked
// field are unchanged and stay out of the delta.
func diffFunction(o, n schema.FunctionReport) (schema.FunctionDelta, bool) {
	fd := schema.FunctionDelta{
		ID:         n.Function.ID,
		File:       n.Function.File,
		Name:       n.Function.Name,
		Change:     schema.ChangeModified,
		OldLRS:     o.LRS,
		NewLRS:     n.LRS,
		LRSDelta:   n.LRS - o.LRS,
		CCDelta:    n.Metrics.CC - o.Metrics.CC,
		NDDelta:    n.Metrics.ND - o.Metrics.ND,
		ChurnDelta: n.Churn.Total() - o.Churn.Total(),
		OldBand:    o.Band,
		NewBand:    n.Band,
		BandMoved:  o.Band != n.Band,
	}
	if o.Function.ContentHash == n.Function.ContentHash &&
		fd.LRSDelta == 0 && fd.CCDelta == 0 && fd.NDDelta == 0 &&
		fd.ChurnDelta == 0 && !fd.BandMoved {
		return schema.FunctionDelta{}, false
	}
	return fd, true
}

// renameHints pairs removed functions with added ones. Candidates are either
// same-name moves across files or same-file entries starting within a small
// line distance. A hint is emitted only when body similarity clears the
// confidence threshold; the pair still counts as removed plus added.
func renameHints(removed, added []schema.FunctionReport) []schema.RenameHint {
	type candidate struct {
		oldIdx, newIdx int
		reason         string
		confidence     float64
	}
	var candidates []candidate

	for i, o := range removed {
		for j, n := range added {
			reason := ""
			switch {
			case o.Function.Name == n.Function.Name && o.Function.File != n.Function.File:
				reason = "same_name"
			case o.Function.File == n.Function.File &&
				absInt(o.Function.StartLine-n.Function.StartLine) <= schema.RenameLineTolerance:
				reason = "same_file_position"
			default:
				continue
			}
			conf := renameConfidence(o, n)
			if conf < schema.RenameSimilarityThreshold {
				continue
			}
			candidates = append(candidates, candidate{i, j, reason, conf})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		if removed[candidates[i].oldIdx].Function.ID != removed[candidates[j].oldIdx].Function.ID {
			return removed[candidates[i].oldIdx].Function.ID < removed[candidates[j].oldIdx].Function.ID
		}
		return added[candidates[i].newIdx].Function.ID < added[candidates[j].newIdx].Function.ID
	})

	var hints []schema.RenameHint
	usedOld := make(map[int]bool)
	usedNew := make(map[int]bool)
	for _, c := range candidates {
		if usedOld[c.oldIdx] || usedNew[c.newIdx] {
			continue
		}
		usedOld[c.oldIdx] = true
		usedNew[c.newIdx] = true
		hints = append(hints, schema.RenameHint{
			OldID:      removed[c.oldIdx].Function.ID,
			NewID:      added[c.newIdx].Function.ID,
			Reason:     c.reason,
			Confidence: c.confidence,
		})
	}
	sort.Slice(hints, func(i, j int) bool { return hints[i].OldID < hints[j].OldID })
	return hints
}

// renameConfidence estimates how likely two function bodies are the same
// code. An identical content hash is a certain match, an identical decision
// structure a strong one. Otherwise fall back to metric proximity.
func renameConfidence(o, n schema.FunctionReport) float64 {
	if o.Function.ContentHash != "" && o.Function.ContentHash == n.Function.ContentHash {
		return 1.0
	}
	if o.Function.StructHash != "" && o.Function.StructHash == n.Function.StructHash {
		return 0.8
	}
	sim := metricSimilarity(o.Metrics.CC, n.Metrics.CC)
	sim += metricSimilarity(o.Metrics.ND, n.Metrics.ND)
	sim += metricSimilarity(o.Metrics.LOC, n.Metrics.LOC)
	return sim / 3
}

func metricSimilarity(a, b int) float64 {
	if a == b {
		return 1.0
	}
	hi := a
	lo := b
	if b > a {
		hi, lo = b, a
	}
	if hi == 0 {
		return 1.0
	}
	return float64(lo) / float64(hi)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func fileDeltas(functions []schema.FunctionDelta) []schema.FileDelta {
	byFile := make(map[string]*schema.FileDelta)
	for _, fd := range functions {
		agg := byFile[fd.File]
		if agg == nil {
			agg = &schema.FileDelta{File: fd.File}
			byFile[fd.File] = agg
		}
		switch fd.Change {
		case schema.ChangeAdded:
			agg.Added++
		case schema.ChangeRemoved:
			agg.Removed++
		case schema.ChangeModified:
			agg.Modified++
		}
		agg.SumLRSDelta += fd.LRSDelta
		if fd.Change == schema.ChangeModified && fd.BandMoved {
			if fd.NewBand.AtLeast(fd.OldBand) {
				agg.BandPromoted++
			} else {
				agg.BandDemoted++
			}
		}
	}
	out := make([]schema.FileDelta, 0, len(byFile))
	for _, agg := range byFile {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

var couplingRank = map[schema.CouplingRisk]int{
	schema.CouplingLow:      0,
	schema.CouplingModerate: 1,
	schema.CouplingExpected: 2,
	schema.CouplingHigh:     3,
}

func diffCoChange(old, cur []schema.CoChangePair) []schema.CoChangeDelta {
	oldByKey := make(map[[2]string]schema.CoChangePair, len(old))
	for _, p := range old {
		oldByKey[p.Key()] = p
	}
	curByKey := make(map[[2]string]schema.CoChangePair, len(cur))
	for _, p := range cur {
		curByKey[p.Key()] = p
	}

	var out []schema.CoChangeDelta
	for _, p := range cur {
		prev, ok := oldByKey[p.Key()]
		if !ok {
			out = append(out, schema.CoChangeDelta{
				FileA:   p.FileA,
				FileB:   p.FileB,
				Status:  schema.CoChangeNew,
				NewRisk: p.Risk,
			})
			continue
		}
		if prev.Risk == p.Risk {
			continue
		}
		status := schema.CoChangeRiskDecreased
		if couplingRank[p.Risk] > couplingRank[prev.Risk] {
			status = schema.CoChangeRiskIncreased
		}
		out = append(out, schema.CoChangeDelta{
			FileA:   p.FileA,
			FileB:   p.FileB,
			Status:  status,
			OldRisk: prev.Risk,
			NewRisk: p.Risk,
		})
	}
	for _, p := range old {
		if _, ok := curByKey[p.Key()]; !ok {
			out = append(out, schema.CoChangeDelta{
				FileA:   p.FileA,
				FileB:   p.FileB,
				Status:  schema.CoChangeDropped,
				OldRisk: p.Risk,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FileA != out[j].FileA {
			return out[i].FileA < out[j].FileA
		}
		return out[i].FileB < out[j].FileB
	})
	return out
}
