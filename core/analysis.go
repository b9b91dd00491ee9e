package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/core/agg"
	"github.com/Stephen-Collins-tech/hotspots-sub001/core/callgraph"
	cflow "github.com/Stephen-Collins-tech/hotspots-sub001/core/cfg"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/adapter"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/imports"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// Analyzer runs the full per-commit pipeline: file listing, extraction,
// metrics, churn join, call graph, scoring and aggregation.
type Analyzer struct {
	cfg      *contract.Config
	client   contract.GitClient
	registry *adapter.Registry
	mgr      contract.CacheManager
	counters CacheCounters
}

// NewAnalyzer wires an analyzer for one configuration. The cache manager may
// have a no-op backend; every cache interaction degrades to recomputation.
func NewAnalyzer(cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		client:   client,
		registry: adapter.DefaultRegistry(cfg.Languages),
		mgr:      mgr,
	}
}

// CacheStats returns the churn cache counters accumulated so far.
func (a *Analyzer) CacheStats() CacheStats {
	return a.counters.Stats()
}

// fileResult is the per-file output of one worker.
type fileResult struct {
	extract   *contract.FileExtract
	reports   []schema.FunctionReport
	fileChurn int
	skipped   bool
}

// BuildSnapshot analyzes the configured ref and produces a complete snapshot.
// Parse failures skip individual files; history access failures for the
// commit itself abort the run before anything is persisted.
func (a *Analyzer) BuildSnapshot(ctx context.Context) (*schema.Snapshot, error) {
	sha, err := a.client.ResolveCommit(ctx, a.cfg.RepoPath, a.cfg.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ref '%s': %w", a.cfg.Ref, err)
	}

	commitTime, err := a.client.GetCommitTime(ctx, a.cfg.RepoPath, sha)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit time for %s: %w", sha, err)
	}
	cfg := a.cfg.Clone()
	cfg.AnchorWindow(commitTime)

	parents, err := a.client.GetCommitParents(ctx, cfg.RepoPath, sha)
	if err != nil {
		contract.LogWarn("Could not read commit parents", err)
	}

	files, err := a.listAnalyzableFiles(ctx, cfg, sha)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no analyzable files found")
	}

	goMod, _ := a.client.ReadFileAtRef(ctx, cfg.RepoPath, sha, "go.mod")
	resolver := imports.NewResolver(files, goMod)

	results := a.analyzeRepo(ctx, cfg, sha, files)

	var (
		extracts  []*contract.FileExtract
		reports   []schema.FunctionReport
		fileChurn = make(map[string]int)
		skipped   int
	)
	for _, r := range results {
		if r.skipped {
			skipped++
			continue
		}
		extracts = append(extracts, r.extract)
		reports = append(reports, r.reports...)
		fileChurn[r.extract.File] = r.fileChurn
	}

	// Barrier: the graph passes need every per-function result.
	graph := buildCallGraph(extracts)
	churnByID := make(map[string]schema.ChurnRecord, len(reports))
	for _, r := range reports {
		churnByID[r.Function.ID] = r.Churn
	}
	graphMetrics := graph.Metrics(churnByID)
	for i := range reports {
		reports[i].Graph = graphMetrics[reports[i].Function.ID]
		reports[i].Recency = recencyOf(reports[i].Churn.LastTouch, cfg.EndTime)
	}

	ScoreSnapshot(reports, cfg.ComputedWeights, cfg.DriverPercentile)

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Function.ID < reports[j].Function.ID
	})

	fileGraph := imports.BuildFileGraph(resolver, extracts)
	graph.CrossFileEdges(fileGraph.AddEdge)

	fileViews := agg.FileViews(reports, fileChurn)
	afferent, efferent := fileGraph.CountCrossings(imports.ModuleOfFile)

	fileSets, err := a.client.GetCommitFileSets(ctx, cfg.RepoPath, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit history: %w", err)
	}
	analyzed := make(map[string]bool, len(files))
	for _, f := range files {
		analyzed[f] = true
	}
	pairs := agg.CoChangePairs(fileSets, cfg.CouplingMinCount, analyzed)
	agg.AnnotateStaticDeps(pairs, fileGraph.HasDep)

	return &schema.Snapshot{
		CommitSHA:       sha,
		Parents:         parents,
		Timestamp:       commitTime,
		Functions:       reports,
		Files:           fileViews,
		Directories:     agg.DirectoryViews(fileViews, reports),
		Modules:         agg.ModuleViews(reports, afferent, efferent, imports.ModuleOfFile),
		CoChange:        pairs,
		Bands:           agg.BandCounts(reports),
		SkippedFiles:    skipped,
		ResolutionRatio: graph.ResolutionRatio(),
	}, nil
}

// SnapshotAtRef loads the stored snapshot for a ref, building and persisting
// one when the store has no entry for it.
func (a *Analyzer) SnapshotAtRef(ctx context.Context, ref string) (*schema.Snapshot, error) {
	sha, err := a.client.ResolveCommit(ctx, a.cfg.RepoPath, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ref '%s': %w", ref, err)
	}

	store := a.mgr.GetSnapshotStore()
	if store != nil {
		if snap, err := store.Get(sha); err == nil && snap != nil {
			return snap, nil
		}
	}

	sub := NewAnalyzer(a.cfg.CloneWithRef(sha), a.client, a.mgr)
	snap, err := sub.BuildSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Persist(snap); err != nil {
		contract.LogWarn("Could not persist snapshot", err)
	}
	return snap, nil
}

// BuildDelta compares the snapshots of the configured base and target refs.
func (a *Analyzer) BuildDelta(ctx context.Context) (*schema.Delta, error) {
	if a.cfg.BaseRef == "" {
		return nil, errors.New("delta requires a base ref")
	}
	base, err := a.SnapshotAtRef(ctx, a.cfg.BaseRef)
	if err != nil {
		return nil, fmt.Errorf("base snapshot: %w", err)
	}
	target, err := a.SnapshotAtRef(ctx, a.cfg.TargetRef)
	if err != nil {
		return nil, fmt.Errorf("target snapshot: %w", err)
	}
	delta := DiffSnapshots(base, target)
	return &delta, nil
}

// Persist stores a completed snapshot. A snapshot already stored for the
// same commit is left untouched.
func (a *Analyzer) Persist(snapshot *schema.Snapshot) error {
	store := a.mgr.GetSnapshotStore()
	if store == nil {
		return nil
	}
	return store.Put(snapshot)
}

// listAnalyzableFiles lists tracked files at the commit and keeps those that
// pass the path filter, the exclude list and have a registered adapter.
func (a *Analyzer) listAnalyzableFiles(ctx context.Context, cfg *contract.Config, sha string) ([]string, error) {
	files, err := a.client.ListFilesAtRef(ctx, cfg.RepoPath, sha)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", sha, err)
	}

	filtered := make([]string, 0, len(files))
	for _, f := range files {
		if cfg.PathFilter != "" && !strings.HasPrefix(f, cfg.PathFilter) {
			continue
		}
		if contract.ShouldIgnore(f, cfg.Excludes) {
			continue
		}
		if a.registry.ForFile(f) == nil {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, nil
}

// analyzeRepo processes all files in parallel using a worker pool of
// cfg.Workers goroutines. Result order is not deterministic here; callers
// sort by function ID before emitting anything.
func (a *Analyzer) analyzeRepo(ctx context.Context, cfg *contract.Config, sha string, files []string) []fileResult {
	fileCh := make(chan string, len(files))
	resultCh := make(chan fileResult, len(files))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				resultCh <- a.analyzeFile(ctx, cfg, sha, f)
			}
		})
	}

	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	wg.Wait()
	close(resultCh)

	results := make([]fileResult, 0, len(files))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// analyzeFile extracts one file, computes structural metrics and joins churn
// history onto each function. A parse or read failure marks the file skipped
// and never aborts the run.
func (a *Analyzer) analyzeFile(ctx context.Context, cfg *contract.Config, sha, path string) fileResult {
	src, err := a.client.ReadFileAtRef(ctx, cfg.RepoPath, sha, path)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Could not read %s", path), err)
		return fileResult{skipped: true}
	}

	ad := a.registry.ForFile(path)
	extract, err := ad.ExtractFile(ctx, path, src)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Could not parse %s", path), err)
		return fileResult{skipped: true}
	}

	assignIdentities(extract)

	reports := make([]schema.FunctionReport, 0, len(extract.Functions))
	for _, fe := range extract.Functions {
		reports = append(reports, schema.FunctionReport{
			Function: fe.Function,
			Metrics: cflow.ComputeMetrics(
				fe.DecisionPoints,
				fe.Function.StartLine,
				fe.Function.EndLine,
				fe.Unmodeled,
			),
		})
	}

	fileChurn := a.joinFileChurn(ctx, cfg, path, src, reports)

	return fileResult{extract: extract, reports: reports, fileChurn: fileChurn}
}

// assignIdentities fills the stable ID and both hashes for every extracted
// unit. Same-file name collisions get a structural-hash suffix.
func assignIdentities(extract *contract.FileExtract) {
	nameCount := make(map[string]int, len(extract.Functions))
	for _, fe := range extract.Functions {
		nameCount[fe.Function.Name]++
	}
	for i := range extract.Functions {
		fe := &extract.Functions[i]
		fe.Function.ContentHash = cflow.ContentHash(fe.Body)
		fe.Function.StructHash = cflow.StructuralHash(fe.DecisionPoints)
		if nameCount[fe.Function.Name] > 1 {
			fe.Function.ID = cflow.DisambiguateID(fe.Function.File, fe.Function.Name, fe.Function.StructHash)
		} else {
			fe.Function.ID = cflow.FunctionID(fe.Function.File, fe.Function.Name)
		}
	}
}

// joinFileChurn fills the Churn record of each report and returns the file's
// total churn. The diff log is walked only when at least one function (or
// the file-level total) misses the cache; an unchanged file answers entirely
// from cached entries.
func (a *Analyzer) joinFileChurn(ctx context.Context, cfg *contract.Config, path string, src []byte, reports []schema.FunctionReport) int {
	store := a.mgr.GetChurnStore()

	fileHash := cflow.ContentHash(string(src))
	fileKey := churnCacheKey(cfg.RepoPath, "file::"+path, fileHash, cfg.StartTime, cfg.EndTime)

	keys := make([]string, len(reports))
	missing := false
	for i := range reports {
		keys[i] = churnCacheKey(cfg.RepoPath, reports[i].Function.ID, reports[i].Function.ContentHash, cfg.StartTime, cfg.EndTime)
		if rec, ok := checkChurnHit(store, keys[i], &a.counters); ok {
			reports[i].Churn = rec
		} else {
			missing = true
		}
	}
	fileRec, fileHit := checkChurnHit(store, fileKey, &a.counters)
	if !missing && fileHit {
		return fileRec.Total()
	}

	diffs, err := a.client.GetFileDiffLog(ctx, cfg.RepoPath, path, cfg.StartTime, cfg.EndTime)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Could not read diff history for %s", path), err)
		return 0
	}

	fileTotal := schema.ChurnRecord{}
	for _, d := range diffs {
		for _, h := range d.Hunks {
			fileTotal.LinesAdded += h.LinesAdded
			fileTotal.LinesDeleted += h.LinesDeleted
		}
		if len(d.Hunks) > 0 {
			fileTotal.TouchCount++
			if d.CommitTime.After(fileTotal.LastTouch) {
				fileTotal.LastTouch = d.CommitTime
			}
		}
	}
	storeChurn(store, fileKey, fileTotal, &a.counters)

	for i := range reports {
		rec := joinChurn(diffs, reports[i].Function.StartLine, reports[i].Function.EndLine)
		reports[i].Churn = rec
		storeChurn(store, keys[i], rec, &a.counters)
	}
	return fileTotal.Total()
}

// joinChurn attributes diff hunks to one function's line span. A commit
// counts as a touch when any of its hunks overlaps the span; line counts
// accumulate per overlapping hunk.
func joinChurn(diffs []contract.FileCommitDiff, startLine, endLine int) schema.ChurnRecord {
	var rec schema.ChurnRecord
	for _, d := range diffs {
		touched := false
		for _, h := range d.Hunks {
			hunkLines := h.NewLines
			if hunkLines < 1 {
				hunkLines = 1
			}
			hunkEnd := h.NewStart + hunkLines - 1
			if h.NewStart <= endLine && hunkEnd >= startLine {
				rec.LinesAdded += h.LinesAdded
				rec.LinesDeleted += h.LinesDeleted
				touched = true
			}
		}
		if touched {
			rec.TouchCount++
			if d.CommitTime.After(rec.LastTouch) {
				rec.LastTouch = d.CommitTime
			}
		}
	}
	return rec
}

// buildCallGraph flattens the extracts into call-graph nodes.
func buildCallGraph(extracts []*contract.FileExtract) *callgraph.Graph {
	var nodes []callgraph.Node
	for _, ex := range extracts {
		for _, fe := range ex.Functions {
			nodes = append(nodes, callgraph.Node{
				ID:    fe.Function.ID,
				File:  fe.Function.File,
				Name:  fe.Function.Name,
				Calls: fe.Calls,
			})
		}
	}
	return callgraph.Build(nodes)
}

// recencyOf converts a last-touch time into a decayed [0,1] activity signal
// with a configured half-life. Untouched functions score zero.
func recencyOf(lastTouch, end time.Time) float64 {
	if lastTouch.IsZero() {
		return 0
	}
	days := end.Sub(lastTouch).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp(-math.Ln2 * days / schema.RecencyHalfLifeDays)
}
