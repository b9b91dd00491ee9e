// Package schema has models, constants and scoring defaults for all parts of hotspots.
package schema

import "time"

// Function identifies one analyzable unit (function, method or standalone
// closure) inside the repository. The ID is stable across unchanged content:
// it is derived from the relative file path and the declared name, with a
// structural-hash suffix only when two units in the same file share a name.
type Function struct {
	ID         string   `json:"id"`
	File       string   `json:"file"`      // Repo-relative path with forward slashes
	Name       string   `json:"name"`      // Declared name, or <anonymous>
	Signature  string   `json:"signature"` // Name plus parameter text as written
	Language   Language `json:"language"`
	StartLine  int      `json:"start_line"` // 1-based, inclusive
	EndLine    int      `json:"end_line"`   // 1-based, inclusive
	ContentHash string  `json:"content_hash"` // sha256 of the body text
	StructHash  string  `json:"struct_hash"`  // sha256 of the decision-point kind sequence
}

// DecisionPoint is one control-flow decision inside a function, as reported
// by a language adapter. Depth is the structural nesting level of the
// construct itself: a top-level if has Depth 0, an if inside it has Depth 1.
type DecisionPoint struct {
	Kind  DecisionKind `json:"kind"`
	Line  int          `json:"line"`
	Depth int          `json:"depth"`
}

// RawMetrics holds the structural metrics derived from the decision-point
// list of a single function.
type RawMetrics struct {
	CC        int `json:"cc"`  // 1 + decision points (modified McCabe)
	ND        int `json:"nd"`  // Max structural nesting depth
	LOC       int `json:"loc"` // Physical lines in the function span
	Unmodeled int `json:"unmodeled,omitempty"` // Syntax the adapter could not classify
}

// ChurnRecord is the historical change volume for one function within the
// analysis window. Cached keyed by (function identity, content hash, range).
type ChurnRecord struct {
	LinesAdded   int       `json:"lines_added"`
	LinesDeleted int       `json:"lines_deleted"`
	TouchCount   int       `json:"touch_count"`
	LastTouch    time.Time `json:"last_touch,omitzero"`
}

// Total returns the combined added and deleted line count.
func (c ChurnRecord) Total() int {
	return c.LinesAdded + c.LinesDeleted
}

// GraphMetrics holds the call-graph position of one function.
type GraphMetrics struct {
	FanIn         int  `json:"fan_in"`
	FanOut        int  `json:"fan_out"`
	SCCSize       int  `json:"scc_size"`
	Cyclic        bool `json:"cyclic"` // True when SCC size > 1
	Depth         int  `json:"depth"`  // Longest callee chain in the condensation
	NeighborChurn int  `json:"neighbor_churn"` // Summed churn of direct callees
}

// RiskFactors are the normalized per-dimension contributions, each in [0,1]
// relative to the enclosing snapshot's own metric distribution. Values from
// different snapshots are not comparable.
type RiskFactors struct {
	Complexity       float64 `json:"complexity"`
	Churn            float64 `json:"churn"`
	Activity         float64 `json:"activity"`
	FanIn            float64 `json:"fan_in"`
	CyclicDependency float64 `json:"cyclic_dependency"`
	Depth            float64 `json:"depth"`
	NeighborChurn    float64 `json:"neighbor_churn"`
}

// Get returns the factor value for a dimension key.
func (r RiskFactors) Get(key FactorKey) float64 {
	switch key {
	case FactorComplexity:
		return r.Complexity
	case FactorChurn:
		return r.Churn
	case FactorActivity:
		return r.Activity
	case FactorFanIn:
		return r.FanIn
	case FactorCyclic:
		return r.CyclicDependency
	case FactorDepth:
		return r.Depth
	case FactorNeighborChurn:
		return r.NeighborChurn
	}
	return 0
}

// FunctionReport is the final per-function output for one snapshot.
// Immutable once emitted.
type FunctionReport struct {
	Function   Function    `json:"function"`
	Metrics    RawMetrics  `json:"metrics"`
	Churn      ChurnRecord `json:"churn"`
	Graph      GraphMetrics `json:"graph"`
	Recency    float64     `json:"recency"` // Decayed [0,1], 1 = touched today
	Factors    RiskFactors `json:"factors"`
	LRS        float64     `json:"lrs"`
	Band       RiskBand    `json:"band"`
	Percentile float64     `json:"percentile"` // LRS percentile within the snapshot
	Driver     DriverLabel `json:"driver"`
}

// Snapshot is the complete analysis result at one commit. Append-only once
// persisted; aggregates are stored alongside the function list so a stored
// snapshot is self-contained for delta computation.
type Snapshot struct {
	CommitSHA   string           `json:"commit_sha"`
	Parents     []string         `json:"parents,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	Functions   []FunctionReport `json:"functions"` // Sorted by function ID
	Files       []FileRiskView   `json:"files,omitempty"`
	Directories []DirectoryView  `json:"directories,omitempty"`
	Modules     []ModuleInstability `json:"modules,omitempty"`
	CoChange    []CoChangePair   `json:"co_change,omitempty"`
	Bands       map[RiskBand]int `json:"bands,omitempty"`

	SkippedFiles    int     `json:"skipped_files,omitempty"`
	ResolutionRatio float64 `json:"resolution_ratio"` // Resolved calls / total call sites
}

// FileRiskView is the file-level rollup of function reports plus the file's
// own churn, which can exceed the per-function sum when lines outside any
// function body changed.
type FileRiskView struct {
	File          string  `json:"file"`
	FunctionCount int     `json:"function_count"`
	LOC           int     `json:"loc"`
	MaxCC         int     `json:"max_cc"`
	AvgCC         float64 `json:"avg_cc"`
	SumLRS        float64 `json:"sum_lrs"`
	MaxLRS        float64 `json:"max_lrs"`
	CriticalCount int     `json:"critical_count"`
	FileChurn     int     `json:"file_churn"`
	RiskScore     float64 `json:"risk_score"`
}

// DirectoryView rolls file views up by path prefix. Every ancestor directory
// of a file receives the file's contribution.
type DirectoryView struct {
	Directory     string  `json:"directory"`
	FileCount     int     `json:"file_count"`
	FunctionCount int     `json:"function_count"`
	SumLRS        float64 `json:"sum_lrs"`
	MaxLRS        float64 `json:"max_lrs"`
	HighPlusCount int     `json:"high_plus_count"`
}

// ModuleInstability is Martin's afferent/efferent coupling for one module
// (directory) of the repo. Instability is efferent/(afferent+efferent) and
// reported as 0.5 when both counts are zero.
type ModuleInstability struct {
	Module        string  `json:"module"`
	FileCount     int     `json:"file_count"`
	FunctionCount int     `json:"function_count"`
	AvgComplexity float64 `json:"avg_complexity"`
	Afferent      int     `json:"afferent"`
	Efferent      int     `json:"efferent"`
	Instability   float64 `json:"instability"`
	Risk          string  `json:"risk"` // "high" or "low"
}

// CoChangePair records two files that tend to change in the same commit.
// FileA is always lexicographically smaller than FileB.
type CoChangePair struct {
	FileA         string       `json:"file_a"`
	FileB         string       `json:"file_b"`
	CoChangeCount int          `json:"co_change_count"`
	CouplingRatio float64      `json:"coupling_ratio"` // count / min(totalA, totalB)
	HasStaticDep  bool         `json:"has_static_dep"`
	Risk          CouplingRisk `json:"risk"`
}

// Key returns the canonical (ordered) identity of the pair.
func (p CoChangePair) Key() [2]string {
	return CanonicalPairKey(p.FileA, p.FileB)
}

// CanonicalPairKey orders two file paths lexicographically so that a pair
// and its swap map to the same key.
func CanonicalPairKey(a, b string) [2]string {
	if a <= b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
