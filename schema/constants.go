package schema

// Language is a supported source language.
type Language string

// Supported languages.
const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
)

// ValidLanguages has all supported language values.
var ValidLanguages = map[Language]bool{
	LangGo:         true,
	LangPython:     true,
	LangTypeScript: true,
	LangJavaScript: true,
}

// DecisionKind classifies a control-flow decision point.
type DecisionKind string

// Decision point kinds. Each contributes +1 to cyclomatic complexity.
// Every switch/match arm counts, wildcard and default arms included.
// KindCaseGuard is emitted in addition to KindCaseArm when a case carries
// a guard expression, so a guarded arm costs 2.
const (
	KindBranch       DecisionKind = "branch"   // if / elif / else-if
	KindLoop         DecisionKind = "loop"     // for / while / do
	KindCaseArm      DecisionKind = "case_arm" // switch/match arm
	KindCaseGuard    DecisionKind = "case_guard" // guard expression on an arm
	KindCatch        DecisionKind = "catch"      // catch / except handler
	KindConditional  DecisionKind = "conditional" // ternary expression
	KindShortCircuit DecisionKind = "short_circuit" // && or || operator
)

// ValidDecisionKinds has all decision point kinds.
var ValidDecisionKinds = map[DecisionKind]bool{
	KindBranch:       true,
	KindLoop:         true,
	KindCaseArm:      true,
	KindCaseGuard:    true,
	KindCatch:        true,
	KindConditional:  true,
	KindShortCircuit: true,
}

// Structural returns true when the kind opens a nesting level that counts
// toward nesting depth. Short-circuit operators and ternaries do not nest.
func (k DecisionKind) Structural() bool {
	switch k {
	case KindBranch, KindLoop, KindCaseArm, KindCatch:
		return true
	}
	return false
}

// RiskBand buckets a likely-risk score.
type RiskBand string

// Risk bands, ordered low to critical.
const (
	BandLow      RiskBand = "low"
	BandModerate RiskBand = "moderate"
	BandHigh     RiskBand = "high"
	BandCritical RiskBand = "critical"
)

// ValidRiskBands has all risk band values.
var ValidRiskBands = map[RiskBand]bool{
	BandLow:      true,
	BandModerate: true,
	BandHigh:     true,
	BandCritical: true,
}

// AtLeast reports whether b ranks at or above other.
func (b RiskBand) AtLeast(other RiskBand) bool {
	return bandRank[b] >= bandRank[other]
}

var bandRank = map[RiskBand]int{
	BandLow:      0,
	BandModerate: 1,
	BandHigh:     2,
	BandCritical: 3,
}

// BandForScore maps a likely-risk score to its band using the default
// thresholds: low < 3, moderate < 6, high < 9, critical >= 9.
func BandForScore(lrs float64) RiskBand {
	switch {
	case lrs < 3:
		return BandLow
	case lrs < 6:
		return BandModerate
	case lrs < 9:
		return BandHigh
	}
	return BandCritical
}

// DriverLabel names the dominant risk dimension of a function.
type DriverLabel string

// Driver labels. Composite means no single dimension exceeded its
// snapshot-relative threshold by the attribution margin.
const (
	DriverCyclicDependency  DriverLabel = "cyclic_dependency"
	DriverHighComplexity    DriverLabel = "high_complexity"
	DriverDeepNesting       DriverLabel = "deep_nesting"
	DriverHighFanoutChurn   DriverLabel = "high_fanout_churning"
	DriverHighFaninComplex  DriverLabel = "high_fanin_complex"
	DriverHighChurn         DriverLabel = "high_churn"
	DriverHighActivity      DriverLabel = "high_activity"
	DriverDeepDependency    DriverLabel = "deep_dependency"
	DriverComposite         DriverLabel = "composite"
)

// ValidDriverLabels has all driver label values.
var ValidDriverLabels = map[DriverLabel]bool{
	DriverCyclicDependency: true,
	DriverHighComplexity:   true,
	DriverDeepNesting:      true,
	DriverHighFanoutChurn:  true,
	DriverHighFaninComplex: true,
	DriverHighChurn:        true,
	DriverHighActivity:     true,
	DriverDeepDependency:   true,
	DriverComposite:        true,
}

// FactorKey names one normalized risk dimension.
type FactorKey string

// Risk dimensions.
const (
	FactorComplexity    FactorKey = "complexity"
	FactorChurn         FactorKey = "churn"
	FactorActivity      FactorKey = "activity"
	FactorFanIn         FactorKey = "fan_in"
	FactorCyclic        FactorKey = "cyclic_dependency"
	FactorDepth         FactorKey = "depth"
	FactorNeighborChurn FactorKey = "neighbor_churn"
)

// FactorOrder is the fixed tie-break order for driver attribution. Earlier
// entries win when margins are equal.
var FactorOrder = []FactorKey{
	FactorCyclic,
	FactorComplexity,
	FactorNeighborChurn,
	FactorFanIn,
	FactorChurn,
	FactorActivity,
	FactorDepth,
}

// ValidFactorKeys has all risk dimension keys.
var ValidFactorKeys = map[FactorKey]bool{
	FactorComplexity:    true,
	FactorChurn:         true,
	FactorActivity:      true,
	FactorFanIn:         true,
	FactorCyclic:        true,
	FactorDepth:         true,
	FactorNeighborChurn: true,
}

// CouplingRisk classifies a co-change pair.
type CouplingRisk string

// Coupling risk classes. Expected pairs have a static dependency between
// the files and override ratio-based classes.
const (
	CouplingExpected CouplingRisk = "expected"
	CouplingHigh     CouplingRisk = "high"
	CouplingModerate CouplingRisk = "moderate"
	CouplingLow      CouplingRisk = "low"
)

// ValidCouplingRisks has all coupling risk values.
var ValidCouplingRisks = map[CouplingRisk]bool{
	CouplingExpected: true,
	CouplingHigh:     true,
	CouplingModerate: true,
	CouplingLow:      true,
}

// ChangeType classifies a function entry in a snapshot delta.
type ChangeType string

// Delta change types.
const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeModified  ChangeType = "modified"
	ChangeUnchanged ChangeType = "unchanged"
)

// ValidChangeTypes has all delta change type values.
var ValidChangeTypes = map[ChangeType]bool{
	ChangeAdded:     true,
	ChangeRemoved:   true,
	ChangeModified:  true,
	ChangeUnchanged: true,
}

// CoChangeStatus classifies a coupling pair in a snapshot delta.
type CoChangeStatus string

// Co-change delta statuses.
const (
	CoChangeNew           CoChangeStatus = "new"
	CoChangeDropped       CoChangeStatus = "dropped"
	CoChangeRiskIncreased CoChangeStatus = "risk_increased"
	CoChangeRiskDecreased CoChangeStatus = "risk_decreased"
)

// ValidCoChangeStatuses has all co-change delta status values.
var ValidCoChangeStatuses = map[CoChangeStatus]bool{
	CoChangeNew:           true,
	CoChangeDropped:       true,
	CoChangeRiskIncreased: true,
	CoChangeRiskDecreased: true,
}

// OutputMode determines report rendering.
type OutputMode string

// Output modes.
const (
	OutputText OutputMode = "text"
	OutputJSON OutputMode = "json"
	OutputCSV  OutputMode = "csv"
)

// ValidOutputModes has all output mode values.
var ValidOutputModes = map[OutputMode]bool{
	OutputText: true,
	OutputJSON: true,
	OutputCSV:  true,
}

// DatabaseBackend determines persistence of churn cache and snapshots.
type DatabaseBackend string

// Database backends.
const (
	DatabaseNone     DatabaseBackend = "none"
	DatabaseSQLite   DatabaseBackend = "sqlite"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabasePostgres DatabaseBackend = "postgres"
)

// ValidDatabaseBackends has all database backend values.
var ValidDatabaseBackends = map[DatabaseBackend]bool{
	DatabaseNone:     true,
	DatabaseSQLite:   true,
	DatabaseMySQL:    true,
	DatabasePostgres: true,
}
