package schema

// Scoring constants. The likely-risk score is 10 * sum(weight_d * factor_d)
// over the seven dimensions, so a function at the top of every distribution
// scores 10.
const (
	// ScoreScale stretches the weighted factor sum onto the 0-10 band axis.
	ScoreScale = 10.0

	// BandLowMax, BandModerateMax and BandHighMax are the default band
	// boundaries on the 0-10 score axis.
	BandLowMax      = 3.0
	BandModerateMax = 6.0
	BandHighMax     = 9.0

	// DefaultDriverPercentile is the per-dimension threshold above which a
	// dimension is hot for driver attribution.
	DefaultDriverPercentile = 0.75

	// DriverMarginEpsilon breaks near-ties in driver attribution: two
	// margins within epsilon are considered equal and fall back to the
	// fixed dimension order.
	DriverMarginEpsilon = 0.05

	// RecencyHalfLifeDays is the half-life of the last-touch decay: a
	// function untouched for this many days has recency 0.5. Recency feeds
	// the activity factor alongside the touch count.
	RecencyHalfLifeDays = 30.0

	// RenameSimilarityThreshold is the minimum body-line similarity for a
	// removed/added pair to be reported as a rename hint.
	RenameSimilarityThreshold = 0.6

	// RenameLineTolerance is the start-line distance within which a
	// same-file pair qualifies as a positional rename candidate.
	RenameLineTolerance = 10

	// CouplingHighRatio and CouplingModerateRatio split ratio-based
	// coupling classes for pairs without a static dependency.
	CouplingHighRatio     = 0.7
	CouplingModerateRatio = 0.4

	// CouplingMinCoChanges filters noise pairs from coupling output.
	CouplingMinCoChanges = 3
)

// GetDefaultWeights returns the per-dimension scoring weights. The weights
// sum to 1 so the score stays on the 0-10 axis.
func GetDefaultWeights() map[FactorKey]float64 {
	return map[FactorKey]float64{
		FactorComplexity:    0.30,
		FactorChurn:         0.20,
		FactorActivity:      0.10,
		FactorFanIn:         0.15,
		FactorCyclic:        0.10,
		FactorDepth:         0.05,
		FactorNeighborChurn: 0.10,
	}
}
