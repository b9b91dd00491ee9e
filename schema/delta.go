package schema

// FunctionDelta is the change in one function between two snapshots.
// Numeric deltas are new minus old and are zero for added/removed entries,
// where only the absolute fields on the report carry meaning.
type FunctionDelta struct {
	ID         string     `json:"id"`
	File       string     `json:"file"`
	Name       string     `json:"name"`
	Change     ChangeType `json:"change"`
	OldLRS     float64    `json:"old_lrs,omitempty"`
	NewLRS     float64    `json:"new_lrs,omitempty"`
	LRSDelta   float64    `json:"lrs_delta"`
	CCDelta    int        `json:"cc_delta"`
	NDDelta    int        `json:"nd_delta"`
	ChurnDelta int        `json:"churn_delta"`
	OldBand    RiskBand   `json:"old_band,omitempty"`
	NewBand    RiskBand   `json:"new_band,omitempty"`
	BandMoved  bool       `json:"band_moved"`
}

// RenameHint pairs a removed function with an added one that looks like the
// same code under a new identity. Hints are advisory: the pair still appears
// as removed plus added in the delta.
type RenameHint struct {
	OldID      string  `json:"old_id"`
	NewID      string  `json:"new_id"`
	Reason     string  `json:"reason"` // "same_name" or "same_file_position"
	Confidence float64 `json:"confidence"`
}

// FileDelta aggregates function deltas per file.
type FileDelta struct {
	File          string  `json:"file"`
	Added         int     `json:"added"`
	Removed       int     `json:"removed"`
	Modified      int     `json:"modified"`
	SumLRSDelta   float64 `json:"sum_lrs_delta"`
	BandPromoted  int     `json:"band_promoted"`
	BandDemoted   int     `json:"band_demoted"`
}

// CoChangeDelta is one coupling pair whose presence or class changed
// between two snapshots.
type CoChangeDelta struct {
	FileA   string         `json:"file_a"`
	FileB   string         `json:"file_b"`
	Status  CoChangeStatus `json:"status"`
	OldRisk CouplingRisk   `json:"old_risk,omitempty"`
	NewRisk CouplingRisk   `json:"new_risk,omitempty"`
}

// Delta is the full comparison of two snapshots of the same repository.
type Delta struct {
	OldCommit string          `json:"old_commit"`
	NewCommit string          `json:"new_commit"`
	Functions []FunctionDelta `json:"functions"`
	Renames   []RenameHint    `json:"renames,omitempty"`
	Files     []FileDelta     `json:"files,omitempty"`
	CoChange  []CoChangeDelta `json:"co_change,omitempty"`

	AddedCount    int `json:"added_count"`
	RemovedCount  int `json:"removed_count"`
	ModifiedCount int `json:"modified_count"`
}

// Empty reports whether the delta contains no changes at all. Comparing a
// snapshot against itself must produce an empty delta.
func (d Delta) Empty() bool {
	return len(d.Functions) == 0 && len(d.Renames) == 0 &&
		len(d.Files) == 0 && len(d.CoChange) == 0
}
