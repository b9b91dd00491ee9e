package schema

import "time"

// CacheStatus describes a persistence store for the cache command.
type CacheStatus struct {
	Backend    DatabaseBackend `json:"backend"`
	Location   string          `json:"location,omitempty"`
	EntryCount int             `json:"entry_count"`
	SizeBytes  int64           `json:"size_bytes,omitempty"`
	OldestItem time.Time       `json:"oldest_item,omitzero"`
	NewestItem time.Time       `json:"newest_item,omitzero"`
}

// SnapshotMeta is a stored snapshot's identity without its payload.
type SnapshotMeta struct {
	CommitSHA     string    `json:"commit_sha"`
	Timestamp     time.Time `json:"timestamp"`
	FunctionCount int       `json:"function_count"`
	StoredAt      time.Time `json:"stored_at"`
}

// CacheCounters tracks churn-cache effectiveness for one analysis run.
type CacheCounters struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"` // Cache disabled or entry version mismatch
}

// Total returns the number of cache lookups performed.
func (c CacheCounters) Total() int {
	return c.Hits + c.Misses + c.Errors + c.Skipped
}
