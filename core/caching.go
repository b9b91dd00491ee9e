package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// currentCacheVersion defines the version of the churn cache payload.
const currentCacheVersion = 1

// CacheCounters tracks churn cache effectiveness across a run. Workers update
// it concurrently.
type CacheCounters struct {
	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// CacheStats is a point-in-time copy of the counters.
type CacheStats struct {
	Hits   int64
	Misses int64
	Errors int64
}

// Stats returns the current counter values.
func (c *CacheCounters) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errors.Load(),
	}
}

// churnCacheKey derives the cache key for one function's churn record. The
// content hash is part of the key, so an edited body misses naturally and the
// stale entry is never read again.
func churnCacheKey(repoPath, unitID, contentHash string, startTime, endTime time.Time) string {
	key := fmt.Sprintf("%s:%s:%s:%d:%d",
		repoPath,
		unitID,
		contentHash,
		startTime.Unix(),
		endTime.Unix(),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// checkChurnHit attempts to retrieve and decode a cached churn record.
// Any read or decode failure counts as a miss and the record is recomputed.
func checkChurnHit(store contract.ChurnStore, key string, counters *CacheCounters) (schema.ChurnRecord, bool) {
	var rec schema.ChurnRecord
	if store == nil {
		counters.misses.Add(1)
		return rec, false
	}

	data, version, _, err := store.Get(key)
	if err != nil {
		counters.misses.Add(1)
		return rec, false
	}
	if version != currentCacheVersion {
		counters.misses.Add(1)
		return rec, false
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		counters.errors.Add(1)
		counters.misses.Add(1)
		return schema.ChurnRecord{}, false
	}

	counters.hits.Add(1)
	return rec, true
}

// storeChurn writes a computed churn record back to the cache. Writes are
// best effort: a duplicate write for the same key is an idempotent overwrite
// and a failed write only costs a recomputation next run.
func storeChurn(store contract.ChurnStore, key string, rec schema.ChurnRecord, counters *CacheCounters) {
	if store == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		counters.errors.Add(1)
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		counters.errors.Add(1)
	}
}
