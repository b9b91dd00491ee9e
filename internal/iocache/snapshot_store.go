package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// ErrSnapshotExists is returned by Put when the commit already has a stored
// snapshot. Snapshots are immutable; delete the old one first to replace it.
var ErrSnapshotExists = errors.New("snapshot already stored for commit")

// SnapshotStoreImpl persists complete snapshots keyed by commit hash.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore creates a new SnapshotStore with the specified backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	if backend == schema.DatabaseNone {
		// No-op store for disabled persistence
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, _, err := openBackendDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	query := getCreateSnapshotTableQuery(backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", snapshotTable, err)
	}

	return &SnapshotStoreImpl{
		db:      db,
		backend: backend,
		connStr: connStr,
	}, nil
}

// getCreateSnapshotTableQuery returns the CREATE TABLE query for the given backend.
func getCreateSnapshotTableQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(snapshotTable, backend)
	switch backend {
	case schema.DatabaseMySQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				commit_sha VARCHAR(64) PRIMARY KEY,
				payload MEDIUMBLOB NOT NULL,
				function_count INT NOT NULL,
				snapshot_time BIGINT NOT NULL,
				stored_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.DatabasePostgres:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				commit_sha TEXT PRIMARY KEY,
				payload BYTEA NOT NULL,
				function_count INTEGER NOT NULL,
				snapshot_time BIGINT NOT NULL,
				stored_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				commit_sha TEXT PRIMARY KEY,
				payload BLOB NOT NULL,
				function_count INTEGER NOT NULL,
				snapshot_time INTEGER NOT NULL,
				stored_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Put stores a snapshot. Storing the same commit twice returns
// ErrSnapshotExists without modifying the stored payload.
func (ss *SnapshotStoreImpl) Put(snapshot *schema.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("cannot store nil snapshot")
	}
	if ss.backend == schema.DatabaseNone || ss.db == nil {
		return nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snapshot.CommitSHA, err)
	}

	// Conflict-ignoring insert so two racing Puts of the same commit both
	// resolve cleanly: the loser sees zero affected rows, never a raw
	// constraint error.
	quotedTableName := quoteTableName(snapshotTable, ss.backend)
	values := fmt.Sprintf(`(commit_sha, payload, function_count, snapshot_time, stored_at) VALUES (%s, %s, %s, %s, %s)`,
		placeholder(ss.backend, 1), placeholder(ss.backend, 2), placeholder(ss.backend, 3),
		placeholder(ss.backend, 4), placeholder(ss.backend, 5))

	var query string
	switch ss.backend {
	case schema.DatabaseMySQL:
		query = fmt.Sprintf(`INSERT IGNORE INTO %s %s`, quotedTableName, values)
	case schema.DatabasePostgres:
		query = fmt.Sprintf(`INSERT INTO %s %s ON CONFLICT (commit_sha) DO NOTHING`, quotedTableName, values)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR IGNORE INTO %s %s`, quotedTableName, values)
	}

	res, err := ss.db.Exec(query, snapshot.CommitSHA, payload, len(snapshot.Functions),
		snapshot.Timestamp.Unix(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", snapshot.CommitSHA, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", snapshot.CommitSHA, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, snapshot.CommitSHA)
	}
	return nil
}

// Get loads the snapshot for a commit hash, or nil when absent.
func (ss *SnapshotStoreImpl) Get(commitSHA string) (*schema.Snapshot, error) {
	if ss.backend == schema.DatabaseNone || ss.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(snapshotTable, ss.backend)
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE commit_sha = %s`,
		quotedTableName, placeholder(ss.backend, 1))

	var payload []byte
	if err := ss.db.QueryRow(query, commitSHA).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", commitSHA, err)
	}

	var snapshot schema.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", commitSHA, err)
	}
	return &snapshot, nil
}

// List returns stored commit hashes with timestamps, newest first.
func (ss *SnapshotStoreImpl) List() ([]schema.SnapshotMeta, error) {
	if ss.backend == schema.DatabaseNone || ss.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(snapshotTable, ss.backend)
	query := fmt.Sprintf(`SELECT commit_sha, function_count, snapshot_time, stored_at FROM %s ORDER BY snapshot_time DESC`, quotedTableName)

	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metas []schema.SnapshotMeta
	for rows.Next() {
		var meta schema.SnapshotMeta
		var snapTs, storedTs int64
		if err := rows.Scan(&meta.CommitSHA, &meta.FunctionCount, &snapTs, &storedTs); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		meta.Timestamp = time.Unix(snapTs, 0)
		meta.StoredAt = time.Unix(storedTs, 0)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Delete removes one stored snapshot. Deleting an absent commit is not an error.
func (ss *SnapshotStoreImpl) Delete(commitSHA string) error {
	if ss.backend == schema.DatabaseNone || ss.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(snapshotTable, ss.backend)
	query := fmt.Sprintf(`DELETE FROM %s WHERE commit_sha = %s`,
		quotedTableName, placeholder(ss.backend, 1))
	if _, err := ss.db.Exec(query, commitSHA); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", commitSHA, err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend: ss.backend,
	}

	if ss.backend == schema.DatabaseNone || ss.db == nil {
		return status, nil
	}
	if ss.backend == schema.DatabaseSQLite {
		status.Location = ss.connStr
		if status.Location == "" {
			status.Location = GetDBFilePath()
		}
	} else {
		status.Location = ss.connStr
	}

	quotedTableName := quoteTableName(snapshotTable, ss.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ss.db.QueryRow(countQuery).Scan(&status.EntryCount); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.EntryCount == 0 {
		return status, nil
	}

	var newestTs, oldestTs int64
	newestQuery := fmt.Sprintf("SELECT MAX(snapshot_time) FROM %s", quotedTableName)
	if err := ss.db.QueryRow(newestQuery).Scan(&newestTs); err != nil {
		return status, fmt.Errorf("failed to get newest snapshot time: %w", err)
	}
	status.NewestItem = time.Unix(newestTs, 0)

	oldestQuery := fmt.Sprintf("SELECT MIN(snapshot_time) FROM %s", quotedTableName)
	if err := ss.db.QueryRow(oldestQuery).Scan(&oldestTs); err != nil {
		return status, fmt.Errorf("failed to get oldest snapshot time: %w", err)
	}
	status.OldestItem = time.Unix(oldestTs, 0)

	status.SizeBytes = tableSizeBytes(ss.db, ss.backend, ss.connStr, snapshotTable, status.EntryCount)
	return status, nil
}
