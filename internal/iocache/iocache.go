// Package iocache persists churn records and snapshots across runs.
package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// Table names for durable storage.
const (
	churnTable    = "hotspots_churn_cache"
	snapshotTable = "hotspots_snapshots"
)

// CacheStoreManager manages the churn and snapshot store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	churn        contract.ChurnStore
	snapshots    contract.SnapshotStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetChurnStore returns the churn ChurnStore.
func (mgr *CacheStoreManager) GetChurnStore() contract.ChurnStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.churn
}

// GetSnapshotStore returns the snapshot SnapshotStore.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for durable storage.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// InitCaching initializes the global cache manager with churn and snapshot
// stores sharing a backend. backend can be empty to skip initialization.
func InitCaching(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" {
			return
		}

		churnStore, err := NewChurnStore(churnTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize churn caching: %w", err)
			return
		}

		snapshotStore, err := NewSnapshotStore(backend, connStr)
		if err != nil {
			_ = churnStore.Close()
			initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
			return
		}

		Manager.churn = churnStore
		Manager.snapshots = snapshotStore
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.churn != nil {
			_ = Manager.churn.Close()
		}
		if Manager.snapshots != nil {
			_ = Manager.snapshots.Close()
		}
	})
}

// ClearData clears the churn cache and snapshot store for the specified
// backend. For SQLite, it deletes the database file. For MySQL/PostgreSQL,
// it drops the tables. For DatabaseNone, it does nothing.
func ClearData(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.DatabaseSQLite:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.DatabaseMySQL:
		return clearSQLTables("mysql", connStr, churnTable, snapshotTable)

	case schema.DatabasePostgres:
		return clearSQLTables("pgx", connStr, churnTable, snapshotTable)

	case schema.DatabaseNone:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops each table if it exists.
func clearSQLTables(driverName, connStr string, tableNames ...string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, tableName := range tableNames {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableName, err)
		}
	}
	return nil
}
