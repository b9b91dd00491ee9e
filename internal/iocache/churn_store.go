package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// ChurnStoreImpl handles durable churn-record storage using various
// database backends.
type ChurnStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.ChurnStore = &ChurnStoreImpl{} // Compile-time check

// NewChurnStore initializes and returns a new ChurnStore based on the backend type.
func NewChurnStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.ChurnStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.DatabaseNone {
		// No-op store for disabled caching
		return &ChurnStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, _, err := openBackendDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	query := getCreateChurnTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &ChurnStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateChurnTableQuery returns the CREATE TABLE query for the given backend.
func getCreateChurnTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.DatabaseMySQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.DatabasePostgres:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a value by key from the store.
func (cs *ChurnStoreImpl) Get(key string) ([]byte, int, int64, error) {
	// Return not found error for DatabaseNone
	if cs.backend == schema.DatabaseNone || cs.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	quotedTableName := quoteTableName(cs.tableName, cs.backend)
	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quotedTableName, placeholder(cs.backend, 1))
	row := cs.db.QueryRow(query, key)

	if err := row.Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (cs *ChurnStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	// Skip for DatabaseNone
	if cs.backend == schema.DatabaseNone || cs.db == nil {
		return nil
	}

	query := cs.getUpsertQuery()
	_, err := cs.db.Exec(query, key, value, version, timestamp)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (cs *ChurnStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(cs.tableName, cs.backend)
	switch cs.backend {
	case schema.DatabaseMySQL:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, quotedTableName)

	case schema.DatabasePostgres:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (cs *ChurnStoreImpl) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the churn store.
func (cs *ChurnStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend: cs.backend,
	}

	if cs.backend == schema.DatabaseNone || cs.db == nil {
		return status, nil
	}
	status.Location = cs.location()

	quotedTableName := quoteTableName(cs.tableName, cs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	row := cs.db.QueryRow(countQuery)
	if err := row.Scan(&status.EntryCount); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.EntryCount == 0 {
		return status, nil
	}

	var newestTs, oldestTs int64
	newestQuery := fmt.Sprintf("SELECT MAX(cache_timestamp) FROM %s", quotedTableName)
	if err := cs.db.QueryRow(newestQuery).Scan(&newestTs); err != nil {
		return status, fmt.Errorf("failed to get newest entry time: %w", err)
	}
	status.NewestItem = time.Unix(newestTs, 0)

	oldestQuery := fmt.Sprintf("SELECT MIN(cache_timestamp) FROM %s", quotedTableName)
	if err := cs.db.QueryRow(oldestQuery).Scan(&oldestTs); err != nil {
		return status, fmt.Errorf("failed to get oldest entry time: %w", err)
	}
	status.OldestItem = time.Unix(oldestTs, 0)

	status.SizeBytes = tableSizeBytes(cs.db, cs.backend, cs.connStr, cs.tableName, status.EntryCount)
	return status, nil
}

// location describes where the store data lives, for the cache command.
func (cs *ChurnStoreImpl) location() string {
	if cs.backend == schema.DatabaseSQLite {
		if cs.connStr != "" {
			return cs.connStr
		}
		return GetDBFilePath()
	}
	return cs.connStr
}

// tableSizeBytes estimates on-disk size of a table. SQLite reports the whole
// database file; MySQL and PostgreSQL report per-table sizes, falling back to
// a rough per-row estimate when the catalog query fails.
func tableSizeBytes(db *sql.DB, backend schema.DatabaseBackend, connStr, tableName string, entryCount int) int64 {
	fallback := int64(entryCount) * 1000

	switch backend {
	case schema.DatabaseSQLite:
		var size int64
		row := db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.DatabaseMySQL:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		var size int64
		row := db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			cfg.DBName, tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.DatabasePostgres:
		var size int64
		row := db.QueryRow("SELECT pg_total_relation_size($1)", tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	default:
		return fallback
	}
}
