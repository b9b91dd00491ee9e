package cmd

import (
	"fmt"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/iocache"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need store access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get persistence-related config values
	backend := schema.DatabaseBackend(viper.GetString("db-backend"))
	connStr := viper.GetString("db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.DatabaseBackend = backend
	cfg.DBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheInitSetup runs cacheSetup and then opens the stores. The clear and
// migrate commands skip this so they can operate on a closed or fresh database.
func cacheInitSetup(_ *cobra.Command, _ []string) error {
	if err := cacheSetup(); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.DatabaseBackend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// cacheCmd focused on persistence management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by analysis commands. This avoids Git repo
// validation and complex config processing for simple store operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage churn cache and snapshot storage",
	Long: `Manage the persistent stores backing analysis runs.

Hotspots caches per-function churn records to avoid re-walking Git diff history
on every run, and stores full snapshots so delta runs can load both sides
without re-analyzing the repository.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and stored snapshots
  clear   - Remove all cached data
  migrate - Run database schema migrations

Examples:
  # Check store status
  hotspots cache status

  # Clear stores after history was rewritten
  hotspots cache clear`,
}

// cacheStatusCmd shows store status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and stored snapshots",
	Long: `Show detailed information about the churn cache and snapshot store.

Displays:
- Backend type and location
- Number of cached churn entries with newest/oldest timestamps
- Stored snapshots with commit, analysis time and function count

Examples:
  # Check store status
  hotspots cache status`,
	PreRunE: cacheInitSetup,
	Run: func(_ *cobra.Command, _ []string) {
		churnStore := iocache.Manager.GetChurnStore()
		if churnStore == nil {
			fmt.Println("Persistence is disabled (backend: none).")
			return
		}
		churnStatus, err := churnStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get churn cache status", err)
		}
		iocache.PrintChurnStatus(churnStatus)

		snapshotStore := iocache.Manager.GetSnapshotStore()
		snapshotStatus, err := snapshotStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot store status", err)
		}
		metas, err := snapshotStore.List()
		if err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
		fmt.Println()
		iocache.PrintSnapshotStatus(snapshotStatus, metas)
	},
}

// cacheClearCmd clears the stores.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached churn records and stored snapshots",
	Long: `Delete all persisted data from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- Cached data may be stale or corrupted
- Testing performance without the cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables

Examples:
  # Clear the SQLite stores (default)
  hotspots cache clear

  # Clear MySQL stores (set connection string via env variable)
  HOTSPOTS_DB_BACKEND=mysql HOTSPOTS_DB_CONNECT="..." hotspots cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearData(cfg.DatabaseBackend, iocache.GetDBFilePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear stores", err)
		}
		fmt.Println("Stores cleared successfully.")
	},
}

// cacheMigrateCmd runs database migrations for the stores.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the churn cache and snapshot store.

Migrations allow:
- Upgrading to new schema versions when Hotspots is updated
- Rolling back schema changes if needed
- Testing new features on specific schema versions

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  hotspots cache migrate

  # Migrate to specific version
  hotspots cache migrate --target-version 1

  # Rollback to initial state
  hotspots cache migrate --target-version 0`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSchema(cfg.DatabaseBackend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
