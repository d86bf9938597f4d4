package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/iostore"
	"github.com/retailops/auditpulse/schema"
)

// dbSetup loads minimal configuration needed for database operations.
// This is used by commands that need store access without full shared setup.
func dbSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("backend")
	connStr := viper.GetString("db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	return nil
}

// dbSetupWrapper wraps dbSetup to provide PreRunE for db commands.
func dbSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbSetup()
}

// dbCmd groups database management commands.
//
// Note: db subcommands use minimal initialization (dbSetup) instead of the
// full sharedSetup used by scoring commands. This avoids wave file parsing
// for simple database operations.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the reporting database",
	Long: `Manage the relational store that holds scored results and action plans.

Supported backends: SQLite (default file ~/.auditpulse.db), MySQL,
PostgreSQL, or None (disabled)

Subcommands:
  status  - Show row counts for the configured backend
  migrate - Run database schema migrations

Examples:
  # Check what has been synced
  auditpulse db status --backend sqlite

  # Upgrade the schema after an update
  auditpulse db migrate --backend sqlite`,
}

// dbStatusCmd shows reporting database statistics.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display reporting database row counts",
	Long: `Show row counts for the configured persistence backend.

Displays:
- Backend type and connection status
- Number of stores, wave scores and action plan items

Examples:
  # Check the local SQLite snapshot
  auditpulse db status --backend sqlite`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := iostore.NewResultStore(cfg.Backend, cfg.DBConnect)
		if err != nil {
			contract.LogFatal("Failed to open result store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get database status", err)
		}
		fmt.Printf("Backend:      %s\n", status.Backend)
		fmt.Printf("Stores:       %d\n", status.Stores)
		fmt.Printf("Wave scores:  %d\n", status.KPIScores)
		fmt.Printf("Plan items:   %d\n", status.ActionPlans)
	},
}

// dbMigrateCmd runs database migrations for the reporting store.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the reporting store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  auditpulse db migrate --backend sqlite

  # Rollback to initial state
  auditpulse db migrate --backend sqlite --target-version 0`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStore(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
