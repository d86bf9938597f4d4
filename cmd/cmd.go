// Package cmd defines the command-line interface for auditpulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dbCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("master", "", "Path to the master site directory (CSV or XLSX)")
	rootCmd.PersistentFlags().String("weights", "", "Path to a section weight table overriding the builtin weights")
	rootCmd.PersistentFlags().String("registry", "", "Path to a YAML section registry overriding the builtin survey version")
	rootCmd.PersistentFlags().String("wave", "", "Wave name when it cannot be derived from the file name (e.g. 'Wave 3')")
	rootCmd.PersistentFlags().Int("year", 0, "Wave year when it cannot be derived from the file name")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultLimit, "Number of stores to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for score columns")
	rootCmd.PersistentFlags().String("backend", string(schema.NoneBackend), "Persistence backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of plansCmd to Viper
	plansCmd.Flags().String("site", "", "Derive the plan for a single store by site code")
	if err := viper.BindPFlags(plansCmd.Flags()); err != nil {
		contract.LogFatal("Error binding plans flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
