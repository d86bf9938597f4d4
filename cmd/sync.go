package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/iostore"
	"github.com/retailops/auditpulse/schema"
)

// syncCmd persists scored results and derived plans to the database.
var syncCmd = &cobra.Command{
	Use:   "sync <wave-file> [wave-file...]",
	Short: "Persist scored results and action plans to the database.",
	Long: `Score the wave exports and write everything to the configured backend:
store identities, composites, section and item breakdowns, qualitative
feedback, and the derived action plans with blank approval trails.

Writes are natural-key upserts inside per-store transactions, so running
sync twice over the same files converges to identical rows. A store that
fails to persist is reported and skipped; the rest of the wave goes
through.

Requires --backend (sqlite, mysql or postgresql).

Examples:
  # Local SQLite snapshot
  auditpulse sync --backend sqlite "Wave 3 2024.csv"

  # Shared PostgreSQL reporting database
  auditpulse sync --backend postgresql --db-connect "host=db dbname=audits user=rpt" "Wave 3 2024.csv"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Backend == schema.NoneBackend {
			contract.LogFatal("Cannot sync", fmt.Errorf("--backend is required (sqlite, mysql or postgresql)"))
		}

		ds, err := core.BuildDataset(cfg)
		if err != nil {
			contract.LogFatal("Cannot score wave files", err)
		}

		store, err := iostore.NewResultStore(cfg.Backend, cfg.DBConnect)
		if err != nil {
			contract.LogFatal("Cannot open result store", err)
		}
		defer func() { _ = store.Close() }()

		synced, failures := iostore.SyncAll(store, ds.Results)
		for _, f := range failures {
			contract.LogWarn("store not synced", f)
		}

		plans, err := core.DeriveAllPlans(ds, "")
		if err != nil {
			contract.LogFatal("Cannot derive plans", err)
		}
		planCount := 0
		for site, items := range plans {
			if err := store.ReplaceActionPlans(site, items); err != nil {
				contract.LogWarn("plans not synced for "+site, err)
				continue
			}
			planCount++
		}

		fmt.Printf("Synced %d store results and %d action plans to %s (%d failures)\n",
			synced, planCount, cfg.Backend, len(failures))
		printAnomalies(ds)
	},
}
