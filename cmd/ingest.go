package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/outwriter"
)

// ingestCmd scores wave exports and reports per-store results.
var ingestCmd = &cobra.Command{
	Use:   "ingest <wave-file> [wave-file...]",
	Short: "Score wave exports and rank stores by composite.",
	Long: `Read one or more mystery-shopper wave exports, classify every answer,
score each section and compute the weighted composite per store.

Stores rank worst first so the remediation backlog reads top-down. Data
anomalies (unrecognized answers, missing master entries, fallback
composites, skipped closed stores) are summarized on stderr.

The wave identity is derived from each file name (e.g. "Wave 3 2024.csv");
use --wave and --year when the name does not carry it.

Examples:
  # Score a single wave against the master directory
  auditpulse ingest --master stores.xlsx "Wave 3 2024.csv"

  # Score two waves and export the ranking to CSV
  auditpulse ingest "Wave 2 2024.csv" "Wave 3 2024.csv" --output csv --output-file scores.csv

  # Export both Parquet datasets for DuckDB
  auditpulse ingest "Wave 3 2024.csv" --output parquet --output-file audit-data.parquet`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		ds, err := core.BuildDataset(cfg)
		if err != nil {
			contract.LogFatal("Cannot score wave files", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteResults(ds.Results, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
		printAnomalies(ds)
	},
}

// rollupCmd aggregates scored results up the hierarchy.
var rollupCmd = &cobra.Command{
	Use:   "rollup <wave-file> [wave-file...]",
	Short: "Aggregate composites at branch, region and national level.",
	Long: `Score the wave exports and fold store results into the hierarchy:
stores roll up to branches, branches to regions, regions to national.

Node scores are means over contributing stores for the latest wave; a
section counts as critical for a node when any store scored it below the
critical threshold.

Examples:
  # National, region and branch roll-up for the latest wave
  auditpulse rollup --master stores.xlsx "Wave 3 2024.csv"

  # Roll-up as JSON for the reporting frontend
  auditpulse rollup "Wave 3 2024.csv" --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ds, err := core.BuildDataset(cfg)
		if err != nil {
			contract.LogFatal("Cannot score wave files", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteRollup(ds.Hierarchy, ds.LatestWaveKey(), cfg); err != nil {
			contract.LogFatal("Cannot write roll-up", err)
		}
		printAnomalies(ds)
	},
}

// printAnomalies reports data quality counters on stderr, keeping stdout
// clean for the structured output formats.
func printAnomalies(ds *core.Dataset) {
	s := ds.Stats
	if s.UnrecognizedAnswers == 0 && s.MissingMasterEntry == 0 &&
		s.FallbackComposites == 0 && s.ClosedStoresSkipped == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Data anomalies:")
	for _, line := range s.Summary() {
		fmt.Fprintln(os.Stderr, "  "+line)
	}
}
