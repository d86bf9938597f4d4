package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/outwriter"
)

// plansCmd derives remedial action plans from scored results.
var plansCmd = &cobra.Command{
	Use:   "plans <wave-file> [wave-file...]",
	Short: "Derive ranked remedial action plans per store.",
	Long: `Score the wave exports and derive the remedial action plan for each
store from the latest wave.

Sources feed the plan in priority order: section gaps against the national
mean, recurring negative feedback themes, the lowest imperfect sections,
and generic improvement actions as filler. Stores without usable results
get the baseline onboarding plan. Every plan item starts in the pending
approval state.

Examples:
  # Plans for every store in the wave
  auditpulse plans --master stores.xlsx "Wave 3 2024.csv"

  # Plan for one store as JSON
  auditpulse plans "Wave 3 2024.csv" --site ST001 --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ds, err := core.BuildDataset(cfg)
		if err != nil {
			contract.LogFatal("Cannot score wave files", err)
		}

		plans, err := core.DeriveAllPlans(ds, viper.GetString("site"))
		if err != nil {
			contract.LogFatal("Cannot derive plans", err)
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WritePlans(plans, cfg); err != nil {
			contract.LogFatal("Cannot write plans", err)
		}
	},
}
