package cmd

import (
	"github.com/spf13/cobra"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/mcp"
)

// mcpCmd serves scored audit data over the Model Context Protocol.
var mcpCmd = &cobra.Command{
	Use:   "mcp <wave-file> [wave-file...]",
	Short: "Serve scored audit data over MCP (stdio).",
	Long: `Score the wave exports once, then serve the results to MCP clients
over stdio.

Exposed tools:
  get_store_scores          - ranked stores, worst composite first
  get_hierarchy_rollup      - national/region/branch aggregates
  get_action_plan           - derived remedial plan for one store
  get_qualitative_feedback  - annotated shopper feedback

Examples:
  # Serve the latest wave to an MCP client
  auditpulse mcp --master stores.xlsx "Wave 3 2024.csv"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ds, err := core.BuildDataset(cfg)
		if err != nil {
			contract.LogFatal("Cannot score wave files", err)
		}

		dataset := &mcp.Dataset{
			Results:   ds.Results,
			Hierarchy: ds.Hierarchy,
			WaveKey:   ds.LatestWaveKey(),
		}
		if err := mcp.StartMCPServer(rootCtx, dataset); err != nil {
			contract.LogFatal("MCP server stopped", err)
		}
	},
}
