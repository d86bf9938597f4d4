// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults prints scored store results using the configured output format.
func (ow *OutWriter) WriteResults(results []schema.StoreWaveResult, cfg *contract.Config, duration time.Duration) error {
	return WriteStoreResults(results, cfg, duration)
}

// WriteRollup prints the hierarchy roll-up using the configured output format.
func (ow *OutWriter) WriteRollup(h *schema.Hierarchy, waveKey string, cfg *contract.Config) error {
	return WriteHierarchyRollup(h, waveKey, cfg)
}

// WritePlans prints derived action plans using the configured output format.
func (ow *OutWriter) WritePlans(plans map[string][]schema.ActionPlanItem, cfg *contract.Config) error {
	return WriteActionPlans(plans, cfg)
}

// getMaxTableNameWidth calculates the column width for store names based on
// terminal width, so wide Indonesian mall names don't wrap audit tables.
func getMaxTableNameWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Reserve space for rank, site code, region, score and label columns
	// with borders and padding
	available := termWidth - 55
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}
