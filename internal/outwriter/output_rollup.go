package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/schema"
)

// rollupRow is one hierarchy node flattened for display.
type rollupRow struct {
	Level    string  `json:"level"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Stores   int     `json:"stores"`
	Critical int     `json:"critical_sections"`
}

// WriteHierarchyRollup outputs the hierarchy aggregates for one wave,
// national first, then regions and branches alphabetically.
func WriteHierarchyRollup(h *schema.Hierarchy, waveKey string, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	rows := flattenRollup(h, waveKey)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w,
				[]string{"level", "name", "wave", "score", "stores", "critical_sections"},
				func(cw *csv.Writer) error {
					for _, row := range rows {
						rec := []string{row.Level, row.Name, waveKey, fmtFloat(row.Score),
							strconv.Itoa(row.Stores), strconv.Itoa(row.Critical)}
						if err := cw.Write(rec); err != nil {
							return err
						}
					}
					return nil
				})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRollupTable(rows, waveKey, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// flattenRollup turns the aggregate tree into display rows for one wave.
// Nodes without data for the wave are skipped entirely.
func flattenRollup(h *schema.Hierarchy, waveKey string) []rollupRow {
	var rows []rollupRow

	appendNode := func(level, name string, node schema.LevelNode) {
		agg, ok := node[waveKey]
		if !ok || agg.Count == 0 {
			return
		}
		critical := 0
		for _, sec := range agg.Sections {
			if sec.Critical > 0 {
				critical++
			}
		}
		rows = append(rows, rollupRow{
			Level:    level,
			Name:     name,
			Score:    agg.Mean(),
			Stores:   agg.Count,
			Critical: critical,
		})
	}

	appendNode("national", "NATIONAL", h.National)

	regions := make([]string, 0, len(h.Regions))
	for name := range h.Regions {
		regions = append(regions, name)
	}
	sort.Strings(regions)
	for _, name := range regions {
		appendNode("region", name, h.Regions[name])
	}

	branches := make([]string, 0, len(h.Branches))
	for name := range h.Branches {
		branches = append(branches, name)
	}
	sort.Strings(branches)
	for _, name := range branches {
		appendNode("branch", name, h.Branches[name])
	}
	return rows
}

func writeRollupTable(rows []rollupRow, waveKey string, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Level", "Name", "Score", "Label", "Stores", "Critical"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range rows {
		data = append(data, []string{
			row.Level,
			row.Name,
			fmtFloat(row.Score),
			contract.GetColorLabel(row.Score),
			strconv.Itoa(row.Stores),
			strconv.Itoa(row.Critical),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Roll-up for %s across %d nodes\n", waveKey, len(rows))
	return err
}
