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

// WriteActionPlans outputs derived plans keyed by site code, dispatching on
// the configured output format.
func WriteActionPlans(plans map[string][]schema.ActionPlanItem, cfg *contract.Config) error {
	sites := make([]string, 0, len(plans))
	for site := range plans {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, plans)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w,
				[]string{"site_code", "rank", "category", "finding", "action", "timeline_week", "status"},
				func(cw *csv.Writer) error {
					for _, site := range sites {
						for _, item := range plans[site] {
							rec := []string{
								site,
								strconv.Itoa(item.Rank),
								string(item.Category),
								item.FindingSource,
								item.Action,
								strconv.Itoa(item.TimelineWeek),
								string(item.Status),
							}
							if err := cw.Write(rec); err != nil {
								return err
							}
						}
					}
					return nil
				})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlansTable(sites, plans, w)
		}, "Wrote table")
	}
	return nil
}

func writePlansTable(sites []string, plans map[string][]schema.ActionPlanItem, writer io.Writer) error {
	total := 0
	for _, site := range sites {
		if _, err := fmt.Fprintf(writer, "Action plan for %s\n", site); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Rank", "Category", "Finding", "Action", "Week", "Status"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignLeft
		})

		var data [][]string
		for _, item := range plans[site] {
			data = append(data, []string{
				strconv.Itoa(item.Rank),
				string(item.Category),
				contract.TruncateName(item.FindingSource, 40),
				contract.TruncateName(item.Action, 50),
				strconv.Itoa(item.TimelineWeek),
				string(item.Status),
			})
			total++
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(writer, "Derived %d actions for %d stores\n", total, len(sites))
	return err
}
