package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/internal/contract"
	"github.com/retailops/auditpulse/internal/parquet"
	"github.com/retailops/auditpulse/schema"
)

// WriteStoreResults outputs scored store results, dispatching based on the
// output format configured. Stores rank worst first so the remediation
// backlog reads top-down.
func WriteStoreResults(results []schema.StoreWaveResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	ranked := rankResults(results, cfg.Limit)

	switch cfg.Output {
	case schema.ParquetOut:
		if err := parquet.WriteResultsParquet(ranked, cfg.OutputFile, core.SectionName); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResults(w, ranked)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResults(csvWriter, ranked, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsTable(ranked, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// rankResults sorts copies of the results worst first, site code breaking
// ties, and truncates to the display limit.
func rankResults(results []schema.StoreWaveResult, limit int) []schema.StoreWaveResult {
	ranked := make([]schema.StoreWaveResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Composite != ranked[j].Composite {
			return ranked[i].Composite < ranked[j].Composite
		}
		return ranked[i].SiteCode < ranked[j].SiteCode
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func writeResultsTable(results []schema.StoreWaveResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Site", "Store", "Region", "Score", "Label", "Source"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	authoritative := 0
	for i, r := range results {
		source := "derived"
		if r.Authoritative {
			source = "export"
			authoritative++
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.SiteCode,
			contract.TruncateName(r.SiteName, nameWidth),
			r.Region,
			fmtFloat(r.Composite),
			contract.GetColorLabel(r.Composite),
			source,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d stores (%d composite scores taken from the export)\n", len(results), authoritative); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Scoring completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

func writeCSVResults(w *csv.Writer, results []schema.StoreWaveResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "site_code", "store_name", "region", "branch", "wave", "composite", "label", "source"}
	for _, letter := range schema.AllSections {
		header = append(header, "section_"+string(letter))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range results {
		source := "derived"
		if r.Authoritative {
			source = "export"
		}
		rec := []string{
			strconv.Itoa(i + 1),
			r.SiteCode,
			r.SiteName,
			r.Region,
			r.Branch,
			r.Wave.Key(),
			fmtFloat(r.Composite),
			contract.GetPlainLabel(r.Composite),
			source,
		}
		for _, letter := range schema.AllSections {
			sec, ok := r.Sections[letter]
			if !ok || !sec.Applicable {
				// N/A sections stay empty, never zero
				rec = append(rec, "")
				continue
			}
			rec = append(rec, fmtFloat(sec.Score))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONResults(w io.Writer, results []schema.StoreWaveResult) error {
	type JSONStoreResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.StoreWaveResult
	}

	output := make([]JSONStoreResult, len(results))
	for i, r := range results {
		output[i] = JSONStoreResult{
			Rank:            i + 1,
			Label:           contract.GetPlainLabel(r.Composite),
			StoreWaveResult: r,
		}
	}
	return writeJSON(w, output)
}
