// Package parquet exports scored audit data to Parquet files using
// github.com/parquet-go/parquet-go, for analysis with DuckDB, pandas and
// BI tools.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/retailops/auditpulse/schema"
)

// KPIScoreRow is one store's composite for one wave.
type KPIScoreRow struct {
	SiteCode string `parquet:"site_code,snappy"`

	StoreName string `parquet:"store_name,snappy"`

	Region string `parquet:"region,snappy"`

	Branch string `parquet:"branch,snappy"`

	WaveName string `parquet:"wave_name,snappy"`

	WaveYear int32 `parquet:"wave_year,snappy"`

	// CompositeScore is the weighted composite on the 0-100 scale
	CompositeScore float64 `parquet:"composite_score,snappy"`

	// Authoritative is true when the composite came from the export's own
	// Final Score column rather than the section-mean fallback
	Authoritative bool `parquet:"authoritative,snappy"`
}

// JourneyScoreRow is one section score of one store's wave. Sections with
// no countable items are omitted from the export instead of carrying zeros.
type JourneyScoreRow struct {
	SiteCode string `parquet:"site_code,snappy"`

	WaveName string `parquet:"wave_name,snappy"`

	WaveYear int32 `parquet:"wave_year,snappy"`

	SectionLetter string `parquet:"section_letter,snappy"`

	SectionName string `parquet:"section_name,snappy"`

	Score float64 `parquet:"score,snappy"`

	PositiveCount int32 `parquet:"positive_count,snappy"`

	NegativeCount int32 `parquet:"negative_count,snappy"`
}

// BuildKPIScoreRows flattens scored results into Parquet rows.
func BuildKPIScoreRows(results []schema.StoreWaveResult) []KPIScoreRow {
	rows := make([]KPIScoreRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, KPIScoreRow{
			SiteCode:       r.SiteCode,
			StoreName:      r.SiteName,
			Region:         r.Region,
			Branch:         r.Branch,
			WaveName:       r.Wave.Name,
			WaveYear:       int32(r.Wave.Year),
			CompositeScore: r.Composite,
			Authoritative:  r.Authoritative,
		})
	}
	return rows
}

// BuildJourneyScoreRows flattens applicable section scores into Parquet rows.
func BuildJourneyScoreRows(results []schema.StoreWaveResult, sectionName func(schema.Letter) string) []JourneyScoreRow {
	var rows []JourneyScoreRow
	for _, r := range results {
		for _, letter := range schema.AllSections {
			sec, ok := r.Sections[letter]
			if !ok || !sec.Applicable {
				continue
			}
			rows = append(rows, JourneyScoreRow{
				SiteCode:      r.SiteCode,
				WaveName:      r.Wave.Name,
				WaveYear:      int32(r.Wave.Year),
				SectionLetter: string(letter),
				SectionName:   sectionName(letter),
				Score:         sec.Score,
				PositiveCount: int32(sec.Positive),
				NegativeCount: int32(sec.Negative),
			})
		}
	}
	return rows
}

// WriteKPIScoresParquet writes a slice of KPIScoreRow structs to a Parquet file.
func WriteKPIScoresParquet(data []KPIScoreRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the struct tags
	writer := parquet.NewGenericWriter[KPIScoreRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteJourneyScoresParquet writes a slice of JourneyScoreRow structs to a Parquet file.
func WriteJourneyScoresParquet(data []JourneyScoreRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[JourneyScoreRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteResultsParquet writes both datasets under outputDir:
// kpi_scores.parquet and journey_scores.parquet.
func WriteResultsParquet(results []schema.StoreWaveResult, outputDir string, sectionName func(schema.Letter) string) error {
	if outputDir == "" {
		return fmt.Errorf("parquet output requires --output-file pointing to a directory")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := WriteKPIScoresParquet(BuildKPIScoreRows(results), filepath.Join(outputDir, "kpi_scores.parquet")); err != nil {
		return err
	}
	return WriteJourneyScoresParquet(BuildJourneyScoreRows(results, sectionName), filepath.Join(outputDir, "journey_scores.parquet"))
}
