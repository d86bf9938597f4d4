package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/auditpulse/schema"
)

func sampleResults() []schema.StoreWaveResult {
	return []schema.StoreWaveResult{
		{
			SiteCode:      "ST002",
			SiteName:      "Kelapa Gading",
			Region:        "JAKARTA",
			Branch:        "JAKARTA 2",
			Wave:          schema.Wave{Name: "Wave 3", Year: 2024},
			Composite:     92.5,
			Authoritative: true,
			Sections: map[schema.Letter]schema.SectionScore{
				schema.SectionA: {Letter: schema.SectionA, Score: 100, Applicable: true},
				schema.SectionB: {Letter: schema.SectionB, Applicable: false},
			},
		},
		{
			SiteCode:      "ST001",
			SiteName:      "Rawamangun",
			Region:        "JAKARTA",
			Branch:        "JAKARTA 1",
			Wave:          schema.Wave{Name: "Wave 3", Year: 2024},
			Composite:     71.0,
			Authoritative: false,
		},
	}
}

func TestRankResults_WorstFirst(t *testing.T) {
	ranked := rankResults(sampleResults(), 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "ST001", ranked[0].SiteCode)
	assert.Equal(t, "ST002", ranked[1].SiteCode)
}

func TestRankResults_Limit(t *testing.T) {
	ranked := rankResults(sampleResults(), 1)
	require.Len(t, ranked, 1)
	assert.Equal(t, "ST001", ranked[0].SiteCode)
}

func TestWriteJSONResults_Structure(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResults(&buf, rankResults(sampleResults(), 0))
	require.NoError(t, err)

	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "ST001", result[0]["site_code"])
	assert.Equal(t, "At Risk", result[0]["label"])
	assert.Equal(t, "Good", result[1]["label"])
}

func TestWriteCSVResults_NAStaysEmpty(t *testing.T) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	err := writeCSVResults(cw, rankResults(sampleResults(), 0), createFormatter(1))
	cw.Flush()
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "section_A", header[9])

	// ST002 is ranked second; its section A is scored, B is N/A
	row := records[2]
	assert.Equal(t, "ST002", row[1])
	assert.Equal(t, "100.0", row[9])
	assert.Equal(t, "", row[10])
}

func TestFlattenRollup(t *testing.T) {
	h := &schema.Hierarchy{
		National: schema.LevelNode{
			"2024 Wave 3": &schema.WaveAgg{
				Sum:   180,
				Count: 2,
				Sections: map[schema.Letter]*schema.SectionAgg{
					schema.SectionB: {Sum: 150, Count: 2, Critical: 1},
				},
			},
		},
		Regions: map[string]schema.LevelNode{
			"JAKARTA": {"2024 Wave 3": &schema.WaveAgg{Sum: 180, Count: 2}},
			"MEDAN":   {"2023 Wave 1": &schema.WaveAgg{Sum: 80, Count: 1}},
		},
		Branches: map[string]schema.LevelNode{},
	}

	rows := flattenRollup(h, "2024 Wave 3")
	require.Len(t, rows, 2)
	assert.Equal(t, "national", rows[0].Level)
	assert.InDelta(t, 90.0, rows[0].Score, 0.001)
	assert.Equal(t, 1, rows[0].Critical)

	// MEDAN has no data for this wave and is skipped
	assert.Equal(t, "JAKARTA", rows[1].Name)
}

func TestWriteActionPlans_CSV(t *testing.T) {
	plans := map[string][]schema.ActionPlanItem{
		"ST001": {
			{Category: schema.CategoryQuantitative, FindingSource: "Skor Section B di bawah nasional", Action: "Briefing harian", Rank: 1, TimelineWeek: 1, Status: schema.PlanPending},
		},
	}

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf,
		[]string{"site_code", "rank", "category", "finding", "action", "timeline_week", "status"},
		func(cw *csv.Writer) error {
			for _, item := range plans["ST001"] {
				if err := cw.Write([]string{"ST001", "1", string(item.Category), item.FindingSource, item.Action, "1", string(item.Status)}); err != nil {
					return err
				}
			}
			return nil
		})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Quantitative", records[1][2])
	assert.Equal(t, "pending", records[1][6])
}

func TestCreateFormatter(t *testing.T) {
	fmtFloat := createFormatter(2)
	assert.Equal(t, "86.00", fmtFloat(86))
	assert.Equal(t, "71.43", fmtFloat(71.426))
}
