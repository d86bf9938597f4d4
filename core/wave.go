package core

import (
	"sort"
	"strings"

	"github.com/retailops/auditpulse/schema"
)

// maxItemLabelLen caps question text carried into failed-item drill-downs.
const maxItemLabelLen = 80

// ProcessWave turns the rows of one survey export into normalized per-store
// results. Exactly one result is produced per distinct resolved store code;
// on duplicate codes within one wave the last row wins. That is explicit
// policy, not an accident of iteration.
//
// ConfigError aborts the wave (broken scoring model); every data-level
// irregularity is handled by a documented fallback and counted in stats.
func ProcessWave(rows []schema.RawSurveyRow, wave schema.Wave, master schema.MasterDirectory, reg *SectionRegistry, stats *schema.AnomalyStats) ([]schema.StoreWaveResult, error) {
	byCode := make(map[string]schema.StoreWaveResult)

	for _, row := range rows {
		if strings.TrimSpace(row.SiteCode) == "" {
			continue
		}

		name, region, branch := resolveIdentity(row, master, stats)
		if region == schema.ClosedSentinel || branch == schema.ClosedSentinel {
			stats.RecordClosedStore(row.SiteCode)
			continue
		}

		sections, err := reg.ScoreAllSections(row.Items, stats)
		if err != nil {
			return nil, err
		}

		result := schema.StoreWaveResult{
			SiteCode:    row.SiteCode,
			SiteName:    name,
			Region:      region,
			Branch:      branch,
			Wave:        wave,
			Sections:    sections,
			Items:       scoredOutcomes(row, reg),
			Qualitative: extractFeedback(row, wave.Key()),
			FailedItems: failedItems(row, reg),
		}

		if row.FinalScore > 0 {
			result.Composite = row.FinalScore
			result.Authoritative = true
		} else {
			// Degraded-accuracy path: the export carried no usable Final
			// Score, so fall back to the unweighted mean of the sections
			// we recomputed ourselves.
			result.Composite = SectionMeanFallback(sections)
			stats.RecordFallbackComposite(row.SiteCode)
		}

		byCode[row.SiteCode] = result
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	results := make([]schema.StoreWaveResult, 0, len(codes))
	for _, code := range codes {
		results = append(results, byCode[code])
	}
	return results, nil
}

// resolveIdentity looks the store up in the master directory, falling back
// to the row's own fields normalized to uppercase/trimmed.
func resolveIdentity(row schema.RawSurveyRow, master schema.MasterDirectory, stats *schema.AnomalyStats) (name, region, branch string) {
	if site, ok := master[row.SiteCode]; ok {
		return site.SiteName, site.Region, site.Branch
	}
	stats.RecordMissingMaster(row.SiteCode)

	name = strings.TrimSpace(row.SiteName)
	if name == "" {
		name = "Unknown Store"
	}
	return name, NormalizeLabel(row.Region), NormalizeLabel(row.Branch)
}

// NormalizeLabel uppercases and trims a raw region/branch label, mapping
// absent values to the UNKNOWN sentinel.
func NormalizeLabel(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return schema.UnknownLabel
	}
	return s
}

// scoredOutcomes records the numeric outcome of every effectively scored
// item, for per-item benchmark aggregation downstream.
func scoredOutcomes(row schema.RawSurveyRow, reg *SectionRegistry) map[int]schema.Outcome {
	outcomes := make(map[int]schema.Outcome)
	for _, letter := range schema.AllSections {
		def := reg.Sections[letter]
		for _, code := range reg.EffectiveCodes(def, row.Items) {
			raw, ok := row.Items[code]
			if !ok {
				continue
			}
			if outcome := Classify(raw); outcome != schema.OutcomeExcluded {
				outcomes[code] = outcome
			}
		}
	}
	return outcomes
}

// failedItems collects the negatively answered items with their labels,
// for drill-down display.
func failedItems(row schema.RawSurveyRow, reg *SectionRegistry) []schema.FailedItem {
	var failed []schema.FailedItem
	for _, letter := range schema.AllSections {
		def := reg.Sections[letter]
		for _, code := range reg.EffectiveCodes(def, row.Items) {
			raw, ok := row.Items[code]
			if !ok {
				continue
			}
			if Classify(raw) != schema.OutcomeNegative {
				continue
			}
			label := row.Labels[code]
			if len(label) > maxItemLabelLen {
				label = label[:maxItemLabelLen]
			}
			failed = append(failed, schema.FailedItem{Section: letter, Code: code, Label: label})
		}
	}
	return failed
}

// extractFeedback keeps non-trivial open-text cells verbatim, annotated by
// the VoC analyzer, with their source column as provenance.
func extractFeedback(row schema.RawSurveyRow, waveKey string) []schema.QualitativeEntry {
	var entries []schema.QualitativeEntry
	for _, cell := range row.FreeText {
		if !isFeedbackColumn(cell) {
			continue
		}
		if len(cell.Text) <= schema.MinFeedbackLength {
			continue
		}
		entries = append(entries, AnalyzeFeedback(cell, waveKey))
	}
	return entries
}

// isFeedbackColumn recognizes the open feedback item plus any column whose
// header carries the free-text marker.
func isFeedbackColumn(cell schema.FreeTextCell) bool {
	if cell.Code == schema.FeedbackItemCode {
		return true
	}
	return strings.Contains(strings.ToLower(cell.Column), schema.FeedbackMarker)
}
