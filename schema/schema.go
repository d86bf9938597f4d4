// Package schema has the data model and shared constants for all parts of auditpulse.
package schema

import "fmt"

// Wave identifies one periodic round of store audits.
type Wave struct {
	Name string // e.g. "Wave 3"
	Year int    // e.g. 2024
}

// Key returns the canonical wave key, e.g. "2024 Wave 3".
func (w Wave) Key() string {
	return fmt.Sprintf("%d %s", w.Year, w.Name)
}

// FreeTextCell is one free-text column captured from a survey row,
// with provenance. Code is 0 when the column carries no item code.
type FreeTextCell struct {
	Code   int
	Column string
	Text   string
}

// RawSurveyRow is one shopper visit as read from a wave export.
// It is immutable once read; the wave processor never mutates it.
type RawSurveyRow struct {
	SiteCode   string
	SiteName   string
	Region     string // raw label, possibly inconsistent casing
	Branch     string
	FinalScore float64 // authoritative composite from the export; 0 means absent

	Items         map[int]string     // item code -> raw answer
	Labels        map[int]string     // item code -> question text from the header
	FreeText      []FreeTextCell     // "- Text" siblings and open feedback columns
	SectionChecks map[Letter]float64 // external per-section percentages, cross-check only
}

// SectionScore is the derived score for one section of one visit.
// Score is meaningful only when Applicable is true; a section with zero
// countable items is N/A, never zero.
type SectionScore struct {
	Letter     Letter  `json:"letter"`
	Score      float64 `json:"score"`
	Applicable bool    `json:"applicable"`
	Positive   int     `json:"positive"`
	Negative   int     `json:"negative"`
}

// QualitativeEntry is one annotated piece of shopper feedback.
type QualitativeEntry struct {
	Text         string    `json:"text"`
	Sentiment    Sentiment `json:"sentiment"`
	Category     string    `json:"category"`
	Themes       []string  `json:"themes"`
	AIInsight    string    `json:"ai_insight,omitempty"`
	SourceColumn string    `json:"source_column,omitempty"`
	WaveKey      string    `json:"wave_key,omitempty"`
}

// FailedItem is one negatively answered item, kept for drill-down display.
type FailedItem struct {
	Section Letter `json:"section"`
	Code    int    `json:"code"`
	Label   string `json:"label"`
}

// StoreWaveResult is the normalized record for one store in one wave.
// Re-ingestion of the same wave supersedes it wholesale (upsert by
// store+wave), never merges.
type StoreWaveResult struct {
	SiteCode string `json:"site_code"`
	SiteName string `json:"site_name"`
	Region   string `json:"region"`
	Branch   string `json:"branch"`
	Wave     Wave   `json:"wave"`

	Composite     float64 `json:"composite"`
	Authoritative bool    `json:"authoritative"` // composite came from the export's Final Score

	Sections    map[Letter]SectionScore `json:"sections"`
	Items       map[int]Outcome         `json:"items"` // scored outcomes for benchmarking
	Qualitative []QualitativeEntry      `json:"qualitative"`
	FailedItems []FailedItem            `json:"failed_items"`
}

// StoreMeta is the identity block of a store node.
type StoreMeta struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Branch string `json:"branch"`
}

// SectionAgg accumulates one section across contributing stores.
type SectionAgg struct {
	Sum      float64 `json:"sum"`
	Count    int     `json:"count"`
	Critical int     `json:"critical"` // stores below CriticalThreshold
}

// ItemAgg accumulates one item code across contributing stores.
// Only numeric outcomes count: Positive adds 1, Negative adds 0.
type ItemAgg struct {
	Sum   float64 `json:"sum"`
	Count int     `json:"count"`
}

// WaveAgg is the running aggregate for one wave at one hierarchy level.
// Sums and counts, never running averages, so accumulation is commutative
// and re-ingestion reproduces the same node regardless of order.
type WaveAgg struct {
	Sum      float64                `json:"sum"`
	Count    int                    `json:"count"`
	Sections map[Letter]*SectionAgg `json:"sections"`
	Items    map[int]*ItemAgg       `json:"items"`
}

// Mean returns the arithmetic mean of contributing composites.
func (a *WaveAgg) Mean() float64 {
	if a == nil || a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// SectionMean returns the mean score for one section, and whether any
// store contributed to it.
func (a *WaveAgg) SectionMean(letter Letter) (float64, bool) {
	if a == nil {
		return 0, false
	}
	sec, ok := a.Sections[letter]
	if !ok || sec.Count == 0 {
		return 0, false
	}
	return sec.Sum / float64(sec.Count), true
}

// LevelNode maps wave keys to aggregates for one branch/region/national node.
type LevelNode map[string]*WaveAgg

// StoreNode holds one store's identity and its per-wave history.
type StoreNode struct {
	Meta    StoreMeta                   `json:"meta"`
	Results map[string]*StoreWaveResult `json:"results"` // wave key -> result
}

// Hierarchy is the full aggregate tree: store histories plus roll-ups to
// branch, region and national level.
type Hierarchy struct {
	National LevelNode             `json:"national"`
	Regions  map[string]LevelNode  `json:"regions"`
	Branches map[string]LevelNode  `json:"branches"`
	Stores   map[string]*StoreNode `json:"stores"`

	// Qualitative pools feedback from the most recent wave only; older
	// waves' free text stays inside each store's own history.
	Qualitative []QualitativeEntry `json:"qualitative"`
}

// ActionPlanItem is one derived remedial action. Generation is a pure
// function of its inputs; status transitions happen later, externally.
type ActionPlanItem struct {
	Category      PlanCategory `json:"category"`
	FindingSource string       `json:"finding_source"`
	Action        string       `json:"action"`
	Rank          int          `json:"rank"`
	TimelineWeek  int          `json:"timeline_week"`
	Status        PlanStatus   `json:"status"`
}

// MasterSite is one entry of the master store directory.
type MasterSite struct {
	SiteCode string
	SiteName string
	Region   string
	Branch   string
	City     string
}

// MasterDirectory maps site codes to their canonical identity.
type MasterDirectory map[string]MasterSite

// WeightTable maps section letters to composite weights. Weights sum to
// exactly 100 across all eleven sections.
type WeightTable map[Letter]float64

// StoreStatus reports row counts for the configured persistence backend.
type StoreStatus struct {
	Backend     DatabaseBackend `json:"backend"`
	Stores      int64           `json:"stores"`
	KPIScores   int64           `json:"kpi_scores"`
	ActionPlans int64           `json:"action_plans"`
}
