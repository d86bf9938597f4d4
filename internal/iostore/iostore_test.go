package iostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/auditpulse/schema"
)

func newTestStore(t *testing.T) *SQLResultStore {
	t.Helper()
	store, err := NewResultStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*SQLResultStore)
}

func sampleResult() *schema.StoreWaveResult {
	return &schema.StoreWaveResult{
		SiteCode:      "ST001",
		SiteName:      "Rawamangun",
		Region:        "JAKARTA",
		Branch:        "JAKARTA 1",
		Wave:          schema.Wave{Name: "Wave 3", Year: 2024},
		Composite:     91.5,
		Authoritative: true,
		Sections: map[schema.Letter]schema.SectionScore{
			schema.SectionA: {Letter: schema.SectionA, Score: 100, Applicable: true, Positive: 6},
			schema.SectionB: {Letter: schema.SectionB, Score: 50, Applicable: true, Positive: 3, Negative: 3},
			schema.SectionK: {Letter: schema.SectionK, Applicable: false},
		},
		Items: map[int]schema.Outcome{
			759166: schema.OutcomePositive,
			759174: schema.OutcomeNegative,
			759287: schema.OutcomeExcluded,
		},
		Qualitative: []schema.QualitativeEntry{
			{Text: "Pelayanan ramah", Sentiment: schema.SentimentPositive, Category: "Service", Themes: []string{"Service"}},
		},
	}
}

func countRows(t *testing.T, s *SQLResultStore, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestUpsertStoreWave_Idempotent(t *testing.T) {
	s := newTestStore(t)
	res := sampleResult()

	require.NoError(t, s.UpsertStoreWave(res))
	require.NoError(t, s.UpsertStoreWave(res))

	assert.Equal(t, 1, countRows(t, s, storesTable))
	assert.Equal(t, 1, countRows(t, s, kpiScoresTable))
	assert.Equal(t, 3, countRows(t, s, journeyTable))
	// Excluded items never get granular rows
	assert.Equal(t, 2, countRows(t, s, granularTable))
	assert.Equal(t, 1, countRows(t, s, qualitativeTable))
}

func TestUpsertStoreWave_SupersedesPrior(t *testing.T) {
	s := newTestStore(t)
	res := sampleResult()
	require.NoError(t, s.UpsertStoreWave(res))

	res.Composite = 78.0
	res.Authoritative = false
	res.Qualitative = nil
	require.NoError(t, s.UpsertStoreWave(res))

	var composite float64
	var authoritative bool
	err := s.db.QueryRow("SELECT composite_score, authoritative FROM kpi_scores").Scan(&composite, &authoritative)
	require.NoError(t, err)
	assert.InDelta(t, 78.0, composite, 0.001)
	assert.False(t, authoritative)
	assert.Equal(t, 0, countRows(t, s, qualitativeTable))
}

func TestUpsertStoreWave_SeparateWaves(t *testing.T) {
	s := newTestStore(t)
	res := sampleResult()
	require.NoError(t, s.UpsertStoreWave(res))

	res.Wave = schema.Wave{Name: "Wave 4", Year: 2024}
	require.NoError(t, s.UpsertStoreWave(res))

	assert.Equal(t, 1, countRows(t, s, storesTable))
	assert.Equal(t, 2, countRows(t, s, kpiScoresTable))
}

func TestUpsertStoreWave_NotApplicableIsNull(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertStoreWave(sampleResult()))

	var nulls int
	err := s.db.QueryRow("SELECT COUNT(*) FROM journey_scores WHERE score IS NULL").Scan(&nulls)
	require.NoError(t, err)
	assert.Equal(t, 1, nulls)
}

func TestReplaceActionPlans(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertStoreWave(sampleResult()))

	items := []schema.ActionPlanItem{
		{Category: schema.CategoryQuantitative, FindingSource: "Section B di bawah rata-rata nasional", Action: "Briefing harian", Rank: 1, TimelineWeek: 1, Status: schema.PlanPending},
		{Category: schema.CategoryBestPractice, FindingSource: "Skor di atas ambang kritis", Action: "Pertahankan standar", Rank: 2, TimelineWeek: 2, Status: schema.PlanPending},
	}
	require.NoError(t, s.ReplaceActionPlans("ST001", items))
	assert.Equal(t, 2, countRows(t, s, actionPlansTable))
	assert.Equal(t, 2, countRows(t, s, approvalsTable))

	// Re-derivation replaces the whole set, approvals included
	require.NoError(t, s.ReplaceActionPlans("ST001", items[:1]))
	assert.Equal(t, 1, countRows(t, s, actionPlansTable))
	assert.Equal(t, 1, countRows(t, s, approvalsTable))
}

func TestReplaceActionPlans_UnknownStoreGetsStub(t *testing.T) {
	s := newTestStore(t)
	items := []schema.ActionPlanItem{
		{Category: schema.CategoryBaseline, FindingSource: "Baseline", Action: "Senyum, salam, sapa", Rank: 1, TimelineWeek: 1, Status: schema.PlanPending},
	}
	require.NoError(t, s.ReplaceActionPlans("ST999", items))

	var region string
	err := s.db.QueryRow("SELECT region FROM stores WHERE site_code = 'ST999'").Scan(&region)
	require.NoError(t, err)
	assert.Equal(t, schema.UnknownLabel, region)
}

func TestGetStatus(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertStoreWave(sampleResult()))

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.Equal(t, int64(1), status.Stores)
	assert.Equal(t, int64(1), status.KPIScores)
	assert.Equal(t, int64(0), status.ActionPlans)
}

func TestNoneBackend_NoOps(t *testing.T) {
	store, err := NewResultStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.NoError(t, store.UpsertStoreWave(sampleResult()))
	assert.NoError(t, store.ReplaceActionPlans("ST001", nil))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, status.Backend)
	assert.Zero(t, status.Stores)
}

func TestNewResultStore_UnsupportedBackend(t *testing.T) {
	_, err := NewResultStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	query := "SELECT id FROM stores WHERE site_code = ? AND region = ?"
	assert.Equal(t, query, rebind(schema.SQLiteBackend, query))
	assert.Equal(t, "SELECT id FROM stores WHERE site_code = $1 AND region = $2",
		rebind(schema.PostgreSQLBackend, query))
}

func TestUpsertQuery_Dialects(t *testing.T) {
	cols := []string{"site_code", "store_name"}
	mysql := upsertQuery(schema.MySQLBackend, storesTable, cols, []string{"site_code"}, []string{"store_name"})
	assert.Contains(t, mysql, "AS new ON DUPLICATE KEY UPDATE store_name = new.store_name")

	pg := upsertQuery(schema.PostgreSQLBackend, storesTable, cols, []string{"site_code"}, []string{"store_name"})
	assert.Contains(t, pg, "ON CONFLICT (site_code) DO UPDATE SET store_name = excluded.store_name")
}

func TestSyncAll(t *testing.T) {
	s := newTestStore(t)
	results := []schema.StoreWaveResult{*sampleResult()}
	second := *sampleResult()
	second.SiteCode = "ST002"
	results = append(results, second)

	synced, failures := SyncAll(s, results)
	assert.Equal(t, 2, synced)
	assert.Empty(t, failures)
	assert.Equal(t, 2, countRows(t, s, storesTable))
}
