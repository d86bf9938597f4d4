package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/retailops/auditpulse/core"
	"github.com/retailops/auditpulse/schema"
)

// upsertQuery builds a natural-key upsert for the backend's dialect.
// MySQL uses ON DUPLICATE KEY with a row alias; SQLite and PostgreSQL
// share the ON CONFLICT ... DO UPDATE form with EXCLUDED references.
func upsertQuery(backend schema.DatabaseBackend, table string, insertCols, conflictCols, updateCols []string) string {
	tbl := quoteTableName(table, backend)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(insertCols)), ", ")

	var sets []string
	if backend == schema.MySQLBackend {
		for _, col := range updateCols {
			sets = append(sets, fmt.Sprintf("%s = new.%s", col, col))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			tbl, strings.Join(insertCols, ", "), marks, strings.Join(sets, ", "))
	}
	for _, col := range updateCols {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		tbl, strings.Join(insertCols, ", "), marks, strings.Join(conflictCols, ", "), strings.Join(sets, ", "))
}

// selectRowID fetches the surrogate id for a natural key. Upsert-then-select
// keeps id retrieval portable across all three backends.
func (s *SQLResultStore) selectRowID(tx *sql.Tx, table string, keyCols []string, keyVals []any) (int64, error) {
	var conds []string
	for _, col := range keyCols {
		conds = append(conds, col+" = ?")
	}
	query := rebind(s.backend, fmt.Sprintf("SELECT id FROM %s WHERE %s",
		quoteTableName(table, s.backend), strings.Join(conds, " AND ")))

	var id int64
	if err := tx.QueryRow(query, keyVals...).Scan(&id); err != nil {
		return 0, fmt.Errorf("select %s id: %w", table, err)
	}
	return id, nil
}

func (s *SQLResultStore) upsertStoreRow(tx *sql.Tx, code, name, region, branch string) (int64, error) {
	query := rebind(s.backend, upsertQuery(s.backend, storesTable,
		[]string{"site_code", "store_name", "region", "branch"},
		[]string{"site_code"},
		[]string{"store_name", "region", "branch"}))
	if _, err := tx.Exec(query, code, name, region, branch); err != nil {
		return 0, fmt.Errorf("upsert store %s: %w", code, err)
	}
	return s.selectRowID(tx, storesTable, []string{"site_code"}, []any{code})
}

// UpsertStoreWave persists one store's scored wave: the composite row, the
// section and item breakdowns, and the qualitative feedback. The whole
// record is written in one transaction keyed on (store, wave), so repeated
// ingestion of the same file converges to identical rows.
func (s *SQLResultStore) UpsertStoreWave(res *schema.StoreWaveResult) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	storeID, err := s.upsertStoreRow(tx, res.SiteCode, res.SiteName, res.Region, res.Branch)
	if err != nil {
		return err
	}

	kpiQuery := rebind(s.backend, upsertQuery(s.backend, kpiScoresTable,
		[]string{"store_id", "wave_name", "wave_year", "composite_score", "authoritative"},
		[]string{"store_id", "wave_name", "wave_year"},
		[]string{"composite_score", "authoritative"}))
	if _, err := tx.Exec(kpiQuery, storeID, res.Wave.Name, res.Wave.Year, res.Composite, res.Authoritative); err != nil {
		return fmt.Errorf("upsert kpi score for %s %s: %w", res.SiteCode, res.Wave.Key(), err)
	}
	kpiID, err := s.selectRowID(tx, kpiScoresTable,
		[]string{"store_id", "wave_name", "wave_year"},
		[]any{storeID, res.Wave.Name, res.Wave.Year})
	if err != nil {
		return err
	}

	if err := s.upsertJourneyScores(tx, kpiID, res.Sections); err != nil {
		return err
	}
	if err := s.upsertGranularScores(tx, kpiID, res.Items); err != nil {
		return err
	}
	if err := s.replaceQualitative(tx, kpiID, res.Qualitative); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLResultStore) upsertJourneyScores(tx *sql.Tx, kpiID int64, sections map[schema.Letter]schema.SectionScore) error {
	query := rebind(s.backend, upsertQuery(s.backend, journeyTable,
		[]string{"kpi_score_id", "section_letter", "section_name", "score", "positive_count", "negative_count"},
		[]string{"kpi_score_id", "section_letter"},
		[]string{"section_name", "score", "positive_count", "negative_count"}))

	for _, letter := range core.OrderedLetters(sections) {
		sec := sections[letter]
		// N/A sections persist as NULL so downstream averages never see
		// a phantom zero.
		score := sql.NullFloat64{Float64: sec.Score, Valid: sec.Applicable}
		if _, err := tx.Exec(query, kpiID, string(letter), core.SectionName(letter), score, sec.Positive, sec.Negative); err != nil {
			return fmt.Errorf("upsert journey score %s: %w", letter, err)
		}
	}
	return nil
}

func (s *SQLResultStore) upsertGranularScores(tx *sql.Tx, kpiID int64, items map[int]schema.Outcome) error {
	query := rebind(s.backend, upsertQuery(s.backend, granularTable,
		[]string{"kpi_score_id", "item_code", "section_letter", "score"},
		[]string{"kpi_score_id", "item_code"},
		[]string{"section_letter", "score"}))

	reg := core.DefaultRegistry()
	codes := make([]int, 0, len(items))
	for code := range items {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	for _, code := range codes {
		var score float64
		switch items[code] {
		case schema.OutcomePositive:
			score = 100
		case schema.OutcomeNegative:
			score = 0
		default:
			continue
		}
		letter, _ := reg.SectionOf(code)
		if _, err := tx.Exec(query, kpiID, code, string(letter), score); err != nil {
			return fmt.Errorf("upsert granular score %d: %w", code, err)
		}
	}
	return nil
}

// replaceQualitative rewrites the feedback child set inside the caller's
// transaction. Free text has no stable natural key, so delete-then-insert
// is the only way re-ingestion stays idempotent.
func (s *SQLResultStore) replaceQualitative(tx *sql.Tx, kpiID int64, entries []schema.QualitativeEntry) error {
	delQuery := rebind(s.backend, fmt.Sprintf("DELETE FROM %s WHERE kpi_score_id = ?",
		quoteTableName(qualitativeTable, s.backend)))
	if _, err := tx.Exec(delQuery, kpiID); err != nil {
		return fmt.Errorf("clear qualitative feedback: %w", err)
	}

	insQuery := rebind(s.backend, fmt.Sprintf(
		"INSERT INTO %s (kpi_score_id, feedback_text, sentiment, category, themes, ai_insight, source_column) VALUES (?, ?, ?, ?, ?, ?, ?)",
		quoteTableName(qualitativeTable, s.backend)))

	for _, entry := range entries {
		themes, err := json.Marshal(entry.Themes)
		if err != nil {
			return fmt.Errorf("encode themes: %w", err)
		}
		if _, err := tx.Exec(insQuery, kpiID, entry.Text, string(entry.Sentiment), entry.Category,
			string(themes), entry.AIInsight, entry.SourceColumn); err != nil {
			return fmt.Errorf("insert qualitative feedback: %w", err)
		}
	}
	return nil
}

// ReplaceActionPlans swaps a store's entire plan set atomically, seeding a
// blank approvals row per item. Stores that never appeared in a wave file
// still get plan rows, so an identity stub is created on demand.
func (s *SQLResultStore) ReplaceActionPlans(siteCode string, items []schema.ActionPlanItem) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	storeID, err := s.selectRowID(tx, storesTable, []string{"site_code"}, []any{siteCode})
	if err != nil {
		storeID, err = s.upsertStoreRow(tx, siteCode, siteCode, schema.UnknownLabel, schema.UnknownLabel)
		if err != nil {
			return err
		}
	}

	plansTbl := quoteTableName(actionPlansTable, s.backend)
	approvalsTbl := quoteTableName(approvalsTable, s.backend)

	delApprovals := rebind(s.backend, fmt.Sprintf(
		"DELETE FROM %s WHERE action_plan_id IN (SELECT id FROM %s WHERE store_id = ?)",
		approvalsTbl, plansTbl))
	if _, err := tx.Exec(delApprovals, storeID); err != nil {
		return fmt.Errorf("clear approvals for %s: %w", siteCode, err)
	}
	delPlans := rebind(s.backend, fmt.Sprintf("DELETE FROM %s WHERE store_id = ?", plansTbl))
	if _, err := tx.Exec(delPlans, storeID); err != nil {
		return fmt.Errorf("clear action plans for %s: %w", siteCode, err)
	}

	for _, item := range items {
		planID, err := s.insertPlanItem(tx, storeID, item)
		if err != nil {
			return fmt.Errorf("insert action plan for %s: %w", siteCode, err)
		}
		seed := rebind(s.backend, fmt.Sprintf("INSERT INTO %s (action_plan_id) VALUES (?)", approvalsTbl))
		if _, err := tx.Exec(seed, planID); err != nil {
			return fmt.Errorf("seed approvals for %s: %w", siteCode, err)
		}
	}

	return tx.Commit()
}

// insertPlanItem inserts one plan row and returns its id. PostgreSQL needs
// RETURNING since lib-level LastInsertId is unsupported there.
func (s *SQLResultStore) insertPlanItem(tx *sql.Tx, storeID int64, item schema.ActionPlanItem) (int64, error) {
	cols := "store_id, category, finding_source, action_text, rank_order, timeline_week, status"
	tbl := quoteTableName(actionPlansTable, s.backend)

	if s.backend == schema.PostgreSQLBackend {
		query := rebind(s.backend, fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id", tbl, cols))
		var id int64
		err := tx.QueryRow(query, storeID, string(item.Category), item.FindingSource,
			item.Action, item.Rank, item.TimelineWeek, string(item.Status)).Scan(&id)
		return id, err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)", tbl, cols)
	result, err := tx.Exec(query, storeID, string(item.Category), item.FindingSource,
		item.Action, item.Rank, item.TimelineWeek, string(item.Status))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetStatus reports row counts for the configured backend.
func (s *SQLResultStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{Backend: s.backend}
	if s.db == nil {
		return status, nil
	}

	counts := []struct {
		table string
		dest  *int64
	}{
		{storesTable, &status.Stores},
		{kpiScoresTable, &status.KPIScores},
		{actionPlansTable, &status.ActionPlans},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(c.table, s.backend))
		if err := s.db.QueryRow(query).Scan(c.dest); err != nil {
			return status, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return status, nil
}
