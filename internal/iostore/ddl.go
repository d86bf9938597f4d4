package iostore

import "github.com/retailops/auditpulse/schema"

// createTableQueries returns backend-specific DDL for the reporting schema.
// The layout is normalized around a kpi_scores row per (store, wave):
// section and item breakdowns hang off it, qualitative feedback is a
// full-replace child set, and action plans carry an approvals trail.
func createTableQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{
			`CREATE TABLE IF NOT EXISTS stores (
				id INT AUTO_INCREMENT PRIMARY KEY,
				site_code VARCHAR(64) NOT NULL UNIQUE,
				store_name VARCHAR(255) NOT NULL,
				region VARCHAR(128) NOT NULL,
				branch VARCHAR(128) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS kpi_scores (
				id INT AUTO_INCREMENT PRIMARY KEY,
				store_id INT NOT NULL,
				wave_name VARCHAR(64) NOT NULL,
				wave_year INT NOT NULL,
				composite_score DOUBLE NOT NULL,
				authoritative TINYINT(1) NOT NULL DEFAULT 0,
				UNIQUE KEY uq_store_wave (store_id, wave_name, wave_year),
				FOREIGN KEY (store_id) REFERENCES stores(id)
			)`,
			`CREATE TABLE IF NOT EXISTS journey_scores (
				id INT AUTO_INCREMENT PRIMARY KEY,
				kpi_score_id INT NOT NULL,
				section_letter CHAR(1) NOT NULL,
				section_name VARCHAR(128) NOT NULL,
				score DOUBLE NULL,
				positive_count INT NOT NULL DEFAULT 0,
				negative_count INT NOT NULL DEFAULT 0,
				UNIQUE KEY uq_kpi_section (kpi_score_id, section_letter),
				FOREIGN KEY (kpi_score_id) REFERENCES kpi_scores(id)
			)`,
			`CREATE TABLE IF NOT EXISTS granular_scores (
				id INT AUTO_INCREMENT PRIMARY KEY,
				kpi_score_id INT NOT NULL,
				item_code INT NOT NULL,
				section_letter CHAR(1) NOT NULL,
				score DOUBLE NOT NULL,
				UNIQUE KEY uq_kpi_item (kpi_score_id, item_code),
				FOREIGN KEY (kpi_score_id) REFERENCES kpi_scores(id)
			)`,
			`CREATE TABLE IF NOT EXISTS qualitative_feedback (
				id INT AUTO_INCREMENT PRIMARY KEY,
				kpi_score_id INT NOT NULL,
				feedback_text TEXT NOT NULL,
				sentiment VARCHAR(16) NOT NULL,
				category VARCHAR(64) NOT NULL,
				themes TEXT NOT NULL,
				ai_insight TEXT NOT NULL,
				source_column VARCHAR(255) NOT NULL,
				FOREIGN KEY (kpi_score_id) REFERENCES kpi_scores(id)
			)`,
			`CREATE TABLE IF NOT EXISTS action_plans (
				id INT AUTO_INCREMENT PRIMARY KEY,
				store_id INT NOT NULL,
				category VARCHAR(64) NOT NULL,
				finding_source TEXT NOT NULL,
				action_text TEXT NOT NULL,
				rank_order INT NOT NULL,
				timeline_week INT NOT NULL,
				status VARCHAR(32) NOT NULL DEFAULT 'pending',
				FOREIGN KEY (store_id) REFERENCES stores(id)
			)`,
			`CREATE TABLE IF NOT EXISTS approvals (
				id INT AUTO_INCREMENT PRIMARY KEY,
				action_plan_id INT NOT NULL,
				sm_signature VARCHAR(255) NOT NULL DEFAULT '',
				sm_approved_at TIMESTAMP NULL,
				head_signature VARCHAR(255) NOT NULL DEFAULT '',
				head_approved_at TIMESTAMP NULL,
				hcbp_signature VARCHAR(255) NOT NULL DEFAULT '',
				hcbp_approved_at TIMESTAMP NULL,
				FOREIGN KEY (action_plan_id) REFERENCES action_plans(id)
			)`,
		}

	case schema.PostgreSQLBackend:
		return []string{
			`CREATE TABLE IF NOT EXISTS stores (
				id SERIAL PRIMARY KEY,
				site_code VARCHAR(64) NOT NULL UNIQUE,
				store_name VARCHAR(255) NOT NULL,
				region VARCHAR(128) NOT NULL,
				branch VARCHAR(128) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS kpi_scores (
				id SERIAL PRIMARY KEY,
				store_id INTEGER NOT NULL REFERENCES stores(id),
				wave_name VARCHAR(64) NOT NULL,
				wave_year INTEGER NOT NULL,
				composite_score DOUBLE PRECISION NOT NULL,
				authoritative BOOLEAN NOT NULL DEFAULT FALSE,
				UNIQUE (store_id, wave_name, wave_year)
			)`,
			`CREATE TABLE IF NOT EXISTS journey_scores (
				id SERIAL PRIMARY KEY,
				kpi_score_id INTEGER NOT NULL REFERENCES kpi_scores(id),
				section_letter CHAR(1) NOT NULL,
				section_name VARCHAR(128) NOT NULL,
				score DOUBLE PRECISION NULL,
				positive_count INTEGER NOT NULL DEFAULT 0,
				negative_count INTEGER NOT NULL DEFAULT 0,
				UNIQUE (kpi_score_id, section_letter)
			)`,
			`CREATE TABLE IF NOT EXISTS granular_scores (
				id SERIAL PRIMARY KEY,
				kpi_score_id INTEGER NOT NULL REFERENCES kpi_scores(id),
				item_code INTEGER NOT NULL,
				section_letter CHAR(1) NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				UNIQUE (kpi_score_id, item_code)
			)`,
			`CREATE TABLE IF NOT EXISTS qualitative_feedback (
				id SERIAL PRIMARY KEY,
				kpi_score_id INTEGER NOT NULL REFERENCES kpi_scores(id),
				feedback_text TEXT NOT NULL,
				sentiment VARCHAR(16) NOT NULL,
				category VARCHAR(64) NOT NULL,
				themes TEXT NOT NULL,
				ai_insight TEXT NOT NULL,
				source_column VARCHAR(255) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS action_plans (
				id SERIAL PRIMARY KEY,
				store_id INTEGER NOT NULL REFERENCES stores(id),
				category VARCHAR(64) NOT NULL,
				finding_source TEXT NOT NULL,
				action_text TEXT NOT NULL,
				rank_order INTEGER NOT NULL,
				timeline_week INTEGER NOT NULL,
				status VARCHAR(32) NOT NULL DEFAULT 'pending'
			)`,
			`CREATE TABLE IF NOT EXISTS approvals (
				id SERIAL PRIMARY KEY,
				action_plan_id INTEGER NOT NULL REFERENCES action_plans(id),
				sm_signature VARCHAR(255) NOT NULL DEFAULT '',
				sm_approved_at TIMESTAMP NULL,
				head_signature VARCHAR(255) NOT NULL DEFAULT '',
				head_approved_at TIMESTAMP NULL,
				hcbp_signature VARCHAR(255) NOT NULL DEFAULT '',
				hcbp_approved_at TIMESTAMP NULL
			)`,
		}

	default: // SQLite
		return []string{
			`CREATE TABLE IF NOT EXISTS stores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				site_code TEXT NOT NULL UNIQUE,
				store_name TEXT NOT NULL,
				region TEXT NOT NULL,
				branch TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS kpi_scores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				store_id INTEGER NOT NULL REFERENCES stores(id),
				wave_name TEXT NOT NULL,
				wave_year INTEGER NOT NULL,
				composite_score REAL NOT NULL,
				authoritative INTEGER NOT NULL DEFAULT 0,
				UNIQUE (store_id, wave_name, wave_year)
			)`,
			`CREATE TABLE IF NOT EXISTS journey_scores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kpi_score_id INTEGER NOT NULL REFERENCES kpi_scores(id),
				section_letter TEXT NOT NULL,
				section_name TEXT NOT NULL,
				score REAL NULL,
				positive_count INTEGER NOT NULL DEFAULT 0,
				negative_count INTEGER NOT NULL DEFAULT 0,
				UNIQUE (kpi_score_id, section_letter)
			)`,
			`CREATE TABLE IF NOT EXISTS granular_scores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kpi_score_id INTEGER NOT NULL REFERENCES kpi_scores(id),
				item_code INTEGER NOT NULL,
				section_letter TEXT NOT NULL,
				score REAL NOT NULL,
				UNIQUE (kpi_score_id, item_code)
			)`,
			`CREATE TABLE IF NOT EXISTS qualitative_feedback (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kpi_score_id INTEGER NOT NULL REFERENCES kpi_scores(id),
				feedback_text TEXT NOT NULL,
				sentiment TEXT NOT NULL,
				category TEXT NOT NULL,
				themes TEXT NOT NULL,
				ai_insight TEXT NOT NULL,
				source_column TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS action_plans (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				store_id INTEGER NOT NULL REFERENCES stores(id),
				category TEXT NOT NULL,
				finding_source TEXT NOT NULL,
				action_text TEXT NOT NULL,
				rank_order INTEGER NOT NULL,
				timeline_week INTEGER NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending'
			)`,
			`CREATE TABLE IF NOT EXISTS approvals (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				action_plan_id INTEGER NOT NULL REFERENCES action_plans(id),
				sm_signature TEXT NOT NULL DEFAULT '',
				sm_approved_at TIMESTAMP NULL,
				head_signature TEXT NOT NULL DEFAULT '',
				head_approved_at TIMESTAMP NULL,
				hcbp_signature TEXT NOT NULL DEFAULT '',
				hcbp_approved_at TIMESTAMP NULL
			)`,
		}
	}
}
