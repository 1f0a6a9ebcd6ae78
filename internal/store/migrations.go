package store

import "fmt"

// migrate creates all tables if they don't exist.
func (s *SQLiteStore) migrate() error {
	statements := []string{
		// Core document table
		`CREATE TABLE IF NOT EXISTS documents (
			id              TEXT PRIMARY KEY,
			filename        TEXT,
			file_size       INTEGER DEFAULT 0,
			mime_type       TEXT,
			document_type   TEXT NOT NULL,
			confidence      REAL NOT NULL DEFAULT 0,
			extracted_text  TEXT NOT NULL,
			structured_data TEXT NOT NULL DEFAULT '{}',
			text_length     INTEGER DEFAULT 0,
			word_count      INTEGER DEFAULT 0,
			processed_at    DATETIME NOT NULL,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Capital call detail rows, one per capital call document
		`CREATE TABLE IF NOT EXISTS capital_call_details (
			id                   TEXT PRIMARY KEY,
			document_id          TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			fund_name            TEXT,
			lp_name              TEXT,
			call_date            TEXT,
			due_date             TEXT,
			call_amount          TEXT,
			call_percentage      TEXT,
			lp_commitment        TEXT,
			remaining_commitment TEXT,
			fund_size            TEXT,
			payment_instructions TEXT,
			wire_instructions    TEXT,
			confidence           REAL NOT NULL DEFAULT 0,
			created_at           DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Distribution detail rows, one per distribution document
		`CREATE TABLE IF NOT EXISTS distribution_details (
			id                     TEXT PRIMARY KEY,
			document_id            TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			fund_name              TEXT,
			lp_name                TEXT,
			distribution_date      TEXT,
			record_date            TEXT,
			distribution_amount    TEXT,
			lp_distribution_amount TEXT,
			distribution_per_unit  TEXT,
			fund_nav               TEXT,
			total_distributions    TEXT,
			lp_units               TEXT,
			irr                    TEXT,
			multiple               TEXT,
			payment_method         TEXT,
			payment_instructions   TEXT,
			confidence             REAL NOT NULL DEFAULT 0,
			created_at             DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// FTS5 full-text search index over extracted text
		`CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			id UNINDEXED,
			extracted_text,
			filename,
			tokenize='porter unicode61'
		)`,

		// FTS sync triggers
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(id, extracted_text, filename)
			VALUES (new.id, new.extracted_text, COALESCE(new.filename, ''));
		END`,

		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			DELETE FROM documents_fts WHERE id = old.id;
		END`,

		// Lookup indexes
		`CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(document_type)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_processed ON documents(processed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_capital_call_document ON capital_call_details(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_distribution_document ON distribution_details(document_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}
