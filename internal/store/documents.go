package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/docsift/docsift/internal/docproc"
)

// SaveResult persists one processing result as a document row plus a
// detail row when the document is an LP notice. The whole write is one
// transaction.
func (s *SQLiteStore) SaveResult(ctx context.Context, res docproc.Result) (*Document, error) {
	structured, err := json.Marshal(res.StructuredData)
	if err != nil {
		return nil, fmt.Errorf("encoding structured data: %w", err)
	}

	now := time.Now().UTC()
	doc := &Document{
		ID:             uuid.NewString(),
		Filename:       res.Metadata.Filename,
		FileSize:       res.Metadata.FileSize,
		MIMEType:       res.Metadata.MIMEType,
		DocumentType:   string(res.DocumentType),
		Confidence:     res.Confidence,
		ExtractedText:  res.ExtractedText,
		StructuredData: structured,
		TextLength:     res.Metadata.TextLength,
		WordCount:      res.Metadata.WordCount,
		ProcessedAt:    res.ProcessedAt,
		CreatedAt:      now,
	}
	if doc.ProcessedAt.IsZero() {
		doc.ProcessedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, filename, file_size, mime_type, document_type, confidence,
		                        extracted_text, structured_data, text_length, word_count, processed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.FileSize, doc.MIMEType, doc.DocumentType, doc.Confidence,
		doc.ExtractedText, string(doc.StructuredData), doc.TextLength, doc.WordCount,
		doc.ProcessedAt, doc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	if cc := res.StructuredData.CapitalCall; cc != nil {
		if err := insertCapitalCall(ctx, tx, doc.ID, cc, now); err != nil {
			return nil, err
		}
	}
	if dd := res.StructuredData.Distribution; dd != nil {
		if err := insertDistribution(ctx, tx, doc.ID, dd, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing document: %w", err)
	}
	return doc, nil
}

// GetDocument retrieves a document by ID. Returns (nil, nil) when the
// ID is unknown.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	doc := &Document{}
	var structured string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, file_size, mime_type, document_type, confidence,
		        extracted_text, structured_data, text_length, word_count, processed_at, created_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.FileSize, &doc.MIMEType, &doc.DocumentType,
		&doc.Confidence, &doc.ExtractedText, &structured, &doc.TextLength,
		&doc.WordCount, &doc.ProcessedAt, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	doc.StructuredData = json.RawMessage(structured)
	return doc, nil
}

// ListDocuments returns documents with pagination and optional type
// filtering.
func (s *SQLiteStore) ListDocuments(ctx context.Context, opts ListOpts) ([]*Document, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := `SELECT id, filename, file_size, mime_type, document_type, confidence,
	                 extracted_text, structured_data, text_length, word_count, processed_at, created_at
	          FROM documents`
	args := []interface{}{}

	if opts.DocumentType != "" {
		query += " WHERE document_type = ?"
		args = append(args, opts.DocumentType)
	}

	orderBy := "processed_at DESC"
	if opts.SortBy == "confidence" {
		orderBy = "confidence DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT ? OFFSET ?", orderBy)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		var structured string
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.FileSize, &doc.MIMEType,
			&doc.DocumentType, &doc.Confidence, &doc.ExtractedText, &structured,
			&doc.TextLength, &doc.WordCount, &doc.ProcessedAt, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		doc.StructuredData = json.RawMessage(structured)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its detail rows.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %s not found", id)
	}
	return nil
}

// SearchDocuments performs full-text search using FTS5 with BM25
// ranking.
func (s *SQLiteStore) SearchDocuments(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.filename, d.file_size, d.mime_type, d.document_type, d.confidence,
		        d.extracted_text, d.structured_data, d.text_length, d.word_count, d.processed_at, d.created_at,
		        rank,
		        snippet(documents_fts, 1, '<b>', '</b>', '...', 32)
		 FROM documents_fts
		 JOIN documents d ON documents_fts.id = d.id
		 WHERE documents_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("FTS search: %w", err)
	}
	defer rows.Close()

	var results []*SearchResult
	for rows.Next() {
		r := &SearchResult{}
		var structured string
		if err := rows.Scan(&r.Document.ID, &r.Document.Filename, &r.Document.FileSize,
			&r.Document.MIMEType, &r.Document.DocumentType, &r.Document.Confidence,
			&r.Document.ExtractedText, &structured, &r.Document.TextLength,
			&r.Document.WordCount, &r.Document.ProcessedAt, &r.Document.CreatedAt,
			&r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning FTS result: %w", err)
		}
		r.Document.StructuredData = json.RawMessage(structured)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Stats returns counts and size information about the store.
func (s *SQLiteStore) Stats(ctx context.Context) (*StoreStats, error) {
	stats := &StoreStats{TypeCounts: map[string]int64{}}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(confidence), 0) FROM documents",
	).Scan(&stats.DocumentCount, &stats.AvgConfidence)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT document_type, COUNT(*) FROM documents GROUP BY document_type",
	)
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		stats.TypeCounts[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.dbPath != ":memory:" {
		if info, err := os.Stat(s.dbPath); err == nil {
			stats.DBSizeBytes = info.Size()
		}
	}
	return stats, nil
}
