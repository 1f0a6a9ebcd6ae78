// Package store provides the SQLite storage layer for docsift.
//
// All processed documents live in a single SQLite database file:
// - Document rows with the classification verdict and extracted text
// - Per-type detail rows for capital call and distribution notices
// - FTS5 full-text index over extracted text for search
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docsift/docsift/internal/docproc"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.docsift/docsift.db"

// Document is one stored processing result.
type Document struct {
	ID             string
	Filename       string
	FileSize       int64
	MIMEType       string
	DocumentType   string
	Confidence     float64
	ExtractedText  string
	StructuredData json.RawMessage
	TextLength     int
	WordCount      int
	ProcessedAt    time.Time
	CreatedAt      time.Time
}

// CapitalCallDetail is the flattened capital call row for a document.
type CapitalCallDetail struct {
	ID                  string
	DocumentID          string
	FundName            string
	LPName              string
	CallDate            string
	DueDate             string
	CallAmount          string
	CallPercentage      string
	LPCommitment        string
	RemainingCommitment string
	FundSize            string
	PaymentInstructions string
	WireInstructions    json.RawMessage
	Confidence          float64
	CreatedAt           time.Time
}

// DistributionDetail is the flattened distribution row for a document.
type DistributionDetail struct {
	ID                   string
	DocumentID           string
	FundName             string
	LPName               string
	DistributionDate     string
	RecordDate           string
	DistributionAmount   string
	LPDistributionAmount string
	DistributionPerUnit  string
	FundNAV              string
	TotalDistributions   string
	LPUnits              string
	IRR                  string
	Multiple             string
	PaymentMethod        string
	PaymentInstructions  string
	Confidence           float64
	CreatedAt            time.Time
}

// ListOpts controls pagination and filtering for ListDocuments.
type ListOpts struct {
	Limit        int
	Offset       int
	DocumentType string // filter by document type
	SortBy       string // "date" (default) or "confidence"
}

// SearchResult holds a search hit with score and snippet.
type SearchResult struct {
	Document Document
	Score    float64
	Snippet  string
}

// StoreStats holds observability statistics about the store.
type StoreStats struct {
	DocumentCount int64
	TypeCounts    map[string]int64
	AvgConfidence float64
	DBSizeBytes   int64
}

// StoreConfig holds configuration for NewStore.
type StoreConfig struct {
	DBPath string
}

// Store defines the document storage interface.
type Store interface {
	// Documents
	SaveResult(ctx context.Context, res docproc.Result) (*Document, error)
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, opts ListOpts) ([]*Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Detail rows
	GetCapitalCall(ctx context.Context, documentID string) (*CapitalCallDetail, error)
	GetDistribution(ctx context.Context, documentID string) (*DistributionDetail, error)

	// Search
	SearchDocuments(ctx context.Context, query string, limit int) ([]*SearchResult, error)

	// Observability
	Stats(ctx context.Context) (*StoreStats, error)

	// Maintenance
	Vacuum(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite + FTS5.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg StoreConfig) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Vacuum runs VACUUM on the database. Manual only, never auto-vacuum.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
