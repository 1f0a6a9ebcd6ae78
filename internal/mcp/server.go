// Package mcp provides a Model Context Protocol server for docsift.
//
// It exposes document processing (parse, list, get, search, stats) as
// MCP tools, and store statistics plus recent documents as MCP
// resources. Supports stdio transport for editor and agent clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docsift/docsift/internal/docproc"
	"github.com/docsift/docsift/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store    store.Store
	Pipeline *docproc.Pipeline
	Version  string // version string for MCP server info
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines.
// SQLite (even with WAL) supports only one writer at a time, and concurrent
// reads during writes can return stale results. A global mutex ensures
// correct ordering: a parse completes before a list sees its document.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all docsift tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"docsift",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerParseTool(s, cfg.Pipeline, cfg.Store)
	registerListTool(s, cfg.Store)
	registerGetTool(s, cfg.Store)
	registerSearchTool(s, cfg.Store)
	registerStatsTool(s, cfg.Store)

	registerStatsResource(s, cfg.Store)
	registerRecentResource(s, cfg.Store)

	return s
}

// --- Tools ---

func registerParseTool(s *server.MCPServer, pipeline *docproc.Pipeline, st store.Store) {
	tool := mcp.NewTool("parse_document",
		mcp.WithDescription("Classify a document and extract structured fields. Handles resumes, invoices, contracts, reports, and LP capital call / distribution notices. Returns the full processing result; optionally persists it."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The raw document text to process"),
		),
		mcp.WithString("filename",
			mcp.Description("Optional source filename, recorded in metadata"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Persist the result to the document store (default: true)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}

		// Strip null bytes from content
		content = strings.ReplaceAll(content, "\x00", "")

		filename := ""
		if f, err := req.RequireString("filename"); err == nil && f != "" {
			// Sanitize: strip path components
			f = strings.ReplaceAll(f, "..", "")
			f = strings.ReplaceAll(f, "/", "-")
			f = strings.ReplaceAll(f, "\\", "-")
			filename = f
		}

		save := true
		if b, err := req.RequireBool("save"); err == nil {
			save = b
		}

		res := pipeline.Process(docproc.RawInput{
			Text:     content,
			Filename: filename,
			Size:     int64(len(content)),
		})

		payload := map[string]interface{}{
			"result": res,
		}
		if save {
			doc, err := st.SaveResult(ctx, res)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("save error: %v", err)), nil
			}
			payload["document_id"] = doc.ID
		}

		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerListTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("list_documents",
		mcp.WithDescription("List processed documents with type, confidence, and metadata. Optionally filter by document type."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("type",
			mcp.Description("Filter by document type (e.g. capital_call, distribution, resume)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of documents (default: 20, max: 100)"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order: date (default) or confidence"),
			mcp.Enum("date", "confidence"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		opts := store.ListOpts{Limit: 20}
		if typ, err := req.RequireString("type"); err == nil && typ != "" {
			opts.DocumentType = typ
		}
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			limit := int(limitVal)
			if limit > 100 {
				limit = 100
			}
			if limit > 0 {
				opts.Limit = limit
			}
		}
		if sort, err := req.RequireString("sort"); err == nil && sort != "" {
			opts.SortBy = sort
		}

		docs, err := st.ListDocuments(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(documentSummaries(docs), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerGetTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("get_document",
		mcp.WithDescription("Get one processed document by ID, including its structured data and any capital call or distribution detail row."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Document ID"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		doc, err := st.GetDocument(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get error: %v", err)), nil
		}
		if doc == nil {
			return mcp.NewToolResultError(fmt.Sprintf("document %s not found", id)), nil
		}

		payload := map[string]interface{}{
			"document": doc,
		}
		if cc, err := st.GetCapitalCall(ctx, id); err == nil && cc != nil {
			payload["capital_call_details"] = cc
		}
		if dd, err := st.GetDistribution(ctx, id); err == nil && dd != nil {
			payload["distribution_details"] = dd
		}

		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSearchTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search over extracted document text using BM25 ranking. Returns scored results with snippets."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10, max: 50)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := 10
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			l := int(limitVal)
			if l > 50 {
				l = 50
			}
			if l > 0 {
				limit = l
			}
		}

		results, err := st.SearchDocuments(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
		}

		type hit struct {
			ID           string  `json:"id"`
			Filename     string  `json:"filename,omitempty"`
			DocumentType string  `json:"document_type"`
			Confidence   float64 `json:"confidence"`
			Score        float64 `json:"score"`
			Snippet      string  `json:"snippet,omitempty"`
		}
		hits := make([]hit, 0, len(results))
		for _, r := range results {
			hits = append(hits, hit{
				ID:           r.Document.ID,
				Filename:     r.Document.Filename,
				DocumentType: r.Document.DocumentType,
				Confidence:   r.Document.Confidence,
				Score:        r.Score,
				Snippet:      r.Snippet,
			})
		}

		data, _ := json.MarshalIndent(hits, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("docsift_stats",
		mcp.WithDescription("Get document store statistics: total documents, per-type counts, average confidence, and storage size."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(statsPayload(stats), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// documentSummary is the list view of a stored document, without the
// full extracted text.
type documentSummary struct {
	ID           string  `json:"id"`
	Filename     string  `json:"filename,omitempty"`
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	WordCount    int     `json:"word_count"`
	ProcessedAt  string  `json:"processed_at"`
}

func documentSummaries(docs []*store.Document) []documentSummary {
	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentSummary{
			ID:           d.ID,
			Filename:     d.Filename,
			DocumentType: d.DocumentType,
			Confidence:   d.Confidence,
			WordCount:    d.WordCount,
			ProcessedAt:  d.ProcessedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

func statsPayload(stats *store.StoreStats) map[string]interface{} {
	return map[string]interface{}{
		"document_count": stats.DocumentCount,
		"type_counts":    stats.TypeCounts,
		"avg_confidence": stats.AvgConfidence,
		"db_size_bytes":  stats.DBSizeBytes,
	}
}
