package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docsift/docsift/internal/store"
)

func registerStatsResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"docsift://stats",
		"Document Store Statistics",
		mcp.WithResourceDescription("Document counts by type, average confidence, and storage size."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading stats resource: %w", err)
		}

		data, _ := json.MarshalIndent(statsPayload(stats), "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

func registerRecentResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"docsift://documents/recent",
		"Recent Documents",
		mcp.WithResourceDescription("The most recently processed documents with type and confidence."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		docs, err := st.ListDocuments(ctx, store.ListOpts{Limit: 20})
		if err != nil {
			return nil, fmt.Errorf("reading recent resource: %w", err)
		}

		payload := map[string]interface{}{
			"documents": documentSummaries(docs),
			"count":     len(docs),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
