package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docsift/docsift/internal/docproc"
	"github.com/docsift/docsift/internal/store"
)

const testCallNotice = `Apex Growth Fund III
Capital Call Notice

Dear Acme Pension Trust,

Call Amount: $250,000
Due Date: 03/15/2025
Remaining Commitment: $1,750,000`

func setupServer(t *testing.T) (*server.MCPServer, store.Store) {
	t.Helper()
	s, err := store.NewStore(store.StoreConfig{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	pipeline, err := docproc.New("")
	if err != nil {
		t.Fatalf("creating pipeline: %v", err)
	}

	srv := NewServer(ServerConfig{Store: s, Pipeline: pipeline, Version: "test"})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	return srv, s
}

// callTool is a helper that invokes an MCP tool through HandleMessage.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}

	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{IsError: resp.Result.IsError}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}
	return callResult
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found")
	return ""
}

func TestParseTool(t *testing.T) {
	srv, s := setupServer(t)

	result := callTool(t, srv, "parse_document", map[string]interface{}{
		"content":  testCallNotice,
		"filename": "call.txt",
	})
	if result.IsError {
		t.Fatalf("parse_document failed: %s", getTextContent(t, result))
	}

	text := getTextContent(t, result)
	if !strings.Contains(text, `"document_type": "capital_call"`) {
		t.Errorf("missing type in output: %s", text)
	}
	if !strings.Contains(text, `"call_amount": "250000"`) {
		t.Errorf("missing call amount in output: %s", text)
	}
	if !strings.Contains(text, `"document_id"`) {
		t.Errorf("missing document id in output: %s", text)
	}

	docs, err := s.ListDocuments(context.Background(), store.ListOpts{})
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 persisted document, got %d", len(docs))
	}
}

func TestParseTool_NoSave(t *testing.T) {
	srv, s := setupServer(t)

	result := callTool(t, srv, "parse_document", map[string]interface{}{
		"content": "plain text with nothing much in it",
		"save":    false,
	})
	if result.IsError {
		t.Fatalf("parse_document failed: %s", getTextContent(t, result))
	}
	if strings.Contains(getTextContent(t, result), `"document_id"`) {
		t.Error("unsaved parse should not return a document id")
	}

	docs, err := s.ListDocuments(context.Background(), store.ListOpts{})
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no persisted documents, got %d", len(docs))
	}
}

func TestParseTool_MissingContent(t *testing.T) {
	srv, _ := setupServer(t)
	result := callTool(t, srv, "parse_document", map[string]interface{}{})
	if !result.IsError {
		t.Fatal("expected error without content")
	}
}

func TestParseTool_EmptyContentIsTotal(t *testing.T) {
	srv, _ := setupServer(t)
	result := callTool(t, srv, "parse_document", map[string]interface{}{
		"content": "",
	})
	if result.IsError {
		t.Fatalf("empty content must not fail: %s", getTextContent(t, result))
	}
	if !strings.Contains(getTextContent(t, result), `"document_type": "unclassified"`) {
		t.Errorf("expected unclassified result: %s", getTextContent(t, result))
	}
}

func TestListTool(t *testing.T) {
	srv, _ := setupServer(t)

	callTool(t, srv, "parse_document", map[string]interface{}{"content": testCallNotice, "filename": "call.txt"})
	callTool(t, srv, "parse_document", map[string]interface{}{"content": "Distribution Notice\nRecord Date: 2025-06-30", "filename": "dist.txt"})

	result := callTool(t, srv, "list_documents", map[string]interface{}{})
	if result.IsError {
		t.Fatalf("list_documents failed: %s", getTextContent(t, result))
	}
	var summaries []documentSummary
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &summaries); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(summaries))
	}

	filtered := callTool(t, srv, "list_documents", map[string]interface{}{"type": "capital_call"})
	if err := json.Unmarshal([]byte(getTextContent(t, filtered)), &summaries); err != nil {
		t.Fatalf("unmarshal filtered list: %v", err)
	}
	if len(summaries) != 1 || summaries[0].DocumentType != "capital_call" {
		t.Fatalf("filtered list = %+v", summaries)
	}
}

func TestGetTool(t *testing.T) {
	srv, _ := setupServer(t)

	parse := callTool(t, srv, "parse_document", map[string]interface{}{"content": testCallNotice})
	var parsed struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, parse)), &parsed); err != nil {
		t.Fatalf("unmarshal parse output: %v", err)
	}

	result := callTool(t, srv, "get_document", map[string]interface{}{"id": parsed.DocumentID})
	if result.IsError {
		t.Fatalf("get_document failed: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	if !strings.Contains(text, "capital_call_details") {
		t.Errorf("missing detail row in output: %s", text)
	}

	missing := callTool(t, srv, "get_document", map[string]interface{}{"id": "no-such-id"})
	if !missing.IsError {
		t.Fatal("expected error for unknown id")
	}
}

func TestSearchToolMCP(t *testing.T) {
	srv, _ := setupServer(t)

	callTool(t, srv, "parse_document", map[string]interface{}{"content": testCallNotice, "filename": "call.txt"})

	result := callTool(t, srv, "search_documents", map[string]interface{}{"query": "commitment"})
	if result.IsError {
		t.Fatalf("search_documents failed: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	if !strings.Contains(text, `"document_type": "capital_call"`) {
		t.Errorf("search missed the document: %s", text)
	}

	empty := callTool(t, srv, "search_documents", map[string]interface{}{"query": "zeppelin"})
	if empty.IsError {
		t.Fatalf("empty search failed: %s", getTextContent(t, empty))
	}
}

func TestStatsTool(t *testing.T) {
	srv, _ := setupServer(t)

	callTool(t, srv, "parse_document", map[string]interface{}{"content": testCallNotice})

	result := callTool(t, srv, "docsift_stats", map[string]interface{}{})
	if result.IsError {
		t.Fatalf("docsift_stats failed: %s", getTextContent(t, result))
	}
	text := getTextContent(t, result)
	if !strings.Contains(text, `"document_count": 1`) {
		t.Errorf("stats output = %s", text)
	}
	if !strings.Contains(text, "capital_call") {
		t.Errorf("stats missing type counts: %s", text)
	}
}
