package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/internal/docstore"
	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/inference"
)

func testServer() *Server {
	return NewServerWith(docstore.NewMemoryStore(), embedder.NewLocalEmbedder(nil), inference.NewLocalModel())
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultJSON decodes the JSON text payload of a tool result.
func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &payload))
	return payload
}

const assignmentText = "Problem Statement 1: Implement a stable sorting routine. " +
	"The routine must preserve the relative order of equal keys and accept a user supplied comparator. " +
	"Problem Statement 2: Implement an eviction cache. " +
	"The cache must evict the least recently used entry when it reaches capacity. " +
	"Problem Statement 3: Implement a running median. " +
	"Maintain two heaps and rebalance them after every insert so the median is always available."

// ingestTestDocument ingests the fixture and returns its document ID.
func ingestTestDocument(t *testing.T, s *Server) string {
	t.Helper()
	res, err := s.handleIngestDocument(context.Background(), callRequest(map[string]interface{}{
		"name": "assignment.pdf",
		"text": assignmentText,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	id, _ := payload["document_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHandleIngestDocument(t *testing.T) {
	s := testServer()

	res, err := s.handleIngestDocument(context.Background(), callRequest(map[string]interface{}{
		"name": "assignment.pdf",
		"text": assignmentText,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Equal(t, "assignment.pdf", payload["name"])
	assert.Equal(t, float64(3), payload["section_count"])
	assert.NotEmpty(t, payload["document_id"])

	sections, ok := payload["sections"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, sections, "Problem Statement 2")
}

func TestHandleIngestDocument_Validation(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	_, err := s.handleIngestDocument(ctx, callRequest(map[string]interface{}{"text": "some text"}))
	assertMCPCode(t, err, ErrorCodeInvalidParams)

	_, err = s.handleIngestDocument(ctx, callRequest(map[string]interface{}{"name": "x", "text": "   "}))
	assertMCPCode(t, err, ErrorCodeEmptyDocument)
}

func TestHandleGetSections(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleGetSections(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Equal(t, float64(3), payload["count"])
}

func TestHandleGetSections_NotFound(t *testing.T) {
	s := testServer()

	_, err := s.handleGetSections(context.Background(), callRequest(map[string]interface{}{
		"document_id": "nope",
	}))
	assertMCPCode(t, err, ErrorCodeDocumentNotFound)
}

func TestHandleQueryDocument_SectionScoped(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleQueryDocument(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"query":       "problem statement 2: what must the cache do at capacity",
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	answer, _ := payload["answer"].(string)
	assert.True(t, strings.HasPrefix(answer, "From Problem Statement 2"), answer)
	assert.Equal(t, "Problem Statement 2", payload["source_section"])
}

func TestHandleQueryDocument_WithValidation(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleQueryDocument(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"query":       "how is the running median maintained",
		"validate":    true,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	validation, ok := payload["validation"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, validation, "valid")
	assert.Contains(t, validation, "query_relevance")
	assert.Contains(t, validation, "confidence")
}

func TestHandleQueryDocument_EmptyQuery(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	_, err := s.handleQueryDocument(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"query":       "  ",
	}))
	assertMCPCode(t, err, ErrorCodeEmptyQuery)
}

func TestHandleSummarizeDocument(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleSummarizeDocument(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	summary, _ := payload["summary"].(string)
	assert.NotEmpty(t, summary)
}

func TestHandleSummarizeDocument_SectionNotFound(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleSummarizeDocument(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"section":     "Appendix Z",
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Equal(t, false, payload["found"])
	assert.Equal(t, "Could not find section: Appendix Z", payload["message"])
}

func TestHandleQuerySummary(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleQuerySummary(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"query":       "eviction cache behavior",
		"max_chunks":  float64(2),
		"validate":    true,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.NotEmpty(t, payload["summary"])
	assert.LessOrEqual(t, payload["chunks_used"].(float64), float64(2))
	_, hasValidation := payload["validation"]
	assert.True(t, hasValidation)
}

func TestHandleQuerySummary_BadMaxChunks(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	_, err := s.handleQuerySummary(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"query":       "anything",
		"max_chunks":  float64(50),
	}))
	assertMCPCode(t, err, ErrorCodeInvalidParams)
}

func TestHandleValidateSummary(t *testing.T) {
	s := testServer()
	id := ingestTestDocument(t, s)

	res, err := s.handleValidateSummary(context.Background(), callRequest(map[string]interface{}{
		"document_id": id,
		"summary":     "The cache must evict the least recently used entry when it reaches capacity.",
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Contains(t, payload, "valid")
	assert.Contains(t, payload, "score")
	assert.Contains(t, payload, "fact_validity")
	assert.NotContains(t, payload, "query_relevance")
}

func TestHandleDeleteAndList(t *testing.T) {
	s := testServer()
	ctx := context.Background()
	id := ingestTestDocument(t, s)

	res, err := s.handleListDocuments(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, float64(1), resultJSON(t, res)["count"])

	res, err = s.handleDeleteDocument(ctx, callRequest(map[string]interface{}{"document_id": id}))
	require.NoError(t, err)
	assert.Equal(t, true, resultJSON(t, res)["deleted"])

	_, err = s.handleDeleteDocument(ctx, callRequest(map[string]interface{}{"document_id": id}))
	assertMCPCode(t, err, ErrorCodeDocumentNotFound)

	res, err = s.handleListDocuments(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, float64(0), resultJSON(t, res)["count"])
}

// assertMCPCode checks that err is an MCPError with the given code.
func assertMCPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	mcpErr, ok := err.(*MCPError)
	require.True(t, ok, "expected *MCPError, got %T", err)
	assert.Equal(t, code, mcpErr.Code)
}
