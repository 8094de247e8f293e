package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docsift/docsift/internal/retriever"
	"github.com/docsift/docsift/internal/validator"
	"github.com/docsift/docsift/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // Document ID is not in the store
	ErrorCodeEmptyDocument    = -32002 // Document text has no usable content
	ErrorCodeEmptyQuery       = -32003 // Query parameter is empty
)

// NoContentMessage is the result text when a document has nothing to
// search.
const NoContentMessage = "No document content to search."

// handleIngestDocument handles the ingest_document tool invocation
func (s *Server) handleIngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}
	text, ok := args["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, newMCPError(ErrorCodeEmptyDocument, "text parameter is required and cannot be empty", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}

	doc, err := s.pipeline.Ingest(ctx, name, text)
	if err != nil {
		if errors.Is(err, types.ErrNoContent) {
			return nil, newMCPError(ErrorCodeEmptyDocument, "document has no usable content", nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := s.store.Put(ctx, doc); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to store document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"document_id":   doc.ID,
		"name":          doc.Name,
		"sections":      doc.SectionTitles(),
		"section_count": len(doc.Sections),
		"chunk_count":   len(doc.Chunks),
	})), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list documents", map[string]interface{}{
			"error": err.Error(),
		})
	}

	docs := make([]map[string]interface{}, len(infos))
	for i, info := range infos {
		docs[i] = map[string]interface{}{
			"document_id": info.ID,
			"name":        info.Name,
			"sections":    info.Sections,
			"chunks":      info.Chunks,
			"created_at":  info.CreatedAt,
		}
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})), nil
}

// handleDeleteDocument handles the delete_document tool invocation
func (s *Server) handleDeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["document_id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "document_id parameter is required", nil)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, newMCPError(ErrorCodeDocumentNotFound, "document not found", map[string]interface{}{
				"document_id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"deleted":     true,
		"document_id": id,
	})), nil
}

// handleGetSections handles the get_sections tool invocation
func (s *Server) handleGetSections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, mcpErr := s.loadDocument(ctx, args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"document_id": doc.ID,
		"name":        doc.Name,
		"sections":    doc.SectionTitles(),
		"count":       len(doc.Sections),
	})), nil
}

// handleQueryDocument handles the query_document tool invocation
func (s *Server) handleQueryDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, mcpErr := s.loadDocument(ctx, args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", nil)
	}

	result, err := s.engine.Retrieve(ctx, retriever.Request{
		Chunks:        doc.Chunks,
		Embeddings:    doc.Embeddings,
		Query:         query,
		TargetSection: getStringDefault(args, "section", ""),
	})
	if err != nil {
		if errors.Is(err, types.ErrNoContent) {
			return mcp.NewToolResultText(formatJSON(map[string]interface{}{
				"answer": NoContentMessage,
			})), nil
		}
		return nil, newMCPError(ErrorCodeInternalError, "query failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"answer": result.Answer,
		"score":  result.Score,
	}
	if result.SourceSection != "" {
		response["source_section"] = result.SourceSection
	}

	if getBoolDefault(args, "validate", false) {
		validation, err := s.validator.ValidateWithQuery(ctx, result.Answer, query, doc.Chunks, doc.Embeddings, 0)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "validation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response["validation"] = validationPayload(validation, true)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSummarizeDocument handles the summarize_document tool invocation
func (s *Server) handleSummarizeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, mcpErr := s.loadDocument(ctx, args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	maxLength := getIntDefault(args, "max_length", 0)
	sectionTitle := getStringDefault(args, "section", "")

	source := doc.FullText
	response := map[string]interface{}{
		"document_id": doc.ID,
	}

	if sectionTitle != "" {
		sec, found := doc.FindSection(sectionTitle)
		if !found {
			return mcp.NewToolResultText(formatJSON(map[string]interface{}{
				"document_id": doc.ID,
				"found":       false,
				"message":     fmt.Sprintf("Could not find section: %s", sectionTitle),
				"sections":    doc.SectionTitles(),
			})), nil
		}
		source = sec.Content
		response["section"] = sec.Title
	}

	summary := s.summarizer.Summarize(ctx, source, maxLength)
	response["summary"] = summary

	if getBoolDefault(args, "validate", false) {
		validation, err := s.validator.Validate(ctx, summary, source, 0)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "validation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response["validation"] = validationPayload(validation, false)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleQuerySummary handles the query_summary tool invocation
func (s *Server) handleQuerySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, mcpErr := s.loadDocument(ctx, args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", nil)
	}

	maxChunks := getIntDefault(args, "max_chunks", retriever.DefaultTopK)
	if maxChunks < 1 || maxChunks > 10 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_chunks must be between 1 and 10", map[string]interface{}{
			"param": "max_chunks",
			"value": maxChunks,
		})
	}

	chunks, scores, err := s.engine.TopChunks(ctx, retriever.Request{
		Chunks:        doc.Chunks,
		Embeddings:    doc.Embeddings,
		Query:         query,
		TargetSection: getStringDefault(args, "section", ""),
	}, maxChunks)
	if err != nil {
		if errors.Is(err, types.ErrNoContent) {
			return mcp.NewToolResultText(formatJSON(map[string]interface{}{
				"summary": NoContentMessage,
			})), nil
		}
		return nil, newMCPError(ErrorCodeInternalError, "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	combined := strings.Join(texts, " ")

	summary := s.summarizer.Summarize(ctx, combined, getIntDefault(args, "max_length", 0))

	response := map[string]interface{}{
		"document_id": doc.ID,
		"summary":     summary,
		"chunks_used": len(chunks),
		"top_score":   scores[0],
	}

	if getBoolDefault(args, "validate", false) {
		validation, err := s.validator.ValidateWithQuery(ctx, summary, query, doc.Chunks, doc.Embeddings, 0)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "validation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response["validation"] = validationPayload(validation, true)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleValidateSummary handles the validate_summary tool invocation
func (s *Server) handleValidateSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, mcpErr := s.loadDocument(ctx, args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	summary, ok := args["summary"].(string)
	if !ok || strings.TrimSpace(summary) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "summary parameter is required and cannot be empty", nil)
	}

	threshold := getFloatDefault(args, "threshold", validator.DefaultThreshold)
	if threshold < 0 || threshold > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "threshold must be between 0 and 1", map[string]interface{}{
			"param": "threshold",
			"value": threshold,
		})
	}

	validation, err := s.validator.Validate(ctx, summary, doc.FullText, threshold)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "validation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := validationPayload(validation, false)
	response["document_id"] = doc.ID
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// loadDocument resolves the document_id argument against the store.
func (s *Server) loadDocument(ctx context.Context, args map[string]interface{}) (*types.Document, error) {
	id, ok := args["document_id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "document_id parameter is required", map[string]interface{}{
			"param":  "document_id",
			"reason": "missing or empty",
		})
	}

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, newMCPError(ErrorCodeDocumentNotFound, "document not found", map[string]interface{}{
				"document_id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to load document", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return doc, nil
}

// validationPayload converts a ValidationResult into response fields.
func validationPayload(v *types.ValidationResult, queryAware bool) map[string]interface{} {
	payload := map[string]interface{}{
		"valid":         v.Valid,
		"score":         v.Score,
		"avg_score":     v.AvgScore,
		"fact_validity": v.FactValidity,
		"confidence":    string(v.Confidence),
		"message":       v.Message,
	}
	if queryAware {
		payload["query_relevance"] = v.QueryRelevance
	}
	return payload
}

// newMCPError creates an MCP protocol error. The framework handles
// encoding.
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON renders a response map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
