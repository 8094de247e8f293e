package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestDocumentTool returns the tool definition for ingest_document
func ingestDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest extracted document text: detect sections, chunk, embed, and store it for querying",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the document (e.g. the source file name)",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full extracted text of the document",
				},
			},
			Required: []string{"name", "text"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents with section and chunk counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// deleteDocumentTool returns the tool definition for delete_document
func deleteDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_document",
		Description: "Delete an ingested document and all of its derived data",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the document to delete",
				},
			},
			Required: []string{"document_id"},
		},
	}
}

// getSectionsTool returns the tool definition for get_sections
func getSectionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_sections",
		Description: "Return the detected section titles of a document in order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of an ingested document",
				},
			},
			Required: []string{"document_id"},
		},
	}
}

// queryDocumentTool returns the tool definition for query_document
func queryDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_document",
		Description: "Answer a question from a document. Queries naming a section (e.g. 'problem statement 2') are restricted to that section's content",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of an ingested document",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the document",
				},
				"section": map[string]interface{}{
					"type":        "string",
					"description": "Optional section identifier ('2', 'b') to restrict the search",
				},
				"validate": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, attach a grounding validation of the answer",
					"default":     false,
				},
			},
			Required: []string{"document_id", "query"},
		},
	}
}

// summarizeDocumentTool returns the tool definition for summarize_document
func summarizeDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "summarize_document",
		Description: "Summarize a document, or a single section of it, with length-adaptive strategy",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of an ingested document",
				},
				"section": map[string]interface{}{
					"type":        "string",
					"description": "Optional section title to summarize instead of the whole document",
				},
				"max_length": map[string]interface{}{
					"type":        "integer",
					"description": "Target maximum summary length in words",
					"default":     1024,
				},
				"validate": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, attach a grounding validation of the summary",
					"default":     false,
				},
			},
			Required: []string{"document_id"},
		},
	}
}

// querySummaryTool returns the tool definition for query_summary
func querySummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_summary",
		Description: "Summarize the document content most relevant to a query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of an ingested document",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Query to select relevant content",
				},
				"section": map[string]interface{}{
					"type":        "string",
					"description": "Optional section identifier to restrict retrieval",
				},
				"max_chunks": map[string]interface{}{
					"type":        "integer",
					"description": "Number of top chunks to summarize (1-10)",
					"default":     3,
					"minimum":     1,
					"maximum":     10,
				},
				"max_length": map[string]interface{}{
					"type":        "integer",
					"description": "Target maximum summary length in words",
					"default":     1024,
				},
				"validate": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, attach a query-aware grounding validation",
					"default":     false,
				},
			},
			Required: []string{"document_id", "query"},
		},
	}
}

// validateSummaryTool returns the tool definition for validate_summary
func validateSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "validate_summary",
		Description: "Score a summary against a stored document to estimate factual grounding",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of an ingested document",
				},
				"summary": map[string]interface{}{
					"type":        "string",
					"description": "Summary text to validate",
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Similarity threshold for validity (0-1)",
					"default":     0.65,
					"minimum":     0.0,
					"maximum":     1.0,
				},
			},
			Required: []string{"document_id", "summary"},
		},
	}
}
