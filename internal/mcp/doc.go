// Package mcp implements the Model Context Protocol (MCP) server for
// docsift.
//
// The server exposes the document pipeline to MCP clients over stdio
// as eight tools:
//   - ingest_document: ingest extracted text (sections, chunks, embeddings)
//   - list_documents / delete_document: document bookkeeping
//   - get_sections: detected section titles of a document
//   - query_document: section-aware question answering
//   - summarize_document: length-adaptive document or section summary
//   - query_summary: summarize the content most relevant to a query
//   - validate_summary: grounding validation of a summary
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. Tool responses
// are JSON-formatted text results; parameter and lookup failures are
// returned as protocol errors with structured data.
package mcp
