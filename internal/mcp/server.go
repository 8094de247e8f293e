package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docsift/docsift/internal/docstore"
	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
	"github.com/docsift/docsift/internal/summarizer"
	"github.com/docsift/docsift/internal/validator"
)

const (
	// ServerName is the MCP server name
	ServerName = "docsift"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBDir is the default location for the document database
	DefaultDBDir = "~/.docsift"
	// DBFileName is the database file inside the data directory
	DBFileName = "docsift.db"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp        *server.MCPServer
	store      docstore.Store
	pipeline   *ingest.Pipeline
	engine     *retriever.Engine
	summarizer *summarizer.Summarizer
	validator  *validator.Validator
	embedder   embedder.Embedder
	model      inference.Model
}

// NewServer creates a server backed by SQLite under dbDir, with
// embedding and model providers resolved from the environment.
func NewServer(dbDir string) (*Server, error) {
	if dbDir == "" || dbDir == DefaultDBDir {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbDir = filepath.Join(home, ".docsift")
	}
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := docstore.NewSQLiteStore(filepath.Join(dbDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	model, err := inference.NewFromEnv()
	if err != nil {
		_ = store.Close()
		_ = emb.Close()
		return nil, fmt.Errorf("failed to initialize model: %w", err)
	}

	return NewServerWith(store, emb, model), nil
}

// NewServerWith wires a server from explicit collaborators. Tests use
// it with an in-memory store and offline providers.
func NewServerWith(store docstore.Store, emb embedder.Embedder, model inference.Model) *Server {
	s := &Server{
		mcp:        server.NewMCPServer(ServerName, ServerVersion),
		store:      store,
		pipeline:   ingest.New(emb),
		engine:     retriever.New(emb, model),
		summarizer: summarizer.New(model),
		validator:  validator.New(emb),
		embedder:   emb,
		model:      model,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer s.closeAll()
	return server.ServeStdio(s.mcp)
}

func (s *Server) closeAll() {
	_ = s.store.Close()
	_ = s.embedder.Close()
	_ = s.model.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(ingestDocumentTool(), s.handleIngestDocument)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
	s.mcp.AddTool(deleteDocumentTool(), s.handleDeleteDocument)
	s.mcp.AddTool(getSectionsTool(), s.handleGetSections)
	s.mcp.AddTool(queryDocumentTool(), s.handleQueryDocument)
	s.mcp.AddTool(summarizeDocumentTool(), s.handleSummarizeDocument)
	s.mcp.AddTool(querySummaryTool(), s.handleQuerySummary)
	s.mcp.AddTool(validateSummaryTool(), s.handleValidateSummary)
}
