// Package mcpserver exposes the search engine as Model Context Protocol tools over stdio.
package mcpserver

import (
	"fmt"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inline"
	"github.com/hyperjump/docsearch/internal/search"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Tool names
const (
	ToolSearchDocs     = "search_docs"
	ToolInsertDocLinks = "insert_doc_links"
	ToolProjectInfo    = "project_info"
)

// Server serves documentation tools to an MCP client.
type Server struct {
	mcpServer *server.MCPServer
	engine    *search.Engine
	config    *config.Config
	logger    *zap.Logger
}

// NewServer creates an MCP server with all tools registered.
func NewServer(engine *search.Engine, cfg *config.Config, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcpServer: server.NewMCPServer(cfg.MCP.Name, version, server.WithToolCapabilities(false)),
		engine:    engine,
		config:    cfg,
		logger:    logger,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	searchTool := NewSearchTool(s.engine, s.config.Search.DefaultLimit, s.config.Search.MaxLimit)
	s.mcpServer.AddTool(searchTool.GetTool(), searchTool.Handle)

	insertTool := NewInsertTool(inline.NewInserter(s.engine, s.config.Search.ResultsPerQuery))
	s.mcpServer.AddTool(insertTool.GetTool(), insertTool.Handle)

	projectTool := NewProjectTool(s.engine, s.config.Docs.URL)
	s.mcpServer.AddTool(projectTool.GetTool(), projectTool.Handle)
}

// Start serves on stdin/stdout until the input is closed.
func (s *Server) Start() error {
	s.logger.Info("Starting MCP server", zap.String("name", s.config.MCP.Name))
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}
	return nil
}
